// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package smart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.clyso.com/clyso/smartmeta/pkg/drivedb"
)

// slot builds a 12-byte attribute entry: id, two flag bytes, value, worst,
// six raw bytes, reserved.
func slot(id, value, worst byte, raw [6]byte, reserved byte) []byte {
	s := []byte{id, 0, 0, value, worst}
	s = append(s, raw[:]...)
	return append(s, reserved)
}

func rule(t *testing.T, spec string) *drivedb.Attribute {
	t.Helper()
	attr, err := drivedb.ParseVendorAttribute(spec)
	require.NoError(t, err)
	return &attr
}

func TestReorderSelectors(t *testing.T) {
	s := slot(9, 0xAA, 0xBB, [6]byte{1, 2, 3, 4, 5, 6}, 0xCC)

	assert.Equal(t, []byte{6, 5, 4, 3, 2, 1}, Reorder(s, "543210"))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, Reorder(s, "012345"))
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, Reorder(s, "vwr"))
	// unknown characters select a zero pad byte
	assert.Equal(t, []byte{0, 1, 0}, Reorder(s, "_0x"))
}

func TestReorderIsPure(t *testing.T) {
	s := slot(9, 1, 2, [6]byte{3, 4, 5, 6, 7, 8}, 9)
	first := Reorder(s, "r543210vw")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Reorder(s, "r543210vw"))
	}
}

func TestReorderShortSlotDoesNotPanic(t *testing.T) {
	for n := 0; n <= 12; n++ {
		assert.NotPanics(t, func() {
			Reorder(make([]byte, n), "r543210vw")
		})
	}
}

func TestDecodeRawDefault(t *testing.T) {
	s := slot(1, 100, 100, [6]byte{0x39, 0x05, 0, 0, 0, 0}, 0)

	// no rule: plain raw48 with the default byte order
	r := DecodeRaw(s, nil)
	assert.Equal(t, int64(0x0539), r.Value())
	assert.Equal(t, "1337", r.String())
}

func TestDecodeRawMin2Hour(t *testing.T) {
	// 9000 minutes = 150 hours
	s := slot(9, 100, 100, [6]byte{0x28, 0x23, 0, 0, 0, 0}, 0)

	r := DecodeRaw(s, rule(t, "9,min2hour:543210"))
	assert.Equal(t, int64(150), r.Value())
	assert.Equal(t, "150h+00m", r.Text)
}

func TestDecodeRawSec2Hour(t *testing.T) {
	// 7384 seconds = 2h 3m 4s
	s := slot(9, 100, 100, [6]byte{0xD8, 0x1C, 0, 0, 0, 0}, 0)

	r := DecodeRaw(s, rule(t, "9,sec2hour"))
	assert.Equal(t, int64(2), r.Value())
	assert.Equal(t, "2h+03m+04s", r.Text)
}

func TestDecodeRawTempMinMax(t *testing.T) {
	// current 38, min 21, max 45 in the common layout
	s := slot(194, 62, 45, [6]byte{38, 0, 21, 0, 45, 0}, 0)

	r := DecodeRaw(s, rule(t, "194,tempminmax"))
	assert.Equal(t, int64(38), r.Value())
	assert.Equal(t, "38 (Min/Max 21/45)", r.Text)
}

func TestDecodeRawTempMinMaxPlain(t *testing.T) {
	s := slot(194, 62, 45, [6]byte{40, 0, 0, 0, 0, 0}, 0)

	r := DecodeRaw(s, rule(t, "194,tempminmax"))
	assert.Equal(t, "40", r.Text)
}

func TestDecodeRawTemp10x(t *testing.T) {
	s := slot(194, 62, 45, [6]byte{0x7B, 0x01, 0, 0, 0, 0}, 0) // 379

	r := DecodeRaw(s, rule(t, "194,temp10x"))
	assert.Equal(t, int64(37), r.Value())
	assert.Equal(t, "37.9", r.Text)
}

func TestDecodeRawHex(t *testing.T) {
	s := slot(199, 200, 200, [6]byte{0xEF, 0xBE, 0xAD, 0xDE, 0, 0}, 0)

	r := DecodeRaw(s, rule(t, "199,hex48"))
	assert.Equal(t, "0x0000deadbeef", r.Text)
}

func TestDecodeRawRaw16OptAvg16(t *testing.T) {
	// count 500, average 120
	s := slot(4, 100, 100, [6]byte{0xF4, 0x01, 0x78, 0, 0, 0}, 0)

	r := DecodeRaw(s, rule(t, "4,raw16(avg16)"))
	assert.Equal(t, int64(500), r.Value())
	assert.Equal(t, "500 (Average 120)", r.Text)
}

func TestDecodeRawRaw16OptRaw16(t *testing.T) {
	s := slot(5, 100, 100, [6]byte{0x0A, 0, 0x02, 0, 0x03, 0}, 0)

	r := DecodeRaw(s, rule(t, "5,raw16(raw16)"))
	assert.Equal(t, int64(10), r.Value())
	assert.Equal(t, "10 (3 2)", r.Text)
}

func TestDecodeRawRaw24DivRaw32(t *testing.T) {
	// high 24 bits: 7, low 32 bits: 1000, using the r543210 default
	s := slot(9, 100, 100, [6]byte{0xE8, 0x03, 0, 0, 7, 0}, 0)

	r := DecodeRaw(s, rule(t, "9,raw24/raw32"))
	assert.Equal(t, int64(7), r.Value())
	assert.Equal(t, "7/1000", r.Text)
}

func TestDecodeRawRaw8(t *testing.T) {
	s := slot(1, 100, 100, [6]byte{1, 2, 3, 4, 5, 6}, 0)

	r := DecodeRaw(s, rule(t, "1,raw8"))
	assert.Equal(t, "6 5 4 3 2 1", r.Text)
}

func TestDecodeRawRaw16(t *testing.T) {
	s := slot(1, 100, 100, [6]byte{0x01, 0x00, 0x02, 0x00, 0x03, 0x00}, 0)

	r := DecodeRaw(s, rule(t, "1,raw16"))
	assert.Equal(t, "3 2 1", r.Text)
}

func TestDecodeRawRaw64Saturates(t *testing.T) {
	// all eight source bytes 0xFF: the display keeps the full unsigned
	// value, the comparable integer saturates instead of going negative
	s := slot(1, 0xFF, 0xFF, [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, 0)

	r := DecodeRaw(s, rule(t, "1,raw64"))
	assert.Equal(t, int64(math.MaxInt64), r.Value())
	assert.Equal(t, "18446744073709551615", r.Text)

	h := DecodeRaw(s, rule(t, "1,hex64"))
	assert.Equal(t, int64(math.MaxInt64), h.Value())
	assert.Equal(t, "0xffffffffffffffff", h.Text)
}

func TestDecodeRawNeverPanics(t *testing.T) {
	rules := []*drivedb.Attribute{
		nil,
		rule(t, "1,raw8"), rule(t, "1,raw16"), rule(t, "1,raw48"),
		rule(t, "1,raw64"), rule(t, "1,hex64"), rule(t, "1,raw16(raw16)"),
		rule(t, "1,raw16(avg16)"), rule(t, "1,raw24(raw8)"),
		rule(t, "1,raw24/raw24"), rule(t, "1,raw24/raw32"),
		rule(t, "1,sec2hour"), rule(t, "1,min2hour"), rule(t, "1,halfmin2hour"),
		rule(t, "1,msec24hour32"), rule(t, "1,tempminmax"), rule(t, "1,temp10x"),
	}
	inputs := [][]byte{
		nil,
		{},
		make([]byte, 5),
		slot(1, 0xFF, 0xFF, [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, 0xFF),
		slot(1, 0, 0, [6]byte{}, 0),
	}
	for _, rl := range rules {
		for _, in := range inputs {
			assert.NotPanics(t, func() {
				r := DecodeRaw(in, rl)
				assert.NotEmpty(t, r.Text)
			})
		}
	}
}

func TestDecodeRawDeterministic(t *testing.T) {
	s := slot(9, 1, 2, [6]byte{3, 4, 5, 6, 7, 8}, 9)
	rl := rule(t, "9,min2hour:r543210")

	first := DecodeRaw(s, rl)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DecodeRaw(s, rl))
	}
}
