// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package smart

import (
	"fmt"
	"math"

	"gitlab.clyso.com/clyso/smartmeta/pkg/drivedb"
)

// Raw is a decoded vendor raw value: stable display text plus a single
// comparable integer. Decoding never fails; any byte pattern under any
// rule produces some Raw.
type Raw struct {
	Format string `json:"format"`
	Num    int64  `json:"value"`
	Text   string `json:"text"`
}

func (r Raw) String() string { return r.Text }

// Value is the comparable integer of the raw value. For composite formats
// it is the primary component (e.g. the current temperature, the hour
// count, the first of a pair).
func (r Raw) Value() int64 { return r.Num }

// Reorder builds the working byte sequence for a 12-byte attribute slot
// per a byte order string: 'v' selects the value byte, 'w' the worst byte,
// '0'..'5' the six raw payload bytes, 'r' the reserved byte. Any other
// character selects a zero pad byte. Pure function; short slots read as
// zero-padded rather than faulting.
func Reorder(slot []byte, byteOrder string) []byte {
	at := func(i int) byte {
		if i < len(slot) {
			return slot[i]
		}
		return 0
	}
	out := make([]byte, 0, len(byteOrder))
	for _, c := range byteOrder {
		switch {
		case c == 'v':
			out = append(out, at(3))
		case c == 'w':
			out = append(out, at(4))
		case c >= '0' && c <= '5':
			out = append(out, at(5+int(c-'0')))
		case c == 'r':
			out = append(out, at(11))
		default:
			out = append(out, 0)
		}
	}
	return out
}

// DecodeRaw interprets the 12-byte attribute slot under the resolved rule.
// A nil rule falls back to plain raw48 decoding with the default byte
// order, so unknown attributes still display as integers.
func DecodeRaw(slot []byte, rule *drivedb.Attribute) Raw {
	format := "raw48"
	if rule != nil && rule.Format != "" {
		format = rule.Format
	}

	reordered := Reorder(slot, rule.EffectiveByteOrder())

	// accumulate big-endian; the byte order string already put the most
	// significant byte first
	var v uint64
	for _, b := range reordered {
		v = v<<8 | uint64(b)
	}

	// little-endian views of the accumulated value, the granularity the
	// split formats work on
	var by [8]byte
	var wd [4]uint16
	for i := range by {
		by[i] = byte(v >> (8 * i))
	}
	for i := range wd {
		wd[i] = uint16(v >> (16 * i))
	}

	r := Raw{Format: format}
	switch format {
	case "raw8":
		r.Num = signed(v)
		r.Text = fmt.Sprintf("%d %d %d %d %d %d", by[5], by[4], by[3], by[2], by[1], by[0])
	case "raw16":
		r.Num = signed(v)
		r.Text = fmt.Sprintf("%d %d %d", wd[2], wd[1], wd[0])
	case "raw24":
		r.Num = int64(v & 0xffffff)
		r.Text = fmt.Sprintf("%d", v&0xffffff)
	case "hex48":
		r.Num = signed(v)
		r.Text = fmt.Sprintf("0x%012x", v)
	case "hex56":
		r.Num = signed(v)
		r.Text = fmt.Sprintf("0x%014x", v)
	case "hex64":
		r.Num = signed(v)
		r.Text = fmt.Sprintf("0x%016x", v)
	case "raw16(raw16)":
		r.Num = int64(wd[0])
		r.Text = fmt.Sprintf("%d", wd[0])
		if wd[1] != 0 || wd[2] != 0 {
			r.Text += fmt.Sprintf(" (%d %d)", wd[2], wd[1])
		}
	case "raw16(avg16)":
		r.Num = int64(wd[0])
		r.Text = fmt.Sprintf("%d", wd[0])
		if wd[1] != 0 {
			r.Text += fmt.Sprintf(" (Average %d)", wd[1])
		}
	case "raw24(raw8)":
		r.Num = int64(v & 0xffffff)
		r.Text = fmt.Sprintf("%d", v&0xffffff)
		if by[3] != 0 || by[4] != 0 || by[5] != 0 {
			r.Text += fmt.Sprintf(" (%d %d %d)", by[5], by[4], by[3])
		}
	case "raw24/raw24":
		r.Num = int64(v >> 24)
		r.Text = fmt.Sprintf("%d/%d", v>>24, v&0xffffff)
	case "raw24/raw32":
		r.Num = int64(v >> 32)
		r.Text = fmt.Sprintf("%d/%d", v>>32, v&0xffffffff)
	case "sec2hour":
		r.Num = int64(v / 3600)
		r.Text = fmt.Sprintf("%dh+%02dm+%02ds", v/3600, (v%3600)/60, v%60)
	case "min2hour":
		minutes := uint64(wd[0]) + uint64(wd[1])<<16
		r.Num = int64(minutes / 60)
		r.Text = fmt.Sprintf("%dh+%02dm", minutes/60, minutes%60)
		if wd[2] != 0 {
			r.Text += fmt.Sprintf(" (%d)", wd[2])
		}
	case "halfmin2hour":
		r.Num = int64(v / 120)
		r.Text = fmt.Sprintf("%dh+%02dm", v/120, (v%120)/2)
	case "msec24hour32":
		hours := v & 0xffffffff
		msec := v >> 32
		r.Num = int64(hours)
		r.Text = fmt.Sprintf("%dh+%02dm+%02d.%03ds", hours, msec/60000, (msec%60000)/1000, msec%1000)
	case "tempminmax":
		cur := int64(by[0])
		lo, hi := by[2], by[4]
		if lo > hi {
			lo, hi = hi, lo
		}
		r.Num = cur
		r.Text = fmt.Sprintf("%d", cur)
		if lo != 0 || hi != 0 {
			r.Text += fmt.Sprintf(" (Min/Max %d/%d)", lo, hi)
		}
	case "temp10x":
		r.Num = int64(wd[0] / 10)
		r.Text = fmt.Sprintf("%d.%d", wd[0]/10, wd[0]%10)
	default: // raw48, raw56, raw64 and anything unrecognized
		r.Num = signed(v)
		r.Text = fmt.Sprintf("%d", v)
	}
	return r
}

// signed converts the accumulated value to the comparable integer. An
// 8-byte order can exceed the signed range; the result saturates rather
// than wrapping negative. The display text keeps the full value.
func signed(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
