// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package smart

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.clyso.com/clyso/smartmeta/pkg/drivedb"
)

// TableLen is the size of the SMART attribute and threshold tables.
const TableLen = 512

// ErrInvalidLength is returned when a table buffer is not exactly 512
// bytes. The decoder refuses short buffers instead of faulting on a fixed
// offset halfway through.
var ErrInvalidLength = errors.New("buffer is not 512 bytes")

const (
	slotSize  = 12
	slotCount = 30
	slotBase  = 2 // bytes 0-1 and 362-511 are reserved
)

// Attribute is one decoded SMART attribute slot.
type Attribute struct {
	ID   uint8  `json:"id"`
	Name string `json:"name,omitempty"`

	PreFail        bool `json:"pre_fail"`
	Online         bool `json:"online"`
	Performance    bool `json:"performance"`
	ErrorRate      bool `json:"error_rate"`
	EventCount     bool `json:"event_count"`
	SelfPreserving bool `json:"self_preserving"`

	// VendorFlags holds the flag bits beyond the six standard ones,
	// verbatim.
	VendorFlags uint16 `json:"vendor_flags,omitempty"`

	// Value and Worst are absent when the resolved byte order folds them
	// into the raw payload.
	Value *uint8 `json:"value,omitempty"`
	Worst *uint8 `json:"worst,omitempty"`

	// Thresh is the failure threshold from the threshold table, absent
	// when that table has no slot for this id.
	Thresh *uint8 `json:"thresh,omitempty"`

	Raw Raw `json:"raw"`
}

// ParseAttributes decodes the 512-byte SMART attribute table against the
// 512-byte threshold table and the resolved drive meta (which may be nil).
// Slots with id 0 are invalid and skipped. The result is rebuilt on every
// call and shares no state with the inputs.
func ParseAttributes(data, thresh []byte, meta *drivedb.DriveMeta) ([]Attribute, error) {
	if len(data) != TableLen {
		return nil, fmt.Errorf("smart: attribute table: %w (got %d)", ErrInvalidLength, len(data))
	}
	if len(thresh) != TableLen {
		return nil, fmt.Errorf("smart: threshold table: %w (got %d)", ErrInvalidLength, len(thresh))
	}

	// threshold table: same slot layout, byte 0 id, byte 1 threshold,
	// bytes 2-11 reserved
	threshs := make(map[uint8]uint8, slotCount)
	for i := 0; i < slotCount; i++ {
		off := slotBase + i*slotSize
		if thresh[off] == 0 {
			continue
		}
		threshs[thresh[off]] = thresh[off+1]
	}

	var attrs []Attribute
	for i := 0; i < slotCount; i++ {
		off := slotBase + i*slotSize
		id := data[off]
		if id == 0 {
			continue
		}
		slot := data[off : off+slotSize]

		// low byte first; provisional, the governing spec leaves the
		// flag field's byte order unstated
		flags := uint16(slot[1]) | uint16(slot[2])<<8

		rule := meta.RenderAttribute(id)
		byteOrder := rule.EffectiveByteOrder()

		attr := Attribute{
			ID:             id,
			PreFail:        flags&(1<<0) != 0,
			Online:         flags&(1<<1) != 0,
			Performance:    flags&(1<<2) != 0,
			ErrorRate:      flags&(1<<3) != 0,
			EventCount:     flags&(1<<4) != 0,
			SelfPreserving: flags&(1<<5) != 0,
			VendorFlags:    flags &^ 0b11_1111,
			Raw:            DecodeRaw(slot, rule),
		}
		if rule != nil {
			attr.Name = rule.Name
		}
		if !strings.ContainsRune(byteOrder, 'v') {
			v := slot[3]
			attr.Value = &v
		}
		if !strings.ContainsRune(byteOrder, 'w') {
			w := slot[4]
			attr.Worst = &w
		}
		if t, ok := threshs[id]; ok {
			tv := t
			attr.Thresh = &tv
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

// FlagsString renders the six capability flags in smartctl's brief format:
// P prefail, O updated offline only, S speed/performance, R error rate,
// C event count, K self-preserving.
func (a Attribute) FlagsString() string {
	flag := func(set bool, c byte) byte {
		if set {
			return c
		}
		return '-'
	}
	return string([]byte{
		flag(a.PreFail, 'P'),
		flag(!a.Online, 'O'),
		flag(a.Performance, 'S'),
		flag(a.ErrorRate, 'R'),
		flag(a.EventCount, 'C'),
		flag(a.SelfPreserving, 'K'),
	})
}

// FailureIndicator reports whether the normalized value crossed the
// threshold: "NOW" when value <= thresh, "past" when only worst did, "-"
// otherwise or when the comparison is not possible.
func (a Attribute) FailureIndicator() string {
	if a.Thresh == nil {
		return "-"
	}
	switch {
	case a.Value != nil && *a.Value <= *a.Thresh:
		return "NOW"
	case a.Worst != nil && *a.Worst <= *a.Thresh:
		return "past"
	default:
		return "-"
	}
}
