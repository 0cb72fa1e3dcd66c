// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package drivedb

import (
	"fmt"
	"strconv"
	"strings"
)

// OverrideError reports a malformed vendor attribute override string.
// Segment identifies which part of the override string failed.
type OverrideError struct {
	Spec    string
	Segment string // "id", "format" or "byteorder"
	Reason  string
}

func (e *OverrideError) Error() string {
	return fmt.Sprintf("bad attribute override %q: %s: %s", e.Spec, e.Segment, e.Reason)
}

// ParseVendorAttribute parses an override in the smartctl-compatible form
//
//	id,format[:byteorder][,name]
//
// where id is 0-255 or the placeholder N ("any id"). The parser is pure;
// it neither consults the database nor touches any device.
func ParseVendorAttribute(spec string) (Attribute, error) {
	var attr Attribute

	parts := strings.SplitN(spec, ",", 3)
	if len(parts) < 2 {
		return attr, &OverrideError{spec, "format", "missing format segment"}
	}

	idPart := strings.TrimSpace(parts[0])
	if idPart != "N" {
		id, err := strconv.ParseUint(idPart, 10, 8)
		if err != nil {
			return attr, &OverrideError{spec, "id", fmt.Sprintf("%q is not an id in 0-255 or N", idPart)}
		}
		v := uint8(id)
		attr.ID = &v
	}

	format := strings.TrimSpace(parts[1])
	if colon := strings.IndexByte(format, ':'); colon >= 0 {
		byteOrder := format[colon+1:]
		format = format[:colon]
		if err := checkByteOrder(spec, byteOrder); err != nil {
			return attr, err
		}
		attr.ByteOrder = byteOrder
	}
	if !KnownFormat(format) {
		return attr, &OverrideError{spec, "format", fmt.Sprintf("unknown format token %q", format)}
	}
	attr.Format = format

	if len(parts) == 3 {
		attr.Name = parts[2]
	}

	return attr, nil
}

func checkByteOrder(spec, byteOrder string) error {
	if byteOrder == "" {
		return &OverrideError{spec, "byteorder", "byte order segment is empty"}
	}
	if len(byteOrder) > 8 {
		return &OverrideError{spec, "byteorder", "byte order is longer than 8 selectors"}
	}
	selectors := 0
	for _, c := range byteOrder {
		if strings.ContainsRune(byteOrderSelectors, c) {
			selectors++
		}
	}
	if selectors == 0 {
		return &OverrideError{spec, "byteorder", "byte order selects no source bytes"}
	}
	return nil
}
