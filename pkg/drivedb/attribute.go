// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package drivedb

import (
	"fmt"
	"strings"
)

// DriveType restricts an attribute rule to one kind of drive.
type DriveType int

const (
	DriveAny DriveType = iota
	DriveHDD
	DriveSSD
)

func (t DriveType) String() string {
	switch t {
	case DriveHDD:
		return "HDD"
	case DriveSSD:
		return "SSD"
	default:
		return "any"
	}
}

// ParseDriveType maps the textual hints found in drive databases and CLI
// flags ("HDD", "SSD", case-insensitive) to a DriveType. Anything else,
// including the empty string, means unrestricted.
func ParseDriveType(s string) DriveType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HDD":
		return DriveHDD
	case "SSD":
		return DriveSSD
	default:
		return DriveAny
	}
}

// Attribute is a single rendering rule for one SMART attribute id: which
// human name it carries, how its raw bytes are reordered and which numeric
// format they decode under.
type Attribute struct {
	// ID is the attribute id this rule applies to. nil means the rule was
	// given with the 'N' placeholder and applies to any id that has no
	// explicit rule of its own.
	ID *uint8

	// Name is the human label. Convention caps it at 23 characters, but
	// longer names are passed through untouched.
	Name string

	// Format is one of the raw format tokens, e.g. "raw48" or "min2hour".
	Format string

	// ByteOrder selects source bytes for the reordered raw value:
	// 'v' value byte, 'w' worst byte, '0'..'5' the six raw bytes,
	// 'r' the reserved byte. Empty means the format default applies.
	ByteOrder string

	// Type restricts the rule to HDDs or SSDs. DriveAny applies always.
	Type DriveType
}

// byteOrderSelectors are the characters that pick an actual source byte.
// Anything else in a byte order string selects a zero pad byte.
const byteOrderSelectors = "vw012345r"

// rawFormats is the full set of supported raw format tokens, mapping each
// to its default byte order. Formats that consume the reserved or
// value/worst bytes need wider defaults.
var rawFormats = map[string]string{
	"raw8":         "543210",
	"raw16":        "543210",
	"raw24":        "543210",
	"raw48":        "543210",
	"hex48":        "543210",
	"raw56":        "r543210",
	"hex56":        "r543210",
	"raw64":        "543210wv",
	"hex64":        "543210wv",
	"raw16(raw16)": "543210",
	"raw16(avg16)": "543210",
	"raw24(raw8)":  "543210",
	"raw24/raw24":  "543210",
	"raw24/raw32":  "r543210",
	"sec2hour":     "543210",
	"min2hour":     "543210",
	"halfmin2hour": "543210",
	"msec24hour32": "r543210",
	"tempminmax":   "543210",
	"temp10x":      "543210",
}

// KnownFormat reports whether token names a supported raw format.
func KnownFormat(token string) bool {
	_, ok := rawFormats[token]
	return ok
}

// DefaultByteOrder returns the byte order applied when a rule does not
// carry one. Unknown formats get the common "543210" layout.
func DefaultByteOrder(format string) string {
	if bo, ok := rawFormats[format]; ok {
		return bo
	}
	return "543210"
}

// EffectiveByteOrder is the byte order actually used for decoding:
// the rule's own if present, the format default otherwise.
func (a *Attribute) EffectiveByteOrder() string {
	if a != nil && a.ByteOrder != "" {
		return a.ByteOrder
	}
	if a == nil {
		return DefaultByteOrder("raw48")
	}
	return DefaultByteOrder(a.Format)
}

// String renders the attribute back into the id,format[:byteorder][,name]
// override syntax. Parsing the result yields the same rule.
func (a Attribute) String() string {
	var sb strings.Builder
	if a.ID != nil {
		fmt.Fprintf(&sb, "%d,", *a.ID)
	} else {
		sb.WriteString("N,")
	}
	sb.WriteString(a.Format)
	if a.ByteOrder != "" {
		sb.WriteByte(':')
		sb.WriteString(a.ByteOrder)
	}
	if a.Name != "" {
		sb.WriteByte(',')
		sb.WriteString(a.Name)
	}
	return sb.String()
}
