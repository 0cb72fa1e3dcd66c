// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package ata

import (
	"gitlab.clyso.com/clyso/smartmeta/pkg/drivedb"
)

// Identity is the decoded device identification the matching engine needs:
// the strings the drive database patterns run against plus the SMART
// feature state.
type Identity struct {
	Model    string            `json:"model"`
	Firmware string            `json:"firmware"`
	Serial   string            `json:"serial,omitempty"`
	Smart    Ternary           `json:"-"`
	Type     drivedb.DriveType `json:"-"`
}

// IdentifyAndSmart is the capability a transport must provide for SMART
// queries. It is deliberately narrower than "can issue arbitrary commands":
// the interpretation engine only ever needs identity strings and the two
// 512-byte SMART tables, and never composes pass-through commands itself.
type IdentifyAndSmart interface {
	Identity() (Identity, error)
	// ReadSmartData returns the 512-byte SMART attribute table
	// (ATA SMART READ DATA).
	ReadSmartData() ([]byte, error)
	// ReadSmartThresholds returns the 512-byte SMART threshold table
	// (ATA SMART READ THRESHOLDS).
	ReadSmartThresholds() ([]byte, error)
}
