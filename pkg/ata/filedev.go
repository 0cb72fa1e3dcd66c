// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package ata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gitlab.clyso.com/clyso/smartmeta/pkg/drivedb"
)

// FileDevice reads previously dumped device state from a directory:
//
//	identity.json   model/firmware/serial/type
//	attributes.bin  raw 512-byte SMART attribute table
//	thresholds.bin  raw 512-byte SMART threshold table
//
// It serves offline analysis of dumps collected elsewhere and keeps the
// hardware transport out of this repository entirely.
type FileDevice struct {
	dir      string
	identity Identity
}

type fileIdentity struct {
	Model    string `json:"model"`
	Firmware string `json:"firmware"`
	Serial   string `json:"serial"`
	Type     string `json:"type"` // "HDD", "SSD" or empty
	Smart    string `json:"smart"`
}

// OpenFileDevice loads a dump directory. The identity file is required;
// the table files are read lazily per query.
func OpenFileDevice(dir string) (*FileDevice, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "identity.json"))
	if err != nil {
		return nil, fmt.Errorf("ata: reading identity: %w", err)
	}
	var fi fileIdentity
	if err := json.Unmarshal(raw, &fi); err != nil {
		return nil, fmt.Errorf("ata: parsing identity: %w", err)
	}

	smart := Enabled
	switch fi.Smart {
	case "disabled":
		smart = Disabled
	case "unsupported":
		smart = Unsupported
	}

	return &FileDevice{
		dir: dir,
		identity: Identity{
			Model:    fi.Model,
			Firmware: fi.Firmware,
			Serial:   fi.Serial,
			Smart:    smart,
			Type:     drivedb.ParseDriveType(fi.Type),
		},
	}, nil
}

func (d *FileDevice) Identity() (Identity, error) {
	return d.identity, nil
}

func (d *FileDevice) ReadSmartData() ([]byte, error) {
	return os.ReadFile(filepath.Join(d.dir, "attributes.bin"))
}

func (d *FileDevice) ReadSmartThresholds() ([]byte, error) {
	return os.ReadFile(filepath.Join(d.dir, "thresholds.bin"))
}
