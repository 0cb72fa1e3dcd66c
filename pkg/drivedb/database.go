// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package drivedb

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// DB is an immutable, loaded drive database. It is safe for concurrent use
// by any number of Resolve calls; construct it once at startup and pass it
// by reference wherever matching is needed.
type DB struct {
	version string
	entries []compiledEntry
}

type compiledEntry struct {
	Entry
	model    *regexp.Regexp // nil for default and USB bridge entries
	firmware *regexp.Regexp // nil when the record matches any firmware
}

// Empty returns a database with no records. Resolving against it yields
// generic decoding everywhere; attribute ids still decode with defaults.
func Empty() *DB {
	return &DB{}
}

// Parse builds a database from drive database source text.
func Parse(src string) (*DB, error) {
	entries, err := parseEntries(src)
	if err != nil {
		return nil, err
	}

	db := &DB{}
	for _, e := range entries {
		ce := compiledEntry{Entry: e}
		if e.IsVersion() {
			db.version = strings.TrimSpace(strings.TrimPrefix(e.Family, "VERSION:"))
			db.entries = append(db.entries, ce)
			continue
		}
		if !e.IsUSBBridge() && !e.IsDefault() {
			ce.model, err = compilePattern(e.ModelRegex)
			if err != nil {
				return nil, fmt.Errorf("drivedb: family %q: model pattern: %w", e.Family, err)
			}
			if e.FirmwareRegex != "" && e.FirmwareRegex != "-" {
				ce.firmware, err = compilePattern(e.FirmwareRegex)
				if err != nil {
					return nil, fmt.Errorf("drivedb: family %q: firmware pattern: %w", e.Family, err)
				}
			}
		}
		db.entries = append(db.entries, ce)
	}
	return db, nil
}

// compilePattern anchors a database pattern so it must cover the whole
// observed string, the way smartmontools applies them.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + pattern + ")$")
}

// Load reads candidate database files in order and returns the first that
// parses. When every candidate fails it returns an Empty database together
// with the joined errors: database absence degrades matching, it does not
// abort the program.
func Load(paths ...string) (*DB, error) {
	var errs []error
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		db, err := Parse(string(src))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		log.Debug().Str("path", path).Str("version", db.version).Int("entries", len(db.entries)).Msg("drive database loaded")
		return db, nil
	}
	return Empty(), errors.Join(errs...)
}

// Version returns the database version marker, if the source carried one.
func (db *DB) Version() string { return db.version }

// Len returns the number of records, version and bridge entries included.
func (db *DB) Len() int { return len(db.entries) }

// Entries returns a copy of the parsed records in source order.
func (db *DB) Entries() []Entry {
	out := make([]Entry, len(db.entries))
	for i, e := range db.entries {
		out[i] = e.Entry
	}
	return out
}
