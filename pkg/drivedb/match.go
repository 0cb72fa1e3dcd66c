// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package drivedb

// DriveMeta is the merge result for one observed drive: the effective
// warning, family label and the id-to-rule table combining every matching
// database record with the caller's overrides. It is recomputed per drive
// and owned by the caller; the DB it came from is never mutated.
type DriveMeta struct {
	// Family is the display label of the most specific matching record.
	Family string

	// Warning is advisory text from the matched records, e.g. a known-bad
	// firmware notice. Empty when no matching record carries one.
	Warning string

	// FirmwareBugs aggregates -F quirk directives from matching records.
	FirmwareBugs []string

	// Type is the resolved drive type, taken from the caller's hint.
	Type DriveType

	rules   map[uint8]Attribute
	anyRule *Attribute // 'N' placeholder rule, if one was given
}

// Resolve scans the database records in stored order and merges every
// record whose model pattern matches model and whose firmware pattern is
// absent or matches firmware.
//
// Precedence is strictly file order: when several records rule the same
// attribute id, the record appearing later in the database wins. The
// community database is ordered generic-first, so file order already
// encodes specificity. Within a single record, rules restricted to the
// other drive type are merged first, so type-matching and unrestricted
// rules shadow them. User overrides are applied last and win
// unconditionally for the ids they name.
//
// Zero matching records yield an empty rule table and no warning; every
// attribute then decodes with generic defaults.
func (db *DB) Resolve(model, firmware string, hint DriveType, overrides []Attribute) *DriveMeta {
	meta := &DriveMeta{
		Type:  hint,
		rules: make(map[uint8]Attribute),
	}

	for i := range db.entries {
		e := &db.entries[i]
		if e.IsVersion() || e.IsUSBBridge() {
			continue
		}
		if !e.IsDefault() {
			if e.model == nil || !e.model.MatchString(model) {
				continue
			}
			if e.firmware != nil && !e.firmware.MatchString(firmware) {
				continue
			}
			meta.Family = e.Family
		}
		if e.WarningMsg != "" {
			meta.Warning = e.WarningMsg
		}
		meta.FirmwareBugs = append(meta.FirmwareBugs, e.FirmwareBugs...)

		// off-type rules first, so same-record rules for the hinted
		// type take precedence without being filtered out entirely
		for _, attr := range e.Presets {
			if offType(attr.Type, hint) {
				meta.merge(attr)
			}
		}
		for _, attr := range e.Presets {
			if !offType(attr.Type, hint) {
				meta.merge(attr)
			}
		}
	}

	for _, attr := range overrides {
		meta.merge(attr)
	}

	return meta
}

func offType(ruleType, hint DriveType) bool {
	return ruleType != DriveAny && hint != DriveAny && ruleType != hint
}

// merge replaces any earlier rule for the same id wholesale. Rules are
// never combined field by field.
func (m *DriveMeta) merge(attr Attribute) {
	if attr.ID == nil {
		a := attr
		m.anyRule = &a
		return
	}
	m.rules[*attr.ID] = attr
}

// RenderAttribute returns the effective rule for an attribute id, or nil
// when the merged table has no opinion and the caller should fall back to
// id-only generic decoding. Pure lookup, no I/O.
func (m *DriveMeta) RenderAttribute(id uint8) *Attribute {
	if m == nil {
		return nil
	}
	if attr, ok := m.rules[id]; ok {
		v := id
		attr.ID = &v
		return &attr
	}
	if m.anyRule != nil {
		attr := *m.anyRule
		v := id
		attr.ID = &v
		return &attr
	}
	return nil
}

// Rules returns a copy of the merged id-to-rule table.
func (m *DriveMeta) Rules() map[uint8]Attribute {
	out := make(map[uint8]Attribute, len(m.rules))
	for id, attr := range m.rules {
		out[id] = attr
	}
	return out
}
