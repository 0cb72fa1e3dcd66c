// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package drivedb

import (
	"fmt"
	"strings"
)

// Entry is one family record from the drive database: patterns to match a
// drive by, an optional advisory warning and the attribute rules that apply
// to drives of that family.
type Entry struct {
	Family        string
	ModelRegex    string
	FirmwareRegex string
	WarningMsg    string

	// Presets are the attribute rules of the record, in source order.
	Presets []Attribute

	// FirmwareBugs carries -F quirk directives verbatim. The engine does
	// not act on them; they are kept for presentation.
	FirmwareBugs []string

	// DeviceType carries the -d directive of USB bridge entries (e.g.
	// "sat", "usbcypress"), verbatim. Bridge entries never take part in
	// ATA matching, so the engine only retains it.
	DeviceType string
}

// IsVersion reports whether the entry is the database version marker
// rather than a matchable family record.
func (e *Entry) IsVersion() bool {
	return strings.HasPrefix(e.Family, "VERSION:")
}

// IsUSBBridge reports whether the entry describes a USB bridge mapping.
// Bridge entries never participate in ATA model matching.
func (e *Entry) IsUSBBridge() bool {
	return strings.HasPrefix(e.ModelRegex, "USB:")
}

// IsDefault reports whether the entry is the catch-all record that seeds
// every drive with the standard attribute set.
func (e *Entry) IsDefault() bool {
	return e.ModelRegex == "-"
}

// ParseError reports structurally malformed drive database text.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("drivedb: parse error at line %d: %s", e.Line, e.Msg)
}

// parseEntries parses the full text of a drive database source. The format
// is the community drivedb.h one: brace-delimited records of five C string
// literals (family, model regex, firmware regex, warning, attribute specs),
// separated by commas, with C and C++ comments and adjacent string literal
// concatenation.
func parseEntries(src string) ([]Entry, error) {
	p := &parser{src: src, line: 1}
	var entries []Entry

	for {
		p.skipSpace()
		if p.eof() {
			return entries, nil
		}
		if p.cur() != '{' {
			return nil, p.errf("unexpected %q at top level, want record", p.cur())
		}
		entry, err := p.parseRecord()
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)

		p.skipSpace()
		if !p.eof() && p.cur() == ',' {
			p.advance()
		}
	}
}

type parser struct {
	src  string
	pos  int
	line int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }
func (p *parser) cur() byte { return p.src[p.pos] }

func (p *parser) advance() {
	if p.src[p.pos] == '\n' {
		p.line++
	}
	p.pos++
}

func (p *parser) errf(format string, args ...interface{}) error {
	return &ParseError{Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

// skipSpace consumes whitespace and both comment styles.
func (p *parser) skipSpace() {
	for !p.eof() {
		switch {
		case p.cur() == ' ' || p.cur() == '\t' || p.cur() == '\n' || p.cur() == '\r':
			p.advance()
		case strings.HasPrefix(p.src[p.pos:], "//"):
			for !p.eof() && p.cur() != '\n' {
				p.advance()
			}
		case strings.HasPrefix(p.src[p.pos:], "/*"):
			p.advance()
			p.advance()
			for !p.eof() && !strings.HasPrefix(p.src[p.pos:], "*/") {
				p.advance()
			}
			if !p.eof() {
				p.advance()
				p.advance()
			}
		default:
			return
		}
	}
}

func (p *parser) parseRecord() (*Entry, error) {
	start := p.line
	p.advance() // consume '{'

	var fields []string
	for {
		p.skipSpace()
		if p.eof() {
			return nil, &ParseError{Line: start, Msg: "unterminated record"}
		}
		if p.cur() == '}' {
			p.advance()
			break
		}
		if len(fields) > 0 {
			if p.cur() != ',' {
				return nil, p.errf("unexpected %q in record, want ',' or '}'", p.cur())
			}
			p.advance()
			p.skipSpace()
		}
		field, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	if len(fields) != 5 {
		return nil, &ParseError{Line: start, Msg: fmt.Sprintf("record has %d fields, want 5", len(fields))}
	}

	entry := &Entry{
		Family:        fields[0],
		ModelRegex:    fields[1],
		FirmwareRegex: fields[2],
		WarningMsg:    fields[3],
	}
	if err := parsePresets(entry, fields[4], start); err != nil {
		return nil, err
	}
	return entry, nil
}

// parseField reads one field value: one or more adjacent string literals.
// An empty literal is a valid field; most records leave the firmware or
// warning field as "".
func (p *parser) parseField() (string, error) {
	var sb strings.Builder
	seen := false
	for {
		p.skipSpace()
		if p.eof() || p.cur() != '"' {
			if !seen {
				return "", p.errf("want string literal")
			}
			return sb.String(), nil
		}
		lit, err := p.parseString()
		if err != nil {
			return "", err
		}
		sb.WriteString(lit)
		seen = true
	}
}

func (p *parser) parseString() (string, error) {
	start := p.line
	p.advance() // consume opening quote

	var sb strings.Builder
	for {
		if p.eof() || p.cur() == '\n' {
			return "", &ParseError{Line: start, Msg: "unterminated string literal"}
		}
		c := p.cur()
		p.advance()
		switch c {
		case '"':
			return sb.String(), nil
		case '\\':
			if p.eof() {
				return "", &ParseError{Line: start, Msg: "unterminated string literal"}
			}
			esc := p.cur()
			p.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				// regex fields escape metacharacters; pass through
				sb.WriteByte(esc)
			}
		default:
			sb.WriteByte(c)
		}
	}
}

// parsePresets parses the fifth record field: a smartctl-style option
// string of "-v id,format[:byteorder][,name]" attribute rules, "-F"
// firmware quirk directives and "-d" device type directives.
func parsePresets(entry *Entry, field string, line int) error {
	tokens := strings.Fields(field)
	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case "-v":
			if i+1 >= len(tokens) {
				return &ParseError{Line: line, Msg: "-v with no attribute spec"}
			}
			i++
			attr, err := ParseVendorAttribute(tokens[i])
			if err != nil {
				return &ParseError{Line: line, Msg: err.Error()}
			}
			// the preset spec may trail a drive type marker, e.g.
			// "-v 9,min2hour,Power_On_Hours,HDD"
			attr = splitTypeSuffix(attr)
			entry.Presets = append(entry.Presets, attr)
		case "-F":
			if i+1 >= len(tokens) {
				return &ParseError{Line: line, Msg: "-F with no argument"}
			}
			i++
			entry.FirmwareBugs = append(entry.FirmwareBugs, tokens[i])
		case "-d":
			if i+1 >= len(tokens) {
				return &ParseError{Line: line, Msg: "-d with no device type"}
			}
			i++
			entry.DeviceType = tokens[i]
		default:
			return &ParseError{Line: line, Msg: fmt.Sprintf("unknown preset directive %q", tokens[i])}
		}
	}
	return nil
}

// splitTypeSuffix strips a trailing ",HDD" or ",SSD" drive type marker off
// the attribute name.
func splitTypeSuffix(attr Attribute) Attribute {
	if comma := strings.LastIndexByte(attr.Name, ','); comma >= 0 {
		if t := ParseDriveType(attr.Name[comma+1:]); t != DriveAny {
			attr.Type = t
			attr.Name = attr.Name[:comma]
		}
	}
	return attr
}
