// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package ata

// Ternary is the state of an optional device feature. Features like SMART
// can be absent, present but switched off, or active; a boolean cannot
// carry all three.
type Ternary int

const (
	Unsupported Ternary = iota
	Disabled
	Enabled
)

func (t Ternary) String() string {
	switch t {
	case Disabled:
		return "disabled"
	case Enabled:
		return "enabled"
	default:
		return "unsupported"
	}
}
