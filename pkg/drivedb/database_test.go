// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package drivedb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFirstParsableCandidateWins(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.h", `{ "unterminated`)
	good := writeFile(t, dir, "good.h", sampleDB)
	later := writeFile(t, dir, "later.h", `{ "x", "-", "-", "", "" }`)

	db, err := Load(broken, good, later)
	require.NoError(t, err)
	assert.Equal(t, "7.3", db.Version())
}

func TestLoadAllCandidatesFailing(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.h", `{ "unterminated`)
	missing := filepath.Join(dir, "does-not-exist.h")

	db, err := Load(broken, missing)
	require.Error(t, err)

	// database absence is degraded functionality, not a fatal condition
	require.NotNil(t, db)
	assert.Equal(t, 0, db.Len())

	meta := db.Resolve("ST3000DM001-9YN166", "CC24", DriveAny, nil)
	assert.Empty(t, meta.Warning)
	assert.Nil(t, meta.RenderAttribute(9))
}

func TestEmptyDatabase(t *testing.T) {
	db := Empty()
	assert.Equal(t, 0, db.Len())
	assert.Empty(t, db.Version())
	assert.Empty(t, db.Entries())
}
