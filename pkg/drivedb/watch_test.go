// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package drivedb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadAfterWrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "drivedb.h")
	require.NoError(t, os.WriteFile(target, []byte(`{ "VERSION: 1", "-", "-", "", "" }`), 0o644))

	swapped := make(chan *DB, 4)
	w, err := Watch(target, func(db *DB) { swapped <- db })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(target, []byte(`{ "VERSION: 2", "-", "-", "", "" }`), 0o644))

	select {
	case db := <-swapped:
		assert.Equal(t, "2", db.Version())
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after rewrite")
	}
}

func TestWatchReloadAfterRename(t *testing.T) {
	target := filepath.Join(t.TempDir(), "drivedb.h")
	require.NoError(t, os.WriteFile(target, []byte(`{ "VERSION: 1", "-", "-", "", "" }`), 0o644))

	swapped := make(chan *DB, 4)
	w, err := Watch(target, func(db *DB) { swapped <- db })
	require.NoError(t, err)
	defer w.Close()

	// install the way drivedb-update does: write aside, rename over the
	// target; the watch must survive the inode swap
	tmp := target + ".download"
	require.NoError(t, os.WriteFile(tmp, []byte(`{ "VERSION: 2", "-", "-", "", "" }`), 0o644))
	require.NoError(t, os.Rename(tmp, target))

	select {
	case db := <-swapped:
		assert.Equal(t, "2", db.Version())
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after rename install")
	}
}
