// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package drivedb

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher reloads a drive database file whenever it is rewritten. Each
// successful reload produces a fresh immutable DB handed to the swap
// callback; a reload that fails to parse keeps the previous database.
type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Watch starts watching path. onSwap is called from the watch goroutine
// with every successfully reloaded database; the callback must do its own
// synchronization, typically an atomic pointer swap.
//
// The watch is placed on the parent directory, not the file itself:
// installers replace the file by renaming a fresh copy over it, which
// would orphan a watch bound to the old inode.
func Watch(path string, onSwap func(*DB)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}
	log.Info().Str("file", path).Msg("watching drive database for changes")

	w := &Watcher{watcher: fsw, done: make(chan struct{})}
	go w.loop(path, onSwap)
	return w, nil
}

func (w *Watcher) loop(path string, onSwap func(*DB)) {
	base := filepath.Base(path)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// editors and updaters often write in several chunks
			time.Sleep(100 * time.Millisecond)

			db, err := Load(path)
			if err != nil {
				log.Error().Err(err).Str("file", path).Msg("drive database reload failed, keeping previous")
				continue
			}
			log.Info().Str("file", path).Str("version", db.Version()).Msg("drive database reloaded")
			onSwap(db)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("drive database watcher error")
		case <-w.done:
			return
		}
	}
}

// Close stops the watch loop.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
