// SPDX-License-Identifier: Apache-2.0

package deptree

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watcher signals a long-running caller when a file under one of its
// watched directories changes, so it can re-run UpdateNeeded instead of
// polling it on a timer. It is a wakeup hint, not a replacement for
// UpdateNeeded: callers must still re-check freshness on every event, the
// watcher does no mtime comparison of its own.
type Watcher struct {
	fsw    *fsnotify.Watcher
	events chan struct{}
}

// NewWatcher starts watching the given directories (non-recursively; add
// each directory in a tree individually, mirroring fsnotify's own
// non-recursive semantics).
func NewWatcher(dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("deptree: new watcher: %w", err)
	}
	for _, d := range dirs {
		if err := fsw.Add(d); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("deptree: watch %s: %w", d, err)
		}
	}
	w := &Watcher{fsw: fsw, events: make(chan struct{}, 1)}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case _, ok := <-w.fsw.Events:
			if !ok {
				close(w.events)
				return
			}
			select {
			case w.events <- struct{}{}:
			default:
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// Changed fires (with a coalesced, possibly-stale signal) whenever a
// watched directory changes.
func (w *Watcher) Changed() <-chan struct{} {
	return w.events
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
