// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"

	"github.com/depsvc/rcdep/builder"
	"github.com/depsvc/rcdep/deptree"
	"github.com/depsvc/rcdep/rcenv"
)

// watchAndRebuild blocks, rebuilding the cache from producer every time
// one of watchDirs reports a change, until ctx is cancelled. A
// fsnotify.Watcher wakeup is only a hint; UpdateNeeded is re-checked on
// every fire so a burst of unrelated or already-applied events doesn't
// trigger a redundant rebuild.
func watchAndRebuild(ctx context.Context, producer builder.Producer, sess *rcenv.Session) error {
	if len(watchDirs) == 0 {
		return fmt.Errorf("watch: --watch requires at least one --watch-dir")
	}
	w, err := deptree.NewWatcher(watchDirs...)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-w.Changed():
			if !ok {
				return nil
			}
			stale, err := deptree.UpdateNeeded(cachePath, watchDirs, configPath)
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			if !stale {
				continue
			}
			tree, err := builder.Update(ctx, producer, sess, sys, cachePath, configPath)
			if err != nil {
				sess.Log.WithField("error", err).Error("watch rebuild failed")
				continue
			}
			fmt.Printf("%d services written to %s\n", tree.Len(), cachePath)
		}
	}
}
