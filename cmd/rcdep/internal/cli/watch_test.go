// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/depsvc/rcdep/builder"
	"github.com/depsvc/rcdep/rcenv"
	"github.com/stretchr/testify/require"
)

// countingProducer is a builder.Producer stub that always emits the same
// fixed record set, counting how many times Stream was called.
type countingProducer struct {
	calls atomic.Int64
}

func (p *countingProducer) Stream(ctx context.Context, env []string) (io.ReadCloser, error) {
	p.calls.Add(1)
	return io.NopCloser(strings.NewReader("sshd\n")), nil
}

func TestWatchAndRebuildRebuildsOnDirectoryChange(t *testing.T) {
	dir := t.TempDir()
	watchDir := filepath.Join(dir, "init.d")
	require.NoError(t, os.Mkdir(watchDir, 0o755))

	origCache, origConfig, origSys, origWatchDirs := cachePath, configPath, sys, watchDirs
	defer func() {
		cachePath, configPath, sys, watchDirs = origCache, origConfig, origSys, origWatchDirs
	}()
	cachePath = filepath.Join(dir, "cache")
	configPath = filepath.Join(dir, "depconfig")
	sys = ""
	watchDirs = []string{watchDir}

	producer := &countingProducer{}
	sess := rcenv.New().Silent()

	// Seed the cache once, with an mtime guaranteed to be older than the
	// file we're about to add to the watched directory.
	_, err := builder.Update(context.Background(), producer, sess, sys, cachePath, configPath)
	require.NoError(t, err)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(cachePath, past, past))
	require.EqualValues(t, 1, producer.calls.Load())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchAndRebuild(ctx, producer, sess) }()

	// Give the watcher time to start before the directory changes.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(watchDir, "sshd"), []byte("x"), 0o644))

	require.Eventually(t, func() bool {
		return producer.calls.Load() == 2
	}, 5*time.Second, 20*time.Millisecond, "watch loop should rebuild once after the directory changes")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watchAndRebuild did not return after context cancellation")
	}
}

func TestWatchAndRebuildRequiresWatchDir(t *testing.T) {
	origWatchDirs := watchDirs
	defer func() { watchDirs = origWatchDirs }()
	watchDirs = nil

	err := watchAndRebuild(context.Background(), &countingProducer{}, rcenv.New().Silent())
	require.Error(t, err)
}
