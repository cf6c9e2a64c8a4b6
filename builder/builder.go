// SPDX-License-Identifier: Apache-2.0

// Package builder ingests the raw, line-based producer stream and turns
// it into a fully cross-referenced DepTree, then persists it to the
// on-disk cache (spec.md §4.1): parse & merge, platform filter, provider
// synthesis, back-edge inference, persist.
package builder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/depsvc/rcdep/deptree"
	"github.com/depsvc/rcdep/rcenv"
	"github.com/sirupsen/logrus"
)

// Producer is the external collaborator that emits the raw dependency
// stream — a shell helper that sources every init script and prints one
// record per declared edge. It is out of scope for this module
// (spec.md §1); this interface is all the builder needs of it.
type Producer interface {
	// Stream launches the producer and returns a reader of its stdout,
	// or an error if the launch fails. Closing the returned ReadCloser
	// waits for the process to exit and reports a non-zero exit as an
	// error.
	Stream(ctx context.Context, env []string) (io.ReadCloser, error)
}

// ExecProducer runs a real shell helper via os/exec, the production
// implementation of Producer.
type ExecProducer struct {
	Path string
	Args []string
}

// NewExecProducer returns a Producer that runs path with args.
func NewExecProducer(path string, args ...string) *ExecProducer {
	return &ExecProducer{Path: path, Args: args}
}

func (p *ExecProducer) Stream(ctx context.Context, env []string) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, p.Path, p.Args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stderr = os.Stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("builder: pipe producer stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("builder: start producer: %w", err)
	}
	return &producerOutput{ReadCloser: stdout, cmd: cmd}, nil
}

// producerOutput waits for the producer process on Close, turning a
// non-zero exit into an error the caller treats as a build-failed
// signal (spec.md §4.1, §7).
type producerOutput struct {
	io.ReadCloser
	cmd *exec.Cmd
}

func (p *producerOutput) Close() error {
	_ = p.ReadCloser.Close()
	if err := p.cmd.Wait(); err != nil {
		return fmt.Errorf("builder: producer exited with error: %w", err)
	}
	return nil
}

// Build runs Phases 1 through 4 against an already-available line
// stream, returning the resulting tree and the external-config side
// list. It does not touch the cache file; callers that want Phase 5 too
// should call Update, or Persist directly once they have a tree.
func Build(r io.Reader, sys string, log logrus.FieldLogger) (*deptree.DepTree, []string, error) {
	tree := deptree.New()
	var configs []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		parseLine(tree, &configs, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("builder: read producer stream: %w", err)
	}

	platformFilter(tree, sys)
	synthesizeProviders(tree)
	inferBackEdges(tree, log)

	return tree, configs, nil
}

// Persist implements Phase 5: write tree to cachePath and configs to
// configPath. A write failure is reported but the tree the caller
// already has remains valid and usable (spec.md §4.1, §7) — Persist
// only ever returns an error, it never discards tree.
func Persist(tree *deptree.DepTree, configs []string, cachePath, configPath string) error {
	if err := deptree.Save(tree, cachePath); err != nil {
		return fmt.Errorf("builder: write cache: %w", err)
	}
	if err := deptree.SaveConfig(configs, configPath); err != nil {
		return fmt.Errorf("builder: write config list: %w", err)
	}
	return nil
}

// Update runs the producer, builds the tree from its output, and
// persists it in one call — the whole of spec.md §4.1's five phases. A
// producer that fails to launch or exits with an error yields a nil tree
// and an error, and nothing is persisted.
// A persistence failure is returned alongside the fully built tree,
// since the in-memory result is still valid even though the cache write
// was not (spec.md §7).
func Update(ctx context.Context, producer Producer, sess *rcenv.Session, sys, cachePath, configPath string) (*deptree.DepTree, error) {
	env := []string{}
	if os.Getenv("RC_LIBDIR") == "" {
		env = append(env, "RC_LIBDIR="+sess.LibDir)
	}

	stream, err := producer.Stream(ctx, env)
	if err != nil {
		return nil, fmt.Errorf("builder: launch producer: %w", err)
	}

	tree, configs, buildErr := Build(stream, sys, sess.Log)
	closeErr := stream.Close()
	if buildErr != nil {
		return nil, buildErr
	}
	if closeErr != nil {
		return nil, closeErr
	}

	if err := Persist(tree, configs, cachePath, configPath); err != nil {
		sess.Log.WithField("error", err).Error("cache persist failed")
		return tree, err
	}
	return tree, nil
}
