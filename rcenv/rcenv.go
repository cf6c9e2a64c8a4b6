// SPDX-License-Identifier: Apache-2.0

// Package rcenv holds the explicit, per-session context spec.md's DESIGN
// NOTES call for: the boot level, the "self" service name, and the
// library directory, read once at query-session start and threaded
// through as a parameter rather than hidden behind module globals.
package rcenv

import (
	"io"
	"os"

	"github.com/depsvc/rcdep/deptree"
	"github.com/sirupsen/logrus"
)

// DefaultBootLevel is the compile-time fallback used when RC_BOOTLEVEL is
// unset, matching RC_LEVEL_BOOT in the source this module is grounded on.
const DefaultBootLevel = "boot"

// Runlevel names with fixed meaning (spec.md §4.7).
const (
	LevelSingle   = "single"
	LevelShutdown = "shutdown"
	LevelReboot   = "reboot"
)

// DefaultLibDir is exported to the producer as RC_LIBDIR when the caller's
// environment does not already define it.
const DefaultLibDir = "/lib/rc"

// Session is the explicit context passed to builder, provider and order
// operations. Construct it once per CLI invocation or long-running daemon
// tick with New, then pass it down.
type Session struct {
	// BootLevel is the runlevel entered at boot; see spec.md §4.7.
	BootLevel string
	// SelfService, if non-empty, is excluded from its own ordering output
	// (spec.md §6, RC_SVCNAME).
	SelfService deptree.ServiceName
	// LibDir is exported to the producer subprocess as RC_LIBDIR if unset
	// in its environment.
	LibDir string
	// Log receives diagnostics: dangling ineed references and cache
	// persist failures. New sets it to a logger writing to stderr; Silent
	// replaces it with one that discards everything.
	Log logrus.FieldLogger
}

// New builds a Session from the process environment, applying the
// defaults spec.md §6 specifies for unset variables.
func New() *Session {
	boot := os.Getenv("RC_BOOTLEVEL")
	if boot == "" {
		boot = DefaultBootLevel
	}
	lib := os.Getenv("RC_LIBDIR")
	if lib == "" {
		lib = DefaultLibDir
	}
	log := logrus.New()
	log.SetOutput(os.Stderr)
	return &Session{
		BootLevel:   boot,
		SelfService: deptree.ServiceName(os.Getenv("RC_SVCNAME")),
		LibDir:      lib,
		Log:         log,
	}
}

// Silent returns a Session identical to s but with diagnostics discarded,
// useful for tests that don't want log noise.
func (s *Session) Silent() *Session {
	cp := *s
	l := logrus.New()
	l.SetOutput(io.Discard)
	cp.Log = l
	return &cp
}
