// SPDX-License-Identifier: Apache-2.0

// Package roster assembles the initial service set for a runlevel action
// and answers the "valid in runlevel" membership test the ordering
// engine's trace gate consults (spec.md §4.7).
package roster

import (
	"github.com/depsvc/rcdep/deptree"
	"github.com/depsvc/rcdep/rcenv"
	"github.com/depsvc/rcdep/state"
)

// Assemble returns the services an action against runlevel should start
// from, given the active boot level and a snapshot of the state store.
//
// For the three shutdown-style levels (single, shutdown, reboot) the
// roster is every currently started, inactive or starting service,
// each counted exactly once — the original source this is grounded on
// concatenates its STARTING list into the result twice; this
// implementation folds duplicates instead of replicating that.
func Assemble(store state.Store, bootLevel, runlevel string) []deptree.ServiceName {
	if isShutdownStyle(runlevel) {
		return union(
			store.ServicesInState(state.Started),
			store.ServicesInState(state.Inactive),
			store.ServicesInState(state.Starting),
		)
	}

	sets := [][]deptree.ServiceName{
		store.ServicesInRunlevel(runlevel),
		store.ServicesInState(state.Coldplugged),
	}
	if bootLevel != runlevel {
		sets = append(sets, store.ServicesInRunlevel(bootLevel))
	}
	return union(sets...)
}

func isShutdownStyle(runlevel string) bool {
	switch runlevel {
	case rcenv.LevelSingle, rcenv.LevelShutdown, rcenv.LevelReboot:
		return true
	default:
		return false
	}
}

// ValidInRunlevel reports whether svc is a member of the active
// runlevel, a member of the boot level (when it differs from runlevel),
// currently coldplugged, or currently started. The ordering engine's
// trace gate uses this to decide whether a non-hard dependency is worth
// recursing into.
func ValidInRunlevel(store state.Store, bootLevel, runlevel string, svc deptree.ServiceName) bool {
	if store.InRunlevel(svc, runlevel) {
		return true
	}
	if bootLevel != runlevel && store.InRunlevel(svc, bootLevel) {
		return true
	}
	s := store.State(svc)
	return s.Has(state.Coldplugged) || s.Has(state.Started)
}

// union concatenates sets in order, keeping each service's first
// occurrence and dropping later duplicates, so the result stays a
// deterministic function of the store's own ordering.
func union(sets ...[]deptree.ServiceName) []deptree.ServiceName {
	seen := make(map[deptree.ServiceName]bool)
	var out []deptree.ServiceName
	for _, set := range sets {
		for _, svc := range set {
			if seen[svc] {
				continue
			}
			seen[svc] = true
			out = append(out, svc)
		}
	}
	return out
}
