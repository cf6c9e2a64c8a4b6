// SPDX-License-Identifier: Apache-2.0

// Package state defines the service-state-store interface this resolver
// consumes (spec.md §6), plus an in-memory implementation used by tests
// and the CLI demo. The real store — tracking which services are started,
// stopping, coldplugged, etc. — lives outside this module's scope;
// spec.md lists it as an external collaborator referenced only through
// its interface.
package state

import "github.com/depsvc/rcdep/deptree"

// State is a bitmask of runtime states a service can be in simultaneously
// (e.g. STARTING and COLDPLUGGED).
type State uint16

// The state bits from spec.md §6.
const (
	Started State = 1 << iota
	Starting
	Stopping
	Inactive
	Stopped
	Coldplugged
	Failed
)

// Has reports whether all bits of other are set in s.
func (s State) Has(other State) bool {
	return s&other == other
}

// Any reports whether s has any bit in other set.
func (s State) Any(other State) bool {
	return s&other != 0
}

// String renders the set bits for diagnostics.
func (s State) String() string {
	names := []struct {
		bit  State
		name string
	}{
		{Started, "started"}, {Starting, "starting"}, {Stopping, "stopping"},
		{Inactive, "inactive"}, {Stopped, "stopped"}, {Coldplugged, "coldplugged"},
		{Failed, "failed"},
	}
	out := ""
	for _, n := range names {
		if s.Has(n.bit) {
			if out != "" {
				out += "|"
			}
			out += n.name
		}
	}
	if out == "" {
		return "none"
	}
	return out
}

// Store is the runtime state store this resolver consumes. It is
// satisfied by the caller's real service manager; Mock below is a test
// double.
type Store interface {
	// State returns the current state bitmask of service.
	State(service deptree.ServiceName) State
	// InRunlevel reports whether service is a member of level.
	InRunlevel(service deptree.ServiceName, level string) bool
	// ServicesInRunlevel returns the services that are members of level.
	ServicesInRunlevel(level string) []deptree.ServiceName
	// ServicesInState returns the services whose State().Any(want) holds.
	ServicesInState(want State) []deptree.ServiceName
}
