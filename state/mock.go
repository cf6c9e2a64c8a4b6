// SPDX-License-Identifier: Apache-2.0

package state

import "github.com/depsvc/rcdep/deptree"

// Mock is an in-memory Store used by tests and the CLI demo. Runlevel
// membership and per-service state are populated directly by the caller.
type Mock struct {
	States    map[deptree.ServiceName]State
	Runlevels map[string][]deptree.ServiceName
	order     []deptree.ServiceName
}

// NewMock returns an empty Mock store.
func NewMock() *Mock {
	return &Mock{
		States:    make(map[deptree.ServiceName]State),
		Runlevels: make(map[string][]deptree.ServiceName),
	}
}

// SetState sets service's state bitmask.
func (m *Mock) SetState(service deptree.ServiceName, s State) *Mock {
	if _, seen := m.States[service]; !seen {
		m.order = append(m.order, service)
	}
	m.States[service] = s
	return m
}

// AddToRunlevel adds service to level's membership list.
func (m *Mock) AddToRunlevel(level string, service deptree.ServiceName) *Mock {
	for _, s := range m.Runlevels[level] {
		if s == service {
			return m
		}
	}
	m.Runlevels[level] = append(m.Runlevels[level], service)
	return m
}

// State implements Store.
func (m *Mock) State(service deptree.ServiceName) State {
	return m.States[service]
}

// InRunlevel implements Store.
func (m *Mock) InRunlevel(service deptree.ServiceName, level string) bool {
	for _, s := range m.Runlevels[level] {
		if s == service {
			return true
		}
	}
	return false
}

// ServicesInRunlevel implements Store.
func (m *Mock) ServicesInRunlevel(level string) []deptree.ServiceName {
	out := make([]deptree.ServiceName, len(m.Runlevels[level]))
	copy(out, m.Runlevels[level])
	return out
}

// ServicesInState implements Store.
func (m *Mock) ServicesInState(want State) []deptree.ServiceName {
	var out []deptree.ServiceName
	for _, svc := range m.order {
		if m.States[svc].Any(want) {
			out = append(out, svc)
		}
	}
	return out
}
