// SPDX-License-Identifier: Apache-2.0

// Package provider disambiguates a virtual "providedby" edge set down to
// the concrete services that should stand in for it, consulting the
// runtime state store through a layered fallback policy (spec.md §4.4).
package provider

import (
	"github.com/depsvc/rcdep/deptree"
	"github.com/depsvc/rcdep/option"
	"github.com/depsvc/rcdep/state"
)

// layerKind distinguishes the two evaluation behaviors spec.md §4.4
// describes for a fallback layer.
type layerKind int

const (
	// do collapses ambiguity: exactly one candidate wins outright, more
	// than one is treated as "do not wait" and ends the search with an
	// empty result, zero candidates falls through to the next layer.
	do layerKind = iota
	// ret returns whatever the layer collected, without collapsing
	// ambiguity, but only ends the search if it collected anything; an
	// empty layer falls through like do's zero case.
	ret
)

type layer struct {
	scope func(svc deptree.ServiceName) bool
	state func(s state.State) bool
	kind  layerKind
}

// startingLike is the State filter spec.md §4.4 labels "STARTING" in its
// layer table: a provider mid-transition in either direction, or one
// that has been marked inactive.
func startingLike(s state.State) bool {
	return s.Any(state.Starting | state.Stopping | state.Inactive)
}

func started(s state.State) bool { return s.Has(state.Started) }
func stopped(s state.State) bool { return s.Has(state.Stopped) }

// Resolve returns the ordered list of concrete services that satisfy d's
// providedby edge set, given the active runlevel, the boot level, and
// the caller's option bits. A nil (or empty) result is a valid outcome,
// not an error: it tells the ordering engine to recurse into d's own
// DepInfo instead of into any of its providers.
func Resolve(d *deptree.DepInfo, store state.Store, runlevel, bootLevel string, opts option.Bits) []deptree.ServiceName {
	dt := d.Type(deptree.TypeProvidedBy)
	if dt == nil || dt.Empty() {
		return nil
	}
	providers := dt.Services

	if opts.Has(option.Stop) {
		return clone(providers)
	}

	if opts.Has(option.Strict) || opts.Has(option.Start) {
		members := filter(providers, func(svc deptree.ServiceName) bool {
			if store.InRunlevel(svc, runlevel) || store.InRunlevel(svc, bootLevel) {
				return true
			}
			return opts.Has(option.Start) && store.State(svc).Has(state.Coldplugged)
		})
		if len(members) > 0 {
			return members
		}
	}

	inRunlevel := func(svc deptree.ServiceName) bool { return store.InRunlevel(svc, runlevel) }
	coldplugElsewhere := func(svc deptree.ServiceName) bool {
		return store.State(svc).Has(state.Coldplugged) &&
			!store.InRunlevel(svc, runlevel) && !store.InRunlevel(svc, bootLevel)
	}
	inBootLevel := func(svc deptree.ServiceName) bool {
		return bootLevel != runlevel && store.InRunlevel(svc, bootLevel)
	}
	any := func(deptree.ServiceName) bool { return true }

	layers := []layer{
		{inRunlevel, started, do},
		{inRunlevel, startingLike, ret},
		{inRunlevel, stopped, ret},
		{coldplugElsewhere, started, do},
		{coldplugElsewhere, startingLike, ret},
		{inBootLevel, started, do},
		{inBootLevel, startingLike, ret},
		{coldplugElsewhere, stopped, do},
		{any, started, do},
		{any, startingLike, ret},
		{inRunlevel, stopped, ret},
		{inBootLevel, stopped, ret},
	}

	for _, l := range layers {
		collected := filter(providers, func(svc deptree.ServiceName) bool {
			return l.scope(svc) && l.state(store.State(svc))
		})
		switch l.kind {
		case do:
			switch len(collected) {
			case 0:
				continue
			case 1:
				return collected
			default:
				return nil
			}
		case ret:
			if len(collected) > 0 {
				return collected
			}
		}
	}

	return clone(providers)
}

func filter(in []deptree.ServiceName, keep func(deptree.ServiceName) bool) []deptree.ServiceName {
	var out []deptree.ServiceName
	for _, svc := range in {
		if keep(svc) {
			out = append(out, svc)
		}
	}
	return out
}

func clone(in []deptree.ServiceName) []deptree.ServiceName {
	out := make([]deptree.ServiceName, len(in))
	copy(out, in)
	return out
}
