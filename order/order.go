// SPDX-License-Identifier: Apache-2.0

// Package order implements the dependency ordering engine: a depth-first
// walk across selected edge kinds that produces a deterministic,
// post-order total order of services for a runlevel action (spec.md
// §4.5).
package order

import (
	"github.com/depsvc/rcdep/deptree"
	"github.com/depsvc/rcdep/option"
	"github.com/depsvc/rcdep/provider"
	"github.com/depsvc/rcdep/rcenv"
	"github.com/depsvc/rcdep/roster"
	"github.com/depsvc/rcdep/state"
)

// Depends returns the ordered list of services reachable from seed by
// following types, post-order: a service is appended only after every
// target it was recursed into has already been appended.
//
// The walk is iterative, not recursive (a frameStack of visitFrame
// stands in for the native call stack), so a long dependency chain
// cannot exhaust goroutine stack space; the result is identical to what
// a recursive post-order walk of the same graph would produce.
func Depends(tree *deptree.DepTree, types []deptree.TypeTag, seed []deptree.ServiceName, sess *rcenv.Session, store state.Store, runlevel string, opts option.Bits) []deptree.ServiceName {
	w := &walker{
		tree:      tree,
		types:     types,
		sess:      sess,
		store:     store,
		runlevel:  runlevel,
		bootLevel: sess.BootLevel,
		opts:      opts,
		visited:   make(map[deptree.ServiceName]bool),
	}
	for _, name := range seed {
		w.visit(name)
	}
	return w.sorted
}

// Order is Depends restricted to the roster for runlevel: the caller
// doesn't need to assemble a seed list itself for the common case of
// "order everything relevant to this runlevel action".
func Order(tree *deptree.DepTree, types []deptree.TypeTag, sess *rcenv.Session, store state.Store, runlevel string, opts option.Bits) []deptree.ServiceName {
	seed := roster.Assemble(store, sess.BootLevel, runlevel)
	return Depends(tree, types, seed, sess, store, runlevel, opts)
}

type walker struct {
	tree      *deptree.DepTree
	types     []deptree.TypeTag
	sess      *rcenv.Session
	store     state.Store
	runlevel  string
	bootLevel string
	opts      option.Bits
	visited   map[deptree.ServiceName]bool
	sorted    []deptree.ServiceName
}

// visit runs the walk rooted at name, if it has a DepInfo and has not
// already been visited by an earlier seed or recursion in this call.
func (w *walker) visit(name deptree.ServiceName) {
	if w.visited[name] {
		return
	}
	di := w.tree.Get(name)
	if di == nil {
		return
	}
	w.visited[name] = true

	stack := &frameStack{}
	stack.push(&visitFrame{di: di})

	for !stack.isEmpty() {
		top := stack.top()
		advanced, child := w.step(top)
		if child != nil {
			stack.push(child)
			continue
		}
		if !advanced {
			stack.pop()
			w.emit(top.di)
		}
	}
}

// step advances top by exactly one unit of work: either it consumes one
// candidate of the target currently being expanded (returning a new
// child frame to push if the candidate is worth recursing into), or it
// moves to the next target/type and reports that the frame made
// progress without needing a child pushed. It reports advanced=false
// once top has exhausted every type, signalling the caller to pop it and
// emit its service.
func (w *walker) step(top *visitFrame) (advanced bool, child *visitFrame) {
	if top.typeIdx >= len(w.types) {
		return false, nil
	}
	tag := w.types[top.typeIdx]
	dt := top.di.Type(tag)
	if dt == nil || top.targetIdx >= len(dt.Services) {
		top.typeIdx++
		top.targetIdx = 0
		top.candidates = nil
		top.candidateIdx = 0
		return true, nil
	}

	if top.candidates == nil {
		target := dt.Services[top.targetIdx]
		if !w.opts.Has(option.Trace) || tag == deptree.TypeProvide {
			w.sorted = append(w.sorted, target)
			top.targetIdx++
			return true, nil
		}
		targetInfo := w.tree.Get(target)
		if targetInfo == nil {
			top.targetIdx++
			return true, nil
		}
		resolved := provider.Resolve(targetInfo, w.store, w.runlevel, w.bootLevel, w.opts)
		if len(resolved) == 0 {
			resolved = []deptree.ServiceName{target}
		}
		top.candidates = resolved
		top.candidateIdx = 0
	}

	if top.candidateIdx >= len(top.candidates) {
		top.candidates = nil
		top.targetIdx++
		return true, nil
	}
	candidate := top.candidates[top.candidateIdx]
	top.candidateIdx++

	if !w.mayRecurse(tag, candidate) {
		return true, nil
	}
	if w.visited[candidate] {
		return true, nil
	}
	ci := w.tree.Get(candidate)
	if ci == nil {
		return true, nil
	}
	w.visited[candidate] = true
	return true, &visitFrame{di: ci}
}

// mayRecurse is the validity gate from spec.md §4.5: hard dependencies
// are always worth recursing into (their absence is an error, not a
// scheduling nicety); everything else is gated on whether the target is
// actually going to run.
func (w *walker) mayRecurse(tag deptree.TypeTag, candidate deptree.ServiceName) bool {
	if tag == deptree.TypeNeed || tag == deptree.TypeNeedsMe {
		return true
	}
	return roster.ValidInRunlevel(w.store, w.bootLevel, w.runlevel, candidate)
}

// emit appends di's service to the result, unless it is the caller's own
// "self" service or a pure virtual provider (neither is ever meant to
// appear in ordering output directly).
func (w *walker) emit(di *deptree.DepInfo) {
	if w.sess.SelfService != "" && di.Service == w.sess.SelfService {
		return
	}
	if di.IsVirtual() {
		return
	}
	w.sorted = append(w.sorted, di.Service)
}
