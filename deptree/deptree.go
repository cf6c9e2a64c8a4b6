// SPDX-License-Identifier: Apache-2.0

// Package deptree models a service dependency tree: services, their typed
// edges to other services, and the operations to build, load, save and
// query that tree.
package deptree

import "strings"

// ServiceName identifies a service. Names are unique within a DepTree and
// are expected to be shell-safe (no embedded single quotes), since they
// round-trip through the single-quoted cache format.
type ServiceName string

// TypeTag is a dependency edge kind, held as its cache-file spelling. The
// recognized kinds are the constants below; parsing does not reject other
// spellings, which are stored and compared like any other tag.
type TypeTag string

// The ten recognized type tags. The first eight are edge kinds forming
// four forward/reverse pairs (iafter and ibefore are each other's
// reverse, so Phase 4 processes five forward kinds); keyword and config
// are not edges between services at all.
const (
	TypeNeed       TypeTag = "ineed"
	TypeNeedsMe    TypeTag = "needsme"
	TypeUse        TypeTag = "iuse"
	TypeUsesMe     TypeTag = "usesme"
	TypeAfter      TypeTag = "iafter"
	TypeBefore     TypeTag = "ibefore"
	TypeProvide    TypeTag = "iprovide"
	TypeProvidedBy TypeTag = "providedby"
	TypeKeyword    TypeTag = "keyword"
	TypeConfig     TypeTag = "config"
)

// reversePair records a forward edge kind and its inferred reverse.
type reversePair struct {
	forward TypeTag
	reverse TypeTag
}

// reversePairs is the compile-time back-edge table referenced by Builder
// Phase 4. Its order fixes the order of the dangling-ineed diagnostics and
// the order in which Phase 4 creates reverse DepTypes, which is visible in
// the cache file.
var reversePairs = []reversePair{
	{TypeNeed, TypeNeedsMe},
	{TypeUse, TypeUsesMe},
	{TypeAfter, TypeBefore},
	{TypeBefore, TypeAfter},
	{TypeProvide, TypeProvidedBy},
}

// DepType is one typed edge set belonging to a DepInfo: all the services
// reachable from a single service via a single TypeTag.
type DepType struct {
	Type     TypeTag
	Services []ServiceName
}

// Has reports whether svc is already present in the edge set.
func (dt *DepType) Has(svc ServiceName) bool {
	for _, s := range dt.Services {
		if s == svc {
			return true
		}
	}
	return false
}

// Add appends svc to the edge set, deduplicating.
func (dt *DepType) Add(svc ServiceName) {
	if dt.Has(svc) {
		return
	}
	dt.Services = append(dt.Services, svc)
}

// Delete removes svc from the edge set, if present.
func (dt *DepType) Delete(svc ServiceName) {
	for i, s := range dt.Services {
		if s == svc {
			dt.Services = append(dt.Services[:i], dt.Services[i+1:]...)
			return
		}
	}
}

// Empty reports whether the edge set holds no services.
func (dt *DepType) Empty() bool {
	return len(dt.Services) == 0
}

// DepInfo is one service's complete set of typed edges.
type DepInfo struct {
	Service ServiceName
	Depends []*DepType
}

// Type returns the DepType for tag, or nil if the service has no edges of
// that kind.
func (di *DepInfo) Type(tag TypeTag) *DepType {
	for _, dt := range di.Depends {
		if dt.Type == tag {
			return dt
		}
	}
	return nil
}

// TypeOrCreate returns the DepType for tag, creating and appending an empty
// one if absent. Creation order is observable in the cache file.
func (di *DepInfo) TypeOrCreate(tag TypeTag) *DepType {
	if dt := di.Type(tag); dt != nil {
		return dt
	}
	dt := &DepType{Type: tag}
	di.Depends = append(di.Depends, dt)
	return dt
}

// AddEdge inserts svc into di's edge set for tag, enforcing the
// ibefore/iafter mutual-exclusion invariant from spec.md §3: declaring
// iafter (or ineed/iuse) on a target removes it from ibefore, and vice
// versa.
func (di *DepInfo) AddEdge(tag TypeTag, svc ServiceName) {
	di.TypeOrCreate(tag).Add(svc)
	switch tag {
	case TypeBefore:
		if dt := di.Type(TypeAfter); dt != nil {
			dt.Delete(svc)
		}
	case TypeAfter, TypeNeed, TypeUse:
		if dt := di.Type(TypeBefore); dt != nil {
			dt.Delete(svc)
		}
	}
}

// RemoveEdge deletes svc from di's edge set for tag, if the edge set
// exists. Used for `!name` tokens in the producer stream.
func (di *DepInfo) RemoveEdge(tag TypeTag, svc ServiceName) {
	if dt := di.Type(tag); dt != nil {
		dt.Delete(svc)
	}
}

// DepTree is an ordered collection of DepInfo entries. Insertion order is
// observable: it drives cache serialization order and traversal
// tie-breaking.
type DepTree struct {
	infos []*DepInfo
	index map[ServiceName]*DepInfo
}

// New returns an empty DepTree.
func New() *DepTree {
	return &DepTree{index: make(map[ServiceName]*DepInfo)}
}

// Len returns the number of services in the tree.
func (t *DepTree) Len() int {
	return len(t.infos)
}

// Infos returns the tree's DepInfo entries in tree order. The returned
// slice is owned by the tree; callers must not mutate it.
func (t *DepTree) Infos() []*DepInfo {
	return t.infos
}

// Get returns the DepInfo for service, or nil if not present.
func (t *DepTree) Get(service ServiceName) *DepInfo {
	return t.index[service]
}

// GetOrCreate returns the DepInfo for service, creating and appending an
// empty one at the tree tail if absent.
func (t *DepTree) GetOrCreate(service ServiceName) *DepInfo {
	if di, ok := t.index[service]; ok {
		return di
	}
	di := &DepInfo{Service: service}
	t.infos = append(t.infos, di)
	t.index[service] = di
	return di
}

// Remove deletes the DepInfo for service from the tree. It does not scrub
// references from other DepInfo edge sets; callers that need that (see
// Builder Phase 2) must do so explicitly.
func (t *DepTree) Remove(service ServiceName) {
	di, ok := t.index[service]
	if !ok {
		return
	}
	delete(t.index, service)
	for i, other := range t.infos {
		if other == di {
			t.infos = append(t.infos[:i], t.infos[i+1:]...)
			return
		}
	}
}

// Depend is the point query from spec.md §4.6: the edge set of the given
// type for the given service. found is false if either the service or the
// type is absent. The returned slice is a copy; callers may mutate it
// freely.
func (t *DepTree) Depend(service ServiceName, tag TypeTag) (services []ServiceName, found bool) {
	di := t.Get(service)
	if di == nil {
		return nil, false
	}
	dt := di.Type(tag)
	if dt == nil {
		return nil, false
	}
	out := make([]ServiceName, len(dt.Services))
	copy(out, dt.Services)
	return out, true
}

// IsVirtual reports whether di is a pure provider: it has a non-empty
// providedby edge set, meaning it is never emitted by the ordering engine
// as itself (its providers are emitted instead).
func (di *DepInfo) IsVirtual() bool {
	dt := di.Type(TypeProvidedBy)
	return dt != nil && !dt.Empty()
}

// ForwardTags returns the forward-declared edge kinds that infer a
// reverse edge during Builder Phase 4, in table order.
func ForwardTags() []TypeTag {
	out := make([]TypeTag, len(reversePairs))
	for i, p := range reversePairs {
		out[i] = p.forward
	}
	return out
}

// ReverseOf returns the edge kind inferred from tag, if tag is one of
// the forward kinds Phase 4 processes.
func ReverseOf(tag TypeTag) (TypeTag, bool) {
	for _, p := range reversePairs {
		if p.forward == tag {
			return p.reverse, true
		}
	}
	return "", false
}

// HasShSuffix reports whether name ends in ".sh" — such tokens are shell
// helper fragments sourced by a service script, not services in their own
// right, and are dropped by Builder Phase 1.
func HasShSuffix(name string) bool {
	return strings.HasSuffix(name, ".sh")
}
