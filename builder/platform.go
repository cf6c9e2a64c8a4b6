// SPDX-License-Identifier: Apache-2.0

package builder

import (
	"strings"

	"github.com/depsvc/rcdep/deptree"
)

// platformFilter implements Builder Phase 2: services tagged keyword
// "no<sys>" (case-insensitive on sys) are dropped, along with every
// reference to them — and to the virtual names they provide — from
// every remaining service's edge sets.
func platformFilter(tree *deptree.DepTree, sys string) {
	if sys == "" {
		return
	}
	noSys := deptree.ServiceName("no" + strings.ToLower(sys))

	var removed []*deptree.DepInfo
	for _, di := range tree.Infos() {
		if kw := di.Type(deptree.TypeKeyword); kw != nil && kw.Has(noSys) {
			removed = append(removed, di)
		}
	}
	if len(removed) == 0 {
		return
	}

	scrub := make(map[deptree.ServiceName]bool, len(removed))
	for _, di := range removed {
		scrub[di.Service] = true
		if prov := di.Type(deptree.TypeProvide); prov != nil {
			for _, name := range prov.Services {
				scrub[name] = true
			}
		}
	}
	for _, di := range removed {
		tree.Remove(di.Service)
	}

	for _, di := range tree.Infos() {
		for _, dt := range di.Depends {
			for name := range scrub {
				dt.Delete(name)
			}
		}
		pruneEmpty(di)
	}
}

// pruneEmpty drops DepType entries a scrub left with no services, so a
// removed reference doesn't linger as a visible-but-empty edge kind.
func pruneEmpty(di *deptree.DepInfo) {
	kept := di.Depends[:0]
	for _, dt := range di.Depends {
		if !dt.Empty() {
			kept = append(kept, dt)
		}
	}
	di.Depends = kept
}
