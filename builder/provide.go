// SPDX-License-Identifier: Apache-2.0

package builder

import "github.com/depsvc/rcdep/deptree"

// synthesizeProviders implements Builder Phase 3: every virtual name
// mentioned in an iprovide edge set gets a placeholder DepInfo if it
// doesn't already have one, so Phase 4 always has somewhere to attach
// the corresponding providedby back-edge. GetOrCreate appends at the
// tree tail, so providers land after every real service, in the order
// their virtual name was first encountered.
func synthesizeProviders(tree *deptree.DepTree) {
	for _, di := range tree.Infos() {
		prov := di.Type(deptree.TypeProvide)
		if prov == nil {
			continue
		}
		for _, name := range prov.Services {
			tree.GetOrCreate(name)
		}
	}
}
