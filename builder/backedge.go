// SPDX-License-Identifier: Apache-2.0

package builder

import (
	"github.com/depsvc/rcdep/deptree"
	"github.com/sirupsen/logrus"
)

// inferBackEdges implements Builder Phase 4: for each forward-declared
// edge kind, every target gets the inferred reverse edge pointing back
// at the declaring service. A dangling ineed target — one with no
// DepInfo at all, even after Phase 3's provider synthesis — is logged
// but does not abort the build; every other dangling forward reference
// is skipped silently, matching spec.md's error-handling design.
func inferBackEdges(tree *deptree.DepTree, log logrus.FieldLogger) {
	forward := deptree.ForwardTags()
	for _, di := range tree.Infos() {
		for _, tag := range forward {
			dt := di.Type(tag)
			if dt == nil {
				continue
			}
			reverse, _ := deptree.ReverseOf(tag)
			for _, target := range dt.Services {
				b := tree.Get(target)
				if b == nil {
					if tag == deptree.TypeNeed {
						log.WithFields(logrus.Fields{
							"service":    di.Service,
							"dependency": target,
						}).Warn("dangling ineed reference")
					}
					continue
				}
				b.TypeOrCreate(reverse).Add(di.Service)
			}
		}
	}
}
