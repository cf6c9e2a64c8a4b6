// SPDX-License-Identifier: Apache-2.0

package builder

import (
	"strings"

	"github.com/depsvc/rcdep/deptree"
)

// parseLine implements Builder Phase 1 for a single producer record:
// "SERVICE TYPE DEP1 DEP2 …", whitespace-delimited. A line naming only a
// service (no type, or a type with no dependencies) still materializes
// that service's DepInfo, matching the producer contract that a bare
// mention is enough to register a service.
func parseLine(tree *deptree.DepTree, configs *[]string, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	di := tree.GetOrCreate(deptree.ServiceName(fields[0]))
	if len(fields) < 3 {
		return
	}
	tag := deptree.TypeTag(fields[1])
	deps := fields[2:]

	for _, tok := range deps {
		if tok == "" {
			continue
		}
		if tag == deptree.TypeConfig {
			*configs = append(*configs, tok)
			continue
		}
		if deptree.HasShSuffix(tok) {
			continue
		}
		if strings.HasPrefix(tok, "!") {
			di.RemoveEdge(tag, deptree.ServiceName(tok[1:]))
			continue
		}
		di.AddEdge(tag, deptree.ServiceName(tok))
	}
}
