// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/depsvc/rcdep/deptree"
	"github.com/spf13/cobra"
)

var dependCmd = &cobra.Command{
	Use:   "depend <service> <type>",
	Short: "Print one service's edge set for a given edge kind",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := deptree.Load(cachePath)
		if err != nil {
			return fmt.Errorf("depend: %w", err)
		}
		if tree == nil {
			return fmt.Errorf("depend: no cache at %s; run update first", cachePath)
		}
		deps, found := tree.Depend(deptree.ServiceName(args[0]), deptree.TypeTag(args[1]))
		if !found {
			return fmt.Errorf("depend: %s has no %s edges", args[0], args[1])
		}
		for _, d := range deps {
			fmt.Println(d)
		}
		return nil
	},
}
