// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"strings"

	"github.com/depsvc/rcdep/deptree"
	"github.com/depsvc/rcdep/option"
	"github.com/depsvc/rcdep/order"
	"github.com/spf13/cobra"
)

var (
	orderTypes  string
	orderTrace  bool
	orderStop   bool
	orderStart  bool
	orderStrict bool
)

var orderCmd = &cobra.Command{
	Use:   "order <runlevel>",
	Short: "Print the ordered service list for a runlevel action",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runlevel := args[0]
		tree, err := deptree.Load(cachePath)
		if err != nil {
			return fmt.Errorf("order: %w", err)
		}
		if tree == nil {
			return fmt.Errorf("order: no cache at %s; run update first", cachePath)
		}
		store, err := loadState(statePath)
		if err != nil {
			return fmt.Errorf("order: %w", err)
		}
		sess := session()

		var types []deptree.TypeTag
		for _, t := range strings.Split(orderTypes, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, deptree.TypeTag(t))
			}
		}

		var opts option.Bits
		if orderTrace {
			opts |= option.Trace
		}
		if orderStop {
			opts |= option.Stop
		}
		if orderStart {
			opts |= option.Start
		}
		if orderStrict {
			opts |= option.Strict
		}

		for _, svc := range order.Order(tree, types, sess, store, runlevel, opts) {
			fmt.Println(svc)
		}
		return nil
	},
}

func init() {
	orderCmd.Flags().StringVar(&orderTypes, "types", "ineed,iuse,iafter", "comma-separated edge kinds to follow")
	orderCmd.Flags().BoolVar(&orderTrace, "trace", true, "recurse through dependencies rather than listing direct edges only")
	orderCmd.Flags().BoolVar(&orderStop, "stop", false, "resolve providers as for a stop action")
	orderCmd.Flags().BoolVar(&orderStart, "start", false, "resolve providers as for a start action")
	orderCmd.Flags().BoolVar(&orderStrict, "strict", false, "restrict provider selection to declared-membership scopes")
}
