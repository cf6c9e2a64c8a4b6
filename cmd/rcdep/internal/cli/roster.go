// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/depsvc/rcdep/roster"
	"github.com/spf13/cobra"
)

var rosterCmd = &cobra.Command{
	Use:   "roster <runlevel>",
	Short: "Print the seed service set for a runlevel action",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runlevel := args[0]
		store, err := loadState(statePath)
		if err != nil {
			return fmt.Errorf("roster: %w", err)
		}
		sess := session()
		for _, svc := range roster.Assemble(store, sess.BootLevel, runlevel) {
			fmt.Println(svc)
		}
		return nil
	},
}
