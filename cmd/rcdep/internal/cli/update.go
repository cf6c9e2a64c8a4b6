// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"

	"github.com/depsvc/rcdep/builder"
	"github.com/spf13/cobra"
)

var (
	watch     bool
	watchDirs []string
)

var updateCmd = &cobra.Command{
	Use:   "update <producer> [args...]",
	Short: "Rebuild the dependency cache by running the producer helper",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := session()
		producer := builder.NewExecProducer(args[0], args[1:]...)
		tree, err := builder.Update(context.Background(), producer, sess, sys, cachePath, configPath)
		if err != nil {
			return fmt.Errorf("update: %w", err)
		}
		fmt.Printf("%d services written to %s\n", tree.Len(), cachePath)
		if !watch {
			return nil
		}
		return watchAndRebuild(cmd.Context(), producer, sess)
	},
}

func init() {
	updateCmd.Flags().BoolVar(&watch, "watch", false, "keep running, rebuilding the cache whenever a watched directory changes")
	updateCmd.Flags().StringArrayVar(&watchDirs, "watch-dir", nil, "directory to watch for changes (repeatable); required with --watch")
}
