// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/depsvc/rcdep/rcenv"
	"github.com/spf13/cobra"
)

var (
	cachePath  string
	configPath string
	statePath  string
	sys        string
)

var rootCmd = &cobra.Command{
	Use:   "rcdep",
	Short: "Service dependency resolver and ordering engine",
	Long: `rcdep rebuilds and queries the service dependency cache: which
services must run before a given one, the order to act on a runlevel,
and who provides a virtual service name.`,
}

// Execute runs the command tree and returns the first error encountered.
func Execute() error {
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "/lib/rc/cache/deptree", "path to the dependency cache file")
	rootCmd.PersistentFlags().StringVar(&configPath, "config-list", "/lib/rc/cache/depconfig", "path to the external-config side list")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "path to a JSON runtime-state snapshot (demo only; omit for an empty store)")
	rootCmd.PersistentFlags().StringVar(&sys, "sys", "", "platform identifier used to evaluate keyword filters")

	rootCmd.AddCommand(updateCmd, orderCmd, dependCmd, rosterCmd)
}

func session() *rcenv.Session {
	return rcenv.New()
}
