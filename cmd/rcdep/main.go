// SPDX-License-Identifier: Apache-2.0

// Command rcdep is a demonstration front-end over this module's
// dependency resolver: it rebuilds the on-disk cache from a producer
// script, and answers ordering, roster and point-dependency queries
// against it. The real service manager this library is meant to be
// embedded in owns its own CLI; this one exists so the resolver can be
// exercised end-to-end without one.
package main

import (
	"fmt"
	"os"

	"github.com/depsvc/rcdep/cmd/rcdep/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
