// main is the entry point for the clutch CLI.
package main

import (
	"fmt"
	"os"

	"github.com/clutchmetrics/clutch/cmd"
	"github.com/clutchmetrics/clutch/internal/iocache"
)

func main() {
	os.Exit(run())
}

// run wires the persistence layer into the command tree and executes it.
// It exists so deferred cleanup runs before the process exits.
func run() int {
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseStores()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		return 1
	}
	return 0
}
