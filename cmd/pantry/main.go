// Package main provides the pantry CLI, a local-first inventory and
// shopping-list tracker backed by SQLite.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/stocklist/pkg/inventory"
	"github.com/mesh-intelligence/stocklist/pkg/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pantry:", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps errors to exit codes: user errors (bad input, missing
// records) exit 1, everything else exits 2.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidQuantity),
		errors.Is(err, types.ErrInvalidFilter),
		errors.Is(err, inventory.ErrEntryDone):
		return exitUserError
	default:
		return exitSysError
	}
}
