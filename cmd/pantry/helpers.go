// Shared helpers for pantry CLI commands.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/stocklist/internal/sqlite"
	"github.com/mesh-intelligence/stocklist/pkg/inventory"
	"github.com/mesh-intelligence/stocklist/pkg/notemeta"
	"github.com/mesh-intelligence/stocklist/pkg/types"
)

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return backend, nil
}

// withService attaches a backend, builds an inventory Service on it, runs fn,
// and detaches. Most commands run through here.
func withService(fn func(*inventory.Service) error) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	return fn(inventory.NewService(backend))
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// formatMeta renders decoded note metadata on one line, in the codec's
// field order.
func formatMeta(meta notemeta.Metadata) string {
	out := ""
	for _, key := range []string{
		notemeta.FieldCount,
		notemeta.FieldPkgSize,
		notemeta.FieldLocation,
		notemeta.FieldExpiryDate,
	} {
		v, ok := meta[key]
		if !ok {
			continue
		}
		if out != "" {
			out += "  "
		}
		out += fmt.Sprintf("%s=%v", key, v)
	}
	return out
}

// metaFromFlags assembles a notemeta.Metadata from the entry metadata flags.
// Unset flags are left out; returns nil when nothing was set.
func metaFromFlags(count, pkgSize float64, location, expiry string) notemeta.Metadata {
	meta := notemeta.Metadata{}
	if count != 0 {
		meta[notemeta.FieldCount] = count
	}
	if pkgSize != 0 {
		meta[notemeta.FieldPkgSize] = pkgSize
	}
	if location != "" {
		meta[notemeta.FieldLocation] = location
	}
	if expiry != "" {
		meta[notemeta.FieldExpiryDate] = expiry
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}
