// Import command loads a JSONL snapshot into the database.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import tables from JSONL files",
	Long: `Import reads the JSONL files written by export from the given
directory and upserts their records. Missing files are skipped;
malformed or invalid lines are skipped rather than aborting the import.

Example:
  pantry import ./backup`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	if err := backend.ImportJSONL(args[0]); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	fmt.Println("Imported from", args[0])
	return nil
}
