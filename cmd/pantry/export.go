// Export command writes a JSONL snapshot of all tables.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Export all tables to JSONL files",
	Long: `Export writes one JSONL file per table (items.jsonl, entries.jsonl,
activities.jsonl) into the given directory. Files are written atomically
and are stable enough to keep under version control.

Example:
  pantry export ./backup`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	if err := backend.ExportJSONL(args[0]); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	fmt.Println("Exported to", args[0])
	return nil
}
