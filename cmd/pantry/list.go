// List command prints the inventory grouped by good.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stocklist/pkg/inventory"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the inventory grouped by good",
	Long: `List prints every good with remaining stock, one line per good with
its batches indented below. Depleted batches are omitted.

Example:
  pantry list
  pantry list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	return withService(func(s *inventory.Service) error {
		groups, err := s.GroupedInventory()
		if err != nil {
			return fmt.Errorf("list inventory: %w", err)
		}

		if flagJSON {
			return printJSON(groups)
		}

		if len(groups) == 0 {
			fmt.Println("Pantry is empty")
			return nil
		}
		for _, g := range groups {
			unit := g.Unit
			if unit != "" {
				unit = " " + unit
			}
			fmt.Printf("%s: %v%s\n", g.ItemName, g.TotalQuantity, unit)
			for _, b := range g.Batches {
				line := fmt.Sprintf("  %s  qty %v", b.ItemID, b.Quantity)
				if b.Brand != "" {
					line += "  " + b.Brand
				}
				if b.ExpiryDate != "" {
					line += "  expires " + b.ExpiryDate
				}
				if b.IsOpen {
					line += "  (open)"
				}
				fmt.Println(line)
			}
		}
		return nil
	})
}
