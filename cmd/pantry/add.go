// Add command creates a new inventory batch.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stocklist/pkg/inventory"
	"github.com/mesh-intelligence/stocklist/pkg/types"
)

var (
	addQuantity float64
	addUnit     string
	addBrand    string
	addCategory string
	addExpiry   string
	addLocation string
	addVolume   float64
	addOpen     bool
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a batch to the inventory",
	Long: `Add creates a new inventory batch of the named good.

Each add is a separate batch: the same good bought twice keeps two
batches with their own expiry dates and open/closed state.

Example:
  pantry add "Milk" --quantity 2 --unit l --expiry 2026-09-01
  pantry add "Passata" --quantity 6 --brand Mutti --location cellar
  pantry add "Yogurt" --open`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().Float64Var(&addQuantity, "quantity", 1, "quantity of the batch")
	addCmd.Flags().StringVar(&addUnit, "unit", "", "unit of measure (l, kg, pcs, ...)")
	addCmd.Flags().StringVar(&addBrand, "brand", "", "brand name")
	addCmd.Flags().StringVar(&addCategory, "category", "", "category label")
	addCmd.Flags().StringVar(&addExpiry, "expiry", "", "expiry date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addLocation, "location", "", "storage location")
	addCmd.Flags().Float64Var(&addVolume, "volume", 0, "package volume or weight")
	addCmd.Flags().BoolVar(&addOpen, "open", false, "mark the batch as already opened")
}

func runAdd(cmd *cobra.Command, args []string) error {
	return withService(func(s *inventory.Service) error {
		item := &types.Item{
			Name:        args[0],
			Brand:       addBrand,
			Quantity:    addQuantity,
			TotalVolume: addVolume,
			Unit:        addUnit,
			Category:    addCategory,
			ExpiryDate:  addExpiry,
			IsOpen:      addOpen,
			Location:    addLocation,
		}

		id, err := s.AddItem(item)
		if err != nil {
			return fmt.Errorf("add item: %w", err)
		}

		if flagJSON {
			return printJSON(item)
		}
		fmt.Printf("Added %s: %s\n", item.Name, id)
		return nil
	})
}
