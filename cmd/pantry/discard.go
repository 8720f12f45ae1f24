// Discard command removes a batch outright.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stocklist/pkg/inventory"
)

var discardCmd = &cobra.Command{
	Use:   "discard <item-id>",
	Short: "Discard a batch",
	Long: `Discard removes a batch from the inventory regardless of remaining
quantity, recording a discard activity. Use list to find batch IDs.

Example:
  pantry discard 01890a5d-ac96-774b-bcce-b302099a8057`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscard,
}

func runDiscard(cmd *cobra.Command, args []string) error {
	return withService(func(s *inventory.Service) error {
		item, err := s.Discard(args[0])
		if err != nil {
			return fmt.Errorf("discard: %w", err)
		}

		if flagJSON {
			return printJSON(item)
		}
		fmt.Printf("Discarded %s (%v remaining)\n", item.Name, item.Quantity)
		return nil
	})
}
