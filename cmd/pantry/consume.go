// Consume command deducts stock in FEFO order.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stocklist/pkg/inventory"
)

var consumeBrand string

var consumeCmd = &cobra.Command{
	Use:   "consume <name> <amount>",
	Short: "Consume stock of a good",
	Long: `Consume deducts the given amount from the stock of the named good.

Batches are consumed first-expired-first-out: open batches first, then
earliest expiry, batches without expiry last. The deduction cascades
across batches. If total stock is insufficient nothing is deducted.

Example:
  pantry consume "Milk" 0.5
  pantry consume "Passata" 2 --brand Mutti`,
	Args: cobra.ExactArgs(2),
	RunE: runConsume,
}

func init() {
	consumeCmd.Flags().StringVar(&consumeBrand, "brand", "", "restrict consumption to one brand")
}

func runConsume(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
	}

	return withService(func(s *inventory.Service) error {
		result, err := s.Consume(args[0], amount, consumeBrand, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("consume: %w", err)
		}

		if flagJSON {
			return printJSON(result)
		}

		if !result.Success {
			fmt.Fprintln(os.Stderr, result.Message)
			os.Exit(exitUserError)
		}

		fmt.Println(result.Message)
		for _, b := range result.AffectedBatches {
			fmt.Printf("  %s  %v -> %v\n", b.ItemID, b.OldQuantity, b.NewQuantity)
		}
		return nil
	})
}
