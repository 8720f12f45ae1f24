// Log command prints the activity log.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stocklist/pkg/inventory"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent activity",
	Long: `Log prints the most recent activity records, newest first: inbound
batches, consumptions, discards, and purchases.

Example:
  pantry log
  pantry log --limit 10 --json`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func init() {
	logCmd.Flags().IntVar(&logLimit, "limit", 0, "maximum records to show (default 50)")
}

func runLog(cmd *cobra.Command, args []string) error {
	return withService(func(s *inventory.Service) error {
		activities, err := s.Activities(logLimit)
		if err != nil {
			return fmt.Errorf("fetch activities: %w", err)
		}

		if flagJSON {
			return printJSON(activities)
		}

		if len(activities) == 0 {
			fmt.Println("No activity recorded")
			return nil
		}
		for _, a := range activities {
			line := fmt.Sprintf("%s  %-8s", a.CreatedAt.Format("2006-01-02 15:04"), a.Intent)
			if name, ok := a.Detail["item_name"].(string); ok && name != "" {
				line += "  " + name
			}
			if a.RawInput != "" {
				line += "  " + a.RawInput
			}
			fmt.Println(line)
		}
		return nil
	})
}
