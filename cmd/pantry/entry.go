// Entry commands manage the shopping list. Notes and their embedded
// metadata travel in a single note field; the codec lives in pkg/notemeta.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stocklist/pkg/inventory"
)

var (
	entryBrand    string
	entryNote     string
	entryCount    float64
	entryPkgSize  float64
	entryLocation string
	entryExpiry   string
	entryAll      bool
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage the shopping list",
	Long: `Entry groups the shopping-list commands: add, list, note, buy, remove.

Each entry names a good to buy, optionally with a free-text note and
structured metadata (count, package size, location, expiry date) that
pre-fills the inventory batch when the entry is bought.`,
}

var entryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Put a good on the shopping list",
	Long: `Add puts a new entry on the shopping list.

Example:
  pantry entry add "Oat milk" --brand Oatly --note "the barista one"
  pantry entry add "Passata" --count 6 --pkg-size 0.4 --location cellar`,
	Args: cobra.ExactArgs(1),
	RunE: runEntryAdd,
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shopping-list entries",
	Long: `List prints pending entries with their notes decoded. Checked-off
entries are included with --all.`,
	Args: cobra.NoArgs,
	RunE: runEntryList,
}

var entryNoteCmd = &cobra.Command{
	Use:   "note <entry-id>",
	Short: "Replace an entry's note and metadata",
	Long: `Note replaces the entry's note field with the given text and metadata
flags. Omitting both clears the note.

Example:
  pantry entry note 0189... --note "get two" --count 2
  pantry entry note 0189...`,
	Args: cobra.ExactArgs(1),
	RunE: runEntryNote,
}

var entryBuyCmd = &cobra.Command{
	Use:   "buy <entry-id>",
	Short: "Check an entry off and stock the purchase",
	Long: `Buy checks the entry off the list and creates an inventory batch
pre-filled from the entry's metadata: count becomes the quantity,
pkgSize the package volume, location and expiryDate carry over.`,
	Args: cobra.ExactArgs(1),
	RunE: runEntryBuy,
}

var entryRemoveCmd = &cobra.Command{
	Use:   "remove <entry-id>",
	Short: "Remove an entry from the shopping list",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryRemove,
}

func init() {
	for _, c := range []*cobra.Command{entryAddCmd, entryNoteCmd} {
		c.Flags().StringVar(&entryNote, "note", "", "free-text note")
		c.Flags().Float64Var(&entryCount, "count", 0, "number of packages to buy")
		c.Flags().Float64Var(&entryPkgSize, "pkg-size", 0, "package size")
		c.Flags().StringVar(&entryLocation, "location", "", "intended storage location")
		c.Flags().StringVar(&entryExpiry, "expiry", "", "expected expiry date")
	}
	entryAddCmd.Flags().StringVar(&entryBrand, "brand", "", "brand name")
	entryListCmd.Flags().BoolVar(&entryAll, "all", false, "include checked-off entries")

	entryCmd.AddCommand(entryAddCmd)
	entryCmd.AddCommand(entryListCmd)
	entryCmd.AddCommand(entryNoteCmd)
	entryCmd.AddCommand(entryBuyCmd)
	entryCmd.AddCommand(entryRemoveCmd)
}

func runEntryAdd(cmd *cobra.Command, args []string) error {
	return withService(func(s *inventory.Service) error {
		meta := metaFromFlags(entryCount, entryPkgSize, entryLocation, entryExpiry)
		id, err := s.AddEntry(args[0], entryBrand, entryNote, meta)
		if err != nil {
			return fmt.Errorf("add entry: %w", err)
		}

		if flagJSON {
			view, err := s.Entry(id)
			if err != nil {
				return fmt.Errorf("get entry: %w", err)
			}
			return printJSON(view)
		}
		fmt.Printf("Added %s to the shopping list: %s\n", args[0], id)
		return nil
	})
}

func runEntryList(cmd *cobra.Command, args []string) error {
	return withService(func(s *inventory.Service) error {
		views, err := s.Entries(entryAll)
		if err != nil {
			return fmt.Errorf("list entries: %w", err)
		}

		if flagJSON {
			return printJSON(views)
		}

		if len(views) == 0 {
			fmt.Println("Shopping list is empty")
			return nil
		}
		for _, v := range views {
			mark := "[ ]"
			if v.Entry.Done {
				mark = "[x]"
			}
			line := fmt.Sprintf("%s %s  %s", mark, v.Entry.EntryID, v.Entry.ItemName)
			if v.Entry.Brand != "" {
				line += " (" + v.Entry.Brand + ")"
			}
			fmt.Println(line)
			if v.VisibleNote != "" {
				fmt.Println("      " + v.VisibleNote)
			}
			if len(v.Meta) > 0 {
				fmt.Println("      " + formatMeta(v.Meta))
			}
		}
		return nil
	})
}

func runEntryNote(cmd *cobra.Command, args []string) error {
	return withService(func(s *inventory.Service) error {
		meta := metaFromFlags(entryCount, entryPkgSize, entryLocation, entryExpiry)
		if err := s.SetEntryNote(args[0], entryNote, meta); err != nil {
			return fmt.Errorf("set note: %w", err)
		}

		view, err := s.Entry(args[0])
		if err != nil {
			return fmt.Errorf("get entry: %w", err)
		}
		if flagJSON {
			return printJSON(view)
		}
		if view.Entry.Note == "" {
			fmt.Println("Note cleared")
		} else {
			fmt.Println("Note updated")
		}
		return nil
	})
}

func runEntryBuy(cmd *cobra.Command, args []string) error {
	return withService(func(s *inventory.Service) error {
		item, err := s.Purchase(args[0])
		if err != nil {
			return fmt.Errorf("buy entry: %w", err)
		}

		if flagJSON {
			return printJSON(item)
		}
		fmt.Printf("Bought %s: stocked %v as %s\n", item.Name, item.Quantity, item.ItemID)
		return nil
	})
}

func runEntryRemove(cmd *cobra.Command, args []string) error {
	return withService(func(s *inventory.Service) error {
		if err := s.RemoveEntry(args[0]); err != nil {
			return fmt.Errorf("remove entry: %w", err)
		}
		fmt.Println("Entry removed")
		return nil
	})
}
