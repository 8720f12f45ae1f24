// Package inventory implements pantry operations over a Pantry backend:
// inbound batches, FEFO consumption, the activity log, and the shopping list
// whose note field carries embedded metadata via pkg/notemeta.
package inventory

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mesh-intelligence/stocklist/pkg/notemeta"
	"github.com/mesh-intelligence/stocklist/pkg/types"
)

// ErrEntryDone is returned when purchasing an entry that is already
// checked off.
var ErrEntryDone = errors.New("entry is already checked off")

// defaultActivityLimit bounds Activities when the caller passes no limit.
const defaultActivityLimit = 50

// Service exposes the inventory and shopping-list operations. It holds no
// state beyond the attached backend and is safe for concurrent use to the
// extent the backend is.
type Service struct {
	pantry types.Pantry
}

// NewService creates a Service over an attached Pantry.
func NewService(pantry types.Pantry) *Service {
	return &Service{pantry: pantry}
}

// Group is one good aggregated across its batches.
type Group struct {
	ItemName      string        `json:"item_name"`
	TotalQuantity float64       `json:"total_quantity"`
	Unit          string        `json:"unit,omitempty"`
	Batches       []*types.Item `json:"batches"`
}

// BatchChange describes one batch touched by a consumption.
type BatchChange struct {
	ItemID      string  `json:"item_id"`
	Brand       string  `json:"brand,omitempty"`
	ExpiryDate  string  `json:"expiry_date,omitempty"`
	Deducted    float64 `json:"deducted"`
	OldQuantity float64 `json:"old_quantity"`
	NewQuantity float64 `json:"new_quantity"`
}

// ConsumeResult reports the outcome of a consumption. Shortages are reported
// here, not as errors: the caller decides how to present them.
type ConsumeResult struct {
	Success            bool          `json:"success"`
	ConsumedAmount     float64       `json:"consumed_amount"`
	RemainingToConsume float64       `json:"remaining_to_consume"`
	AffectedBatches    []BatchChange `json:"affected_batches"`
	Message            string        `json:"message"`
}

// EntryView is a shopping-list entry with its note field decoded for
// display. It is produced on read and never cached.
type EntryView struct {
	Entry       *types.Entry      `json:"entry"`
	VisibleNote string            `json:"visible_note,omitempty"`
	Meta        notemeta.Metadata `json:"meta,omitempty"`
}

// AddItem persists a new inventory batch and records an inbound activity.
func (s *Service) AddItem(item *types.Item) (string, error) {
	table, err := s.pantry.GetTable(types.ItemsTable)
	if err != nil {
		return "", fmt.Errorf("get items table: %w", err)
	}

	id, err := table.Set("", item)
	if err != nil {
		return "", fmt.Errorf("create item: %w", err)
	}

	err = s.recordActivity(types.IntentInbound, "", map[string]any{
		"item_id":   id,
		"item_name": item.Name,
		"quantity":  item.Quantity,
		"unit":      item.Unit,
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// GroupedInventory returns all goods with remaining stock, one Group per
// name with its batches and total quantity.
func (s *Service) GroupedInventory() ([]Group, error) {
	table, err := s.pantry.GetTable(types.ItemsTable)
	if err != nil {
		return nil, fmt.Errorf("get items table: %w", err)
	}

	entities, err := table.Fetch(nil)
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}

	var groups []Group
	index := make(map[string]int)
	for _, e := range entities {
		item := e.(*types.Item)
		if item.Quantity <= 0 {
			continue
		}
		i, ok := index[item.Name]
		if !ok {
			i = len(groups)
			index[item.Name] = i
			groups = append(groups, Group{ItemName: item.Name, Unit: item.Unit})
		}
		groups[i].TotalQuantity = round3(groups[i].TotalQuantity + item.Quantity)
		groups[i].Batches = append(groups[i].Batches, item)
	}
	return groups, nil
}

// Consume deducts amount from the stock of the named good using FEFO order:
// open batches first, then earliest expiry with unknown expiry last. A
// non-empty brand restricts consumption to that brand. The deduction
// cascades across batches; shortages leave the stock untouched.
func (s *Service) Consume(itemName string, amount float64, brand, rawInput string) (*ConsumeResult, error) {
	if amount <= 0 {
		return nil, types.ErrInvalidQuantity
	}
	table, err := s.pantry.GetTable(types.ItemsTable)
	if err != nil {
		return nil, fmt.Errorf("get items table: %w", err)
	}

	filter := map[string]any{"name": itemName}
	if brand != "" {
		filter["brand"] = brand
	}
	entities, err := table.Fetch(filter)
	if err != nil {
		return nil, fmt.Errorf("fetch batches: %w", err)
	}

	var batches []*types.Item
	for _, e := range entities {
		item := e.(*types.Item)
		if item.Quantity > 0 {
			batches = append(batches, item)
		}
	}

	if len(batches) == 0 {
		msg := fmt.Sprintf("no available batches found for %q", itemName)
		if brand != "" {
			msg += fmt.Sprintf(" (brand: %s)", brand)
		}
		return &ConsumeResult{RemainingToConsume: amount, Message: msg}, nil
	}

	sortFEFO(batches)

	var totalAvailable float64
	for _, b := range batches {
		totalAvailable += b.Quantity
	}
	if totalAvailable < amount {
		return &ConsumeResult{
			RemainingToConsume: amount,
			Message: fmt.Sprintf("insufficient stock: available %v, requested %v",
				round3(totalAvailable), amount),
		}, nil
	}

	remaining := amount
	var affected []BatchChange
	for _, batch := range batches {
		if remaining <= 0 {
			break
		}
		oldQty := batch.Quantity
		deducted := batch.Deduct(remaining)
		if deducted == 0 {
			continue
		}
		remaining = round3(remaining - deducted)

		if _, err := table.Set(batch.ItemID, batch); err != nil {
			return nil, fmt.Errorf("persist batch %s: %w", batch.ItemID, err)
		}
		affected = append(affected, BatchChange{
			ItemID:      batch.ItemID,
			Brand:       batch.Brand,
			ExpiryDate:  batch.ExpiryDate,
			Deducted:    deducted,
			OldQuantity: oldQty,
			NewQuantity: batch.Quantity,
		})
	}

	consumed := round3(amount - remaining)
	err = s.recordActivity(types.IntentConsume, rawInput, map[string]any{
		"item_name":        itemName,
		"brand_filter":     brand,
		"requested_amount": amount,
		"consumed_amount":  consumed,
		"affected_batches": len(affected),
	})
	if err != nil {
		return nil, err
	}

	return &ConsumeResult{
		Success:            true,
		ConsumedAmount:     consumed,
		RemainingToConsume: remaining,
		AffectedBatches:    affected,
		Message:            fmt.Sprintf("consumed %v %s", consumed, itemName),
	}, nil
}

// Discard removes a batch outright and records a discard activity.
// Returns the removed batch.
func (s *Service) Discard(itemID string) (*types.Item, error) {
	table, err := s.pantry.GetTable(types.ItemsTable)
	if err != nil {
		return nil, fmt.Errorf("get items table: %w", err)
	}

	entity, err := table.Get(itemID)
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", itemID, err)
	}
	item := entity.(*types.Item)

	if err := table.Delete(itemID); err != nil {
		return nil, fmt.Errorf("delete item %s: %w", itemID, err)
	}

	err = s.recordActivity(types.IntentDiscard, "", map[string]any{
		"item_id":            itemID,
		"item_name":          item.Name,
		"remaining_quantity": item.Quantity,
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// AddEntry puts a new entry on the shopping list. The visible note and
// metadata are encoded into the single stored note field; both may be empty.
func (s *Service) AddEntry(itemName, brand, visibleNote string, meta notemeta.Metadata) (string, error) {
	table, err := s.pantry.GetTable(types.EntriesTable)
	if err != nil {
		return "", fmt.Errorf("get entries table: %w", err)
	}

	// ok=false means "no note at all"; the column stores "".
	note, _ := notemeta.Encode(visibleNote, meta)
	entry := &types.Entry{ItemName: itemName, Brand: brand, Note: note}

	id, err := table.Set("", entry)
	if err != nil {
		return "", fmt.Errorf("create entry: %w", err)
	}
	return id, nil
}

// Entries returns shopping-list entries with their notes decoded, oldest
// first. Done entries are included only when includeDone is set.
func (s *Service) Entries(includeDone bool) ([]EntryView, error) {
	table, err := s.pantry.GetTable(types.EntriesTable)
	if err != nil {
		return nil, fmt.Errorf("get entries table: %w", err)
	}

	filter := map[string]any{}
	if !includeDone {
		filter["done"] = false
	}
	entities, err := table.Fetch(filter)
	if err != nil {
		return nil, fmt.Errorf("fetch entries: %w", err)
	}

	views := make([]EntryView, 0, len(entities))
	for _, e := range entities {
		views = append(views, newEntryView(e.(*types.Entry)))
	}
	return views, nil
}

// Entry returns one shopping-list entry with its note decoded.
func (s *Service) Entry(entryID string) (*EntryView, error) {
	entry, _, err := s.getEntry(entryID)
	if err != nil {
		return nil, err
	}
	view := newEntryView(entry)
	return &view, nil
}

// SetEntryNote replaces an entry's note field with the encoding of the given
// visible text and metadata. Invalid metadata fields are dropped by the
// codec; an empty result clears the note.
func (s *Service) SetEntryNote(entryID, visibleNote string, meta notemeta.Metadata) error {
	entry, table, err := s.getEntry(entryID)
	if err != nil {
		return err
	}

	note, _ := notemeta.Encode(visibleNote, meta)
	entry.Note = note
	entry.UpdatedAt = time.Now().UTC()

	if _, err := table.Set(entryID, entry); err != nil {
		return fmt.Errorf("persist entry %s: %w", entryID, err)
	}
	return nil
}

// Purchase checks an entry off the list and creates an inventory batch
// pre-filled from the entry's note metadata: count becomes the quantity,
// pkgSize the package volume, and location and expiryDate carry over.
// Returns the created batch.
func (s *Service) Purchase(entryID string) (*types.Item, error) {
	entry, entriesTable, err := s.getEntry(entryID)
	if err != nil {
		return nil, err
	}
	if entry.Done {
		return nil, ErrEntryDone
	}

	visible, meta := notemeta.Decode(entry.Note)

	item := &types.Item{
		Name:     entry.ItemName,
		Brand:    entry.Brand,
		Quantity: 1,
	}
	if n, ok := meta.Number(notemeta.FieldCount); ok && n > 0 && !math.IsInf(n, 0) {
		item.Quantity = n
	}
	if n, ok := meta.Number(notemeta.FieldPkgSize); ok && n > 0 && !math.IsInf(n, 0) {
		item.TotalVolume = n
	}
	if loc, ok := meta.Text(notemeta.FieldLocation); ok {
		item.Location = loc
	}
	if exp, ok := meta.Text(notemeta.FieldExpiryDate); ok {
		item.ExpiryDate = exp
	}

	itemsTable, err := s.pantry.GetTable(types.ItemsTable)
	if err != nil {
		return nil, fmt.Errorf("get items table: %w", err)
	}
	itemID, err := itemsTable.Set("", item)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	entry.MarkDone()
	if _, err := entriesTable.Set(entryID, entry); err != nil {
		return nil, fmt.Errorf("persist entry %s: %w", entryID, err)
	}

	err = s.recordActivity(types.IntentPurchase, visible, map[string]any{
		"entry_id":  entryID,
		"item_id":   itemID,
		"item_name": entry.ItemName,
		"quantity":  item.Quantity,
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveEntry deletes an entry from the shopping list.
func (s *Service) RemoveEntry(entryID string) error {
	table, err := s.pantry.GetTable(types.EntriesTable)
	if err != nil {
		return fmt.Errorf("get entries table: %w", err)
	}
	if err := table.Delete(entryID); err != nil {
		return fmt.Errorf("delete entry %s: %w", entryID, err)
	}
	return nil
}

// Activities returns the most recent activity records, newest first.
// A non-positive limit applies the default.
func (s *Service) Activities(limit int) ([]*types.Activity, error) {
	table, err := s.pantry.GetTable(types.ActivitiesTable)
	if err != nil {
		return nil, fmt.Errorf("get activities table: %w", err)
	}

	entities, err := table.Fetch(nil)
	if err != nil {
		return nil, fmt.Errorf("fetch activities: %w", err)
	}

	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if len(entities) > limit {
		entities = entities[:limit]
	}

	activities := make([]*types.Activity, 0, len(entities))
	for _, e := range entities {
		activities = append(activities, e.(*types.Activity))
	}
	return activities, nil
}

// getEntry fetches an entry and the entries table in one step.
func (s *Service) getEntry(entryID string) (*types.Entry, types.Table, error) {
	table, err := s.pantry.GetTable(types.EntriesTable)
	if err != nil {
		return nil, nil, fmt.Errorf("get entries table: %w", err)
	}
	entity, err := table.Get(entryID)
	if err != nil {
		return nil, nil, fmt.Errorf("get entry %s: %w", entryID, err)
	}
	return entity.(*types.Entry), table, nil
}

// newEntryView decodes an entry's note field for display.
func newEntryView(entry *types.Entry) EntryView {
	visible, meta := notemeta.Decode(entry.Note)
	return EntryView{Entry: entry, VisibleNote: visible, Meta: meta}
}

// recordActivity appends one audit record.
func (s *Service) recordActivity(intent, rawInput string, detail map[string]any) error {
	table, err := s.pantry.GetTable(types.ActivitiesTable)
	if err != nil {
		return fmt.Errorf("get activities table: %w", err)
	}
	_, err = table.Set("", &types.Activity{
		Intent:   intent,
		RawInput: rawInput,
		Detail:   detail,
	})
	if err != nil {
		return fmt.Errorf("record %s activity: %w", intent, err)
	}
	return nil
}

// sortFEFO orders batches for consumption: open batches first, then earliest
// expiry with unknown expiry last, then oldest batch. Expiry tokens are
// opaque to the codec but sort correctly for ISO dates.
func sortFEFO(batches []*types.Item) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		if a.IsOpen != b.IsOpen {
			return a.IsOpen
		}
		if (a.ExpiryDate == "") != (b.ExpiryDate == "") {
			return a.ExpiryDate != ""
		}
		if a.ExpiryDate != b.ExpiryDate {
			return a.ExpiryDate < b.ExpiryDate
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// round3 rounds to three decimal places, matching batch bookkeeping.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
