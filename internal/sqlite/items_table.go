// This file implements the items table accessor for the SQLite backend.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/stocklist/pkg/types"
)

// Compile-time interface check: itemsTable must implement Table.
var _ types.Table = (*itemsTable)(nil)

// itemsTable implements the Table interface for inventory batches. Each
// operation hydrates/dehydrates between SQLite rows and *types.Item structs.
type itemsTable struct {
	backend *Backend
}

const itemColumns = "item_id, name, brand, quantity, total_volume, unit, category, expiry_date, is_open, location, created_at, updated_at"

// allowedItemFilters lists the columns Fetch accepts in equality filters.
var allowedItemFilters = map[string]bool{
	"name":        true,
	"brand":       true,
	"unit":        true,
	"category":    true,
	"expiry_date": true,
	"is_open":     true,
	"location":    true,
}

// Get retrieves an item by ID.
func (it *itemsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := it.backend.database()
	if err != nil {
		return nil, err
	}

	row := db.QueryRow("SELECT "+itemColumns+" FROM items WHERE item_id = ?", id)
	item, err := hydrateItem(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting item %s: %w", id, err)
	}
	return item, nil
}

// Set persists an item. If id is empty, generates a UUID v7 and creates the
// item with fresh timestamps. If id is provided, updates the existing row or
// inserts one with that ID, preserving timestamps already present on the
// struct (the import path relies on this).
func (it *itemsTable) Set(id string, data any) (string, error) {
	item, ok := data.(*types.Item)
	if !ok {
		return "", types.ErrInvalidData
	}
	if err := item.Validate(); err != nil {
		return "", err
	}
	db, err := it.backend.database()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	if id == "" {
		item.ItemID = generateUUID()
		item.CreatedAt = now
		item.UpdatedAt = now
		id = item.ItemID
	} else {
		item.ItemID = id
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		if item.UpdatedAt.IsZero() {
			item.UpdatedAt = now
		}
	}

	var exists bool
	err = db.QueryRow("SELECT 1 FROM items WHERE item_id = ?", id).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("checking item existence: %w", err)
	}

	createdAt := item.CreatedAt.Format(time.RFC3339Nano)
	updatedAt := item.UpdatedAt.Format(time.RFC3339Nano)

	if exists {
		_, err = db.Exec(
			`UPDATE items SET name = ?, brand = ?, quantity = ?, total_volume = ?, unit = ?,
			 category = ?, expiry_date = ?, is_open = ?, location = ?, created_at = ?, updated_at = ?
			 WHERE item_id = ?`,
			item.Name, item.Brand, item.Quantity, item.TotalVolume, item.Unit,
			item.Category, item.ExpiryDate, boolToInt(item.IsOpen), item.Location,
			createdAt, updatedAt, id,
		)
	} else {
		_, err = db.Exec(
			`INSERT INTO items (`+itemColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, item.Name, item.Brand, item.Quantity, item.TotalVolume, item.Unit,
			item.Category, item.ExpiryDate, boolToInt(item.IsOpen), item.Location,
			createdAt, updatedAt,
		)
	}
	if err != nil {
		return "", fmt.Errorf("persisting item: %w", err)
	}
	return id, nil
}

// Delete removes an item by ID. Returns ErrNotFound if no row was deleted.
func (it *itemsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := it.backend.database()
	if err != nil {
		return err
	}

	res, err := db.Exec("DELETE FROM items WHERE item_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting item %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item %s: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Fetch returns all items matching the equality filter, ordered by name
// and creation time.
func (it *itemsTable) Fetch(filter map[string]any) ([]any, error) {
	db, err := it.backend.database()
	if err != nil {
		return nil, err
	}

	where, args, err := buildWhere(allowedItemFilters, filter)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(
		"SELECT "+itemColumns+" FROM items"+where+" ORDER BY name, created_at", args...)
	if err != nil {
		return nil, fmt.Errorf("fetching items: %w", err)
	}
	defer rows.Close()

	var result []any
	for rows.Next() {
		item, err := hydrateItem(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating item: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetching items: %w", err)
	}
	return result, nil
}

// hydrateItem scans one items row into a *types.Item.
func hydrateItem(row rowScanner) (*types.Item, error) {
	var item types.Item
	var isOpen int
	var createdAt, updatedAt string

	err := row.Scan(
		&item.ItemID, &item.Name, &item.Brand, &item.Quantity, &item.TotalVolume,
		&item.Unit, &item.Category, &item.ExpiryDate, &isOpen, &item.Location,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.IsOpen = isOpen != 0
	if item.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if item.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &item, nil
}
