// This file implements the shopping-list entries table accessor for the
// SQLite backend. The note column stores the encoded form produced by
// pkg/notemeta; the backend treats it as an opaque string.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/stocklist/pkg/types"
)

var _ types.Table = (*entriesTable)(nil)

// entriesTable implements the Table interface for shopping-list entries.
type entriesTable struct {
	backend *Backend
}

const entryColumns = "entry_id, item_name, brand, note, done, created_at, updated_at"

// allowedEntryFilters lists the columns Fetch accepts in equality filters.
var allowedEntryFilters = map[string]bool{
	"item_name": true,
	"brand":     true,
	"done":      true,
}

// Get retrieves an entry by ID.
func (et *entriesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := et.backend.database()
	if err != nil {
		return nil, err
	}

	row := db.QueryRow("SELECT "+entryColumns+" FROM entries WHERE entry_id = ?", id)
	entry, err := hydrateEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting entry %s: %w", id, err)
	}
	return entry, nil
}

// Set persists an entry. If id is empty, generates a UUID v7 and creates the
// entry with fresh timestamps. If id is provided, updates the existing row
// or inserts one with that ID.
func (et *entriesTable) Set(id string, data any) (string, error) {
	entry, ok := data.(*types.Entry)
	if !ok {
		return "", types.ErrInvalidData
	}
	if err := entry.Validate(); err != nil {
		return "", err
	}
	db, err := et.backend.database()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	if id == "" {
		entry.EntryID = generateUUID()
		entry.CreatedAt = now
		entry.UpdatedAt = now
		id = entry.EntryID
	} else {
		entry.EntryID = id
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = now
		}
		if entry.UpdatedAt.IsZero() {
			entry.UpdatedAt = now
		}
	}

	var exists bool
	err = db.QueryRow("SELECT 1 FROM entries WHERE entry_id = ?", id).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("checking entry existence: %w", err)
	}

	createdAt := entry.CreatedAt.Format(time.RFC3339Nano)
	updatedAt := entry.UpdatedAt.Format(time.RFC3339Nano)

	if exists {
		_, err = db.Exec(
			`UPDATE entries SET item_name = ?, brand = ?, note = ?, done = ?,
			 created_at = ?, updated_at = ? WHERE entry_id = ?`,
			entry.ItemName, entry.Brand, entry.Note, boolToInt(entry.Done),
			createdAt, updatedAt, id,
		)
	} else {
		_, err = db.Exec(
			`INSERT INTO entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, entry.ItemName, entry.Brand, entry.Note, boolToInt(entry.Done),
			createdAt, updatedAt,
		)
	}
	if err != nil {
		return "", fmt.Errorf("persisting entry: %w", err)
	}
	return id, nil
}

// Delete removes an entry by ID. Returns ErrNotFound if no row was deleted.
func (et *entriesTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := et.backend.database()
	if err != nil {
		return err
	}

	res, err := db.Exec("DELETE FROM entries WHERE entry_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting entry %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting entry %s: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Fetch returns all entries matching the equality filter, oldest first.
func (et *entriesTable) Fetch(filter map[string]any) ([]any, error) {
	db, err := et.backend.database()
	if err != nil {
		return nil, err
	}

	where, args, err := buildWhere(allowedEntryFilters, filter)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(
		"SELECT "+entryColumns+" FROM entries"+where+" ORDER BY created_at, entry_id", args...)
	if err != nil {
		return nil, fmt.Errorf("fetching entries: %w", err)
	}
	defer rows.Close()

	var result []any
	for rows.Next() {
		entry, err := hydrateEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating entry: %w", err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetching entries: %w", err)
	}
	return result, nil
}

// hydrateEntry scans one entries row into a *types.Entry.
func hydrateEntry(row rowScanner) (*types.Entry, error) {
	var entry types.Entry
	var done int
	var createdAt, updatedAt string

	err := row.Scan(
		&entry.EntryID, &entry.ItemName, &entry.Brand, &entry.Note, &done,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Done = done != 0
	if entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if entry.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &entry, nil
}
