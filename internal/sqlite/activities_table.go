// This file implements the activities table accessor for the SQLite backend.
// Activities are append-mostly audit records; Detail is stored as a JSON
// object in a TEXT column.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/stocklist/pkg/types"
)

var _ types.Table = (*activitiesTable)(nil)

// activitiesTable implements the Table interface for audit records.
type activitiesTable struct {
	backend *Backend
}

const activityColumns = "activity_id, intent, raw_input, detail, created_at"

// allowedActivityFilters lists the columns Fetch accepts in equality filters.
var allowedActivityFilters = map[string]bool{
	"intent": true,
}

// Get retrieves an activity by ID.
func (at *activitiesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := at.backend.database()
	if err != nil {
		return nil, err
	}

	row := db.QueryRow("SELECT "+activityColumns+" FROM activities WHERE activity_id = ?", id)
	activity, err := hydrateActivity(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting activity %s: %w", id, err)
	}
	return activity, nil
}

// Set persists an activity. If id is empty, generates a UUID v7 and stamps
// the creation time. Existing rows with a provided ID are overwritten, which
// only the import path does.
func (at *activitiesTable) Set(id string, data any) (string, error) {
	activity, ok := data.(*types.Activity)
	if !ok {
		return "", types.ErrInvalidData
	}
	if err := activity.Validate(); err != nil {
		return "", err
	}
	db, err := at.backend.database()
	if err != nil {
		return "", err
	}

	if id == "" {
		activity.ActivityID = generateUUID()
		activity.CreatedAt = time.Now().UTC()
		id = activity.ActivityID
	} else {
		activity.ActivityID = id
		if activity.CreatedAt.IsZero() {
			activity.CreatedAt = time.Now().UTC()
		}
	}

	detail := activity.Detail
	if detail == nil {
		detail = map[string]any{}
	}
	detailJSON, err := json.Marshal(detail)
	if err != nil {
		return "", fmt.Errorf("marshaling activity detail: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO activities (`+activityColumns+`) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(activity_id) DO UPDATE SET
		 intent = excluded.intent, raw_input = excluded.raw_input,
		 detail = excluded.detail, created_at = excluded.created_at`,
		id, activity.Intent, activity.RawInput, string(detailJSON),
		activity.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("persisting activity: %w", err)
	}
	return id, nil
}

// Delete removes an activity by ID. Returns ErrNotFound if no row was deleted.
func (at *activitiesTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := at.backend.database()
	if err != nil {
		return err
	}

	res, err := db.Exec("DELETE FROM activities WHERE activity_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting activity %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting activity %s: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Fetch returns all activities matching the equality filter, newest first.
func (at *activitiesTable) Fetch(filter map[string]any) ([]any, error) {
	db, err := at.backend.database()
	if err != nil {
		return nil, err
	}

	where, args, err := buildWhere(allowedActivityFilters, filter)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(
		"SELECT "+activityColumns+" FROM activities"+where+
			" ORDER BY created_at DESC, activity_id DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("fetching activities: %w", err)
	}
	defer rows.Close()

	var result []any
	for rows.Next() {
		activity, err := hydrateActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating activity: %w", err)
		}
		result = append(result, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetching activities: %w", err)
	}
	return result, nil
}

// hydrateActivity scans one activities row into a *types.Activity.
func hydrateActivity(row rowScanner) (*types.Activity, error) {
	var activity types.Activity
	var detailJSON, createdAt string

	err := row.Scan(
		&activity.ActivityID, &activity.Intent, &activity.RawInput,
		&detailJSON, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if detailJSON != "" {
		if err := json.Unmarshal([]byte(detailJSON), &activity.Detail); err != nil {
			return nil, fmt.Errorf("parsing activity detail: %w", err)
		}
	}
	if activity.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &activity, nil
}
