package types

import "time"

// Entry represents one line on the shopping list. Note holds the stored form
// of the entry's note field: visible text plus an optional trailing metadata
// segment, encoded and decoded by pkg/notemeta. An empty Note means the
// entry has no note.
type Entry struct {
	EntryID   string    `json:"entry_id"`  // UUID v7, generated on creation.
	ItemName  string    `json:"item_name"` // Good to buy (required, non-empty).
	Brand     string    `json:"brand,omitempty"`
	Note      string    `json:"note,omitempty"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the fields that must hold before persistence.
func (e *Entry) Validate() error {
	if e.ItemName == "" {
		return ErrInvalidName
	}
	return nil
}

// MarkDone checks the entry off the list. Idempotent.
func (e *Entry) MarkDone() {
	if !e.Done {
		e.Done = true
		e.UpdatedAt = time.Now().UTC()
	}
}

// Reopen puts a checked-off entry back on the list. Idempotent.
func (e *Entry) Reopen() {
	if e.Done {
		e.Done = false
		e.UpdatedAt = time.Now().UTC()
	}
}
