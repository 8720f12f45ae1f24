package types

import (
	"math"
	"time"
)

// Item represents one inventory batch of a pantry good. Multiple batches of
// the same good share a Name and are distinguished by brand, expiry, and
// open state.
type Item struct {
	ItemID      string    `json:"item_id"`     // UUID v7, generated on creation.
	Name        string    `json:"name"`        // Good name (required, non-empty).
	Brand       string    `json:"brand,omitempty"`
	Quantity    float64   `json:"quantity"`     // Remaining units in this batch.
	TotalVolume float64   `json:"total_volume"` // Package size per unit, in Unit.
	Unit        string    `json:"unit,omitempty"`
	Category    string    `json:"category,omitempty"`
	ExpiryDate  string    `json:"expiry_date,omitempty"` // Opaque date token, empty when unknown.
	IsOpen      bool      `json:"is_open"`
	Location    string    `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// depletedEpsilon absorbs float drift when a batch is consumed down to zero.
const depletedEpsilon = 0.001

// Validate checks the fields that must hold before persistence.
func (i *Item) Validate() error {
	if i.Name == "" {
		return ErrInvalidName
	}
	if i.Quantity < 0 || i.TotalVolume < 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// MarkOpen marks the batch as opened. Idempotent.
func (i *Item) MarkOpen() {
	if !i.IsOpen {
		i.IsOpen = true
		i.UpdatedAt = time.Now().UTC()
	}
}

// MarkClosed marks the batch as unopened. Idempotent.
func (i *Item) MarkClosed() {
	if i.IsOpen {
		i.IsOpen = false
		i.UpdatedAt = time.Now().UTC()
	}
}

// Deduct removes up to amount units from the batch and returns how much was
// actually deducted. Quantities are rounded to three decimals to avoid float
// drift across cascading deductions. A batch consumed down to (nearly) zero
// is zeroed and closed; a batch consumed from while unopened is marked open.
func (i *Item) Deduct(amount float64) float64 {
	if amount <= 0 || i.Quantity <= 0 {
		return 0
	}

	deduct := math.Min(i.Quantity, amount)
	i.Quantity = round3(i.Quantity - deduct)

	if i.Quantity <= depletedEpsilon {
		i.Quantity = 0
		i.IsOpen = false
	} else if !i.IsOpen {
		i.IsOpen = true
	}
	i.UpdatedAt = time.Now().UTC()

	return deduct
}

// round3 rounds to three decimal places.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
