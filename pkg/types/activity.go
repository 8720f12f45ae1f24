package types

import "time"

// Activity intents. Every mutating inventory operation records one.
const (
	IntentInbound  = "inbound"
	IntentConsume  = "consume"
	IntentDiscard  = "discard"
	IntentPurchase = "purchase"
)

// validIntents is the set of recognized activity intent values.
var validIntents = map[string]bool{
	IntentInbound:  true,
	IntentConsume:  true,
	IntentDiscard:  true,
	IntentPurchase: true,
}

// Activity is an audit record of one inventory operation.
type Activity struct {
	ActivityID string         `json:"activity_id"` // UUID v7, generated on creation.
	Intent     string         `json:"intent"`
	RawInput   string         `json:"raw_input,omitempty"` // Verbatim user input that triggered the operation.
	Detail     map[string]any `json:"detail,omitempty"`    // Operation-specific fields.
	CreatedAt  time.Time      `json:"created_at"`
}

// Validate checks that the intent is recognized.
func (a *Activity) Validate() error {
	if !validIntents[a.Intent] {
		return ErrInvalidIntent
	}
	return nil
}
