package domain

import "time"

// FieldChange holds the before/after values for a single field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// Diff maps changed field names to their before/after values. Unchanged
// fields are never present.
type Diff map[string]FieldChange

// BuyerHistory is an immutable change-log entry. Exactly one entry is
// written per update that changed at least one field; the initial insert
// of a lead writes none.
type BuyerHistory struct {
	ID        string
	BuyerID   string
	ChangedAt time.Time
	Diff      Diff
}
