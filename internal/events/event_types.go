package events

import (
	"time"

	"github.com/spec-kit/buyer-lead-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLeadCreated   EventType = "lead_created"
	EventLeadUpdated   EventType = "lead_updated"
	EventLeadsImported EventType = "leads_imported"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	BuyerID   string      `json:"buyer_id,omitempty"`
	OwnerID   string      `json:"owner_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LeadCreatedPayload payload.
type LeadCreatedPayload struct {
	FullName string            `json:"full_name"`
	City     domain.City       `json:"city"`
	Source   domain.LeadSource `json:"source"`
	Status   domain.LeadStatus `json:"status"`
}

// LeadUpdatedPayload payload.
type LeadUpdatedPayload struct {
	ChangedFields []string          `json:"changed_fields"`
	Status        domain.LeadStatus `json:"status"`
}

// LeadsImportedPayload payload.
type LeadsImportedPayload struct {
	SucceededCount int `json:"succeeded_count"`
	FailedCount    int `json:"failed_count"`
}
