package publishers

import (
	"time"

	"github.com/google/uuid"
)

// Event types emitted after successful NationBuilder mutations.
const (
	EventPersonCreated  = "person.created"
	EventPersonUpdated  = "person.updated"
	EventPersonDeleted  = "person.deleted"
	EventWebhookCreated = "webhook.created"
	EventContactCreated = "contact.created"
)

// Event represents the payload published downstream.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	ResourceID string    `json:"resource_id"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent constructs an Event stamped with a fresh id and the current UTC time.
func NewEvent(typ, resourceID string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		ResourceID: resourceID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// attributes are the routing attributes attached to queue and topic messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_type":  e.Type,
		"resource_id": e.ResourceID,
	}
}
