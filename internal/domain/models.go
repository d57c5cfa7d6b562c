package domain

import "time"

// Domain contains the NationBuilder resources the console works with.

const (
	// NoCall marks a person that has never been contacted.
	NoCall = -1

	// WebhookVersion is the webhook payload version requested on creation.
	WebhookVersion = 4

	// TimestampLayout is the UTC second-precision layout used for contact times.
	TimestampLayout = "2006-01-02T15:04:05Z"
)

// Person is a NationBuilder person record.
type Person struct {
	ID              int             `json:"id"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	Email           string          `json:"email"`
	Note            *string         `json:"note,omitempty"`
	Contacts        map[int]Contact `json:"contacts"`
	LastCallID      int             `json:"last_call_id"`
	LastContactedAt *string         `json:"last_contacted_at"`
}

// Clone returns a deep copy so callers never share maps or pointers with the original.
func (p Person) Clone() Person {
	out := p
	if p.Note != nil {
		note := *p.Note
		out.Note = &note
	}
	if p.LastContactedAt != nil {
		ts := *p.LastContactedAt
		out.LastContactedAt = &ts
	}
	out.Contacts = make(map[int]Contact, len(p.Contacts))
	for id, c := range p.Contacts {
		out.Contacts[id] = c
	}
	return out
}

// Contact is a logged outreach event against a person.
type Contact struct {
	PersonID  int    `json:"person_id"`
	TypeID    int    `json:"type_id"`
	ContactID int    `json:"contact_id"`
	CreatedAt string `json:"created_at"`
}

// Webhook subscribes a URL to a NationBuilder event.
type Webhook struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
	URL     string `json:"url"`
	Event   string `json:"event"`
}

// ContactType is read-only reference data describing a kind of contact.
type ContactType struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// NewPerson holds the fields accepted when creating a person.
type NewPerson struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// PersonUpdate identifies a person and carries the fields to merge into it.
// Nil fields are left untouched.
type PersonUpdate struct {
	ID   int     `json:"id"`
	Note *string `json:"note,omitempty"`
}

// NewWebhook holds the caller supplied webhook fields. The version is not
// caller controlled.
type NewWebhook struct {
	URL   string `json:"url"`
	Event string `json:"event"`
}

// NewContact records an outreach of the given type against a person.
type NewContact struct {
	PersonID int `json:"person_id"`
	TypeID   int `json:"type_id"`
}

// FormatTimestamp renders t in UTC with second precision and a literal Z suffix.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(TimestampLayout)
}
