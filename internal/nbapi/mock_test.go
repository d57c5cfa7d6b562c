package nbapi

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Adda-Baaj/nbdev/internal/domain"
	"github.com/Adda-Baaj/nbdev/internal/storage"
)

func newTestMock(t *testing.T, opts ...MockOption) *Mock {
	t.Helper()
	m, err := NewMock(opts...)
	if err != nil {
		t.Fatalf("NewMock: %v", err)
	}
	return m
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestMockCreatePersonAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	m := newTestMock(t)

	prev := 0
	for i := 0; i < 5; i++ {
		p, err := m.CreatePerson(ctx, domain.NewPerson{FirstName: fmt.Sprintf("p%d", i)})
		if err != nil {
			t.Fatalf("CreatePerson: %v", err)
		}
		if p.ID <= prev {
			t.Fatalf("id %d not greater than previous %d", p.ID, prev)
		}
		prev = p.ID
	}
	if prev != 5 {
		t.Fatalf("expected ids to start at 1, last id = %d", prev)
	}
}

func TestMockCreatedPersonRoundTripsThroughSample(t *testing.T) {
	ctx := context.Background()
	m := newTestMock(t)

	created, err := m.CreatePerson(ctx, domain.NewPerson{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.org"})
	if err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}

	people, err := m.SamplePeople(ctx)
	if err != nil {
		t.Fatalf("SamplePeople: %v", err)
	}
	if len(people) != 1 {
		t.Fatalf("expected 1 person, got %d", len(people))
	}
	p := people[0]
	if p.ID != created.ID || p.ID != 1 {
		t.Fatalf("unexpected id %d", p.ID)
	}
	if p.FirstName != "Ada" || p.LastName != "Lovelace" || p.Email != "ada@example.org" {
		t.Fatalf("fields not stored: %#v", p)
	}
	if len(p.Contacts) != 0 || p.LastCallID != domain.NoCall || p.LastContactedAt != nil {
		t.Fatalf("expected empty contact history, got %#v", p)
	}
}

func TestMockUpdateUnknownPersonFailsWithoutCreating(t *testing.T) {
	ctx := context.Background()
	m := newTestMock(t)
	note := "hello"

	_, err := m.UpdatePerson(ctx, domain.PersonUpdate{ID: 42, Note: &note})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.ID != "42" {
		t.Fatalf("expected NotFoundError carrying id 42, got %#v", err)
	}
	people, _ := m.SamplePeople(ctx)
	if len(people) != 0 {
		t.Fatalf("update must not create a record, got %d people", len(people))
	}
}

func TestMockUpdateMergesSuppliedFields(t *testing.T) {
	ctx := context.Background()
	m := newTestMock(t)
	p, _ := m.CreatePerson(ctx, domain.NewPerson{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.org"})

	note := "met at the fair"
	updated, err := m.UpdatePerson(ctx, domain.PersonUpdate{ID: p.ID, Note: &note})
	if err != nil {
		t.Fatalf("UpdatePerson: %v", err)
	}
	if updated.Note == nil || *updated.Note != note {
		t.Fatalf("note not merged: %#v", updated.Note)
	}
	if updated.FirstName != "Ada" || updated.Email != "ada@example.org" {
		t.Fatalf("unsupplied fields lost: %#v", updated)
	}

	untouched, err := m.UpdatePerson(ctx, domain.PersonUpdate{ID: p.ID})
	if err != nil {
		t.Fatalf("UpdatePerson without fields: %v", err)
	}
	if untouched.Note == nil || *untouched.Note != note {
		t.Fatalf("nil note should retain existing value, got %#v", untouched.Note)
	}
}

func TestMockDeleteRemovesPersonAndHistory(t *testing.T) {
	ctx := context.Background()
	m := newTestMock(t)
	p, _ := m.CreatePerson(ctx, domain.NewPerson{FirstName: "Ada"})
	if _, err := m.CreateContact(ctx, domain.NewContact{PersonID: p.ID, TypeID: 1}); err != nil {
		t.Fatalf("CreateContact: %v", err)
	}

	if err := m.DeletePerson(ctx, p.ID); err != nil {
		t.Fatalf("DeletePerson: %v", err)
	}
	if _, err := m.UpdatePerson(ctx, domain.PersonUpdate{ID: p.ID}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update after delete: expected ErrNotFound, got %v", err)
	}
	if _, err := m.CreateContact(ctx, domain.NewContact{PersonID: p.ID, TypeID: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("contact after delete: expected ErrNotFound, got %v", err)
	}
	if err := m.DeletePerson(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}

	next, _ := m.CreatePerson(ctx, domain.NewPerson{FirstName: "Grace"})
	if next.ID <= p.ID {
		t.Fatalf("ids must not be reused after delete: got %d after %d", next.ID, p.ID)
	}
}

func TestMockCreateContactSequencesPerPerson(t *testing.T) {
	ctx := context.Background()
	m := newTestMock(t)
	a, _ := m.CreatePerson(ctx, domain.NewPerson{FirstName: "Ada"})
	b, _ := m.CreatePerson(ctx, domain.NewPerson{FirstName: "Grace"})

	for want := 0; want < 3; want++ {
		c, err := m.CreateContact(ctx, domain.NewContact{PersonID: a.ID, TypeID: 1})
		if err != nil {
			t.Fatalf("CreateContact: %v", err)
		}
		if c.ContactID != want {
			t.Fatalf("person a contact id = %d, want %d", c.ContactID, want)
		}
	}

	c, err := m.CreateContact(ctx, domain.NewContact{PersonID: b.ID, TypeID: 2})
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if c.ContactID != 0 {
		t.Fatalf("person b should start at 0 regardless of a, got %d", c.ContactID)
	}

	note := "x"
	if _, err := m.UpdatePerson(ctx, domain.PersonUpdate{ID: a.ID, Note: &note}); err != nil {
		t.Fatalf("UpdatePerson: %v", err)
	}
	c, _ = m.CreateContact(ctx, domain.NewContact{PersonID: a.ID, TypeID: 1})
	if c.ContactID != 3 {
		t.Fatalf("contact ids must survive updates, got %d", c.ContactID)
	}
}

func TestMockCreateContactStampsPerson(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 9, 14, 5, 7, 123456789, time.FixedZone("EST", -5*3600))
	m := newTestMock(t, WithClock(fixedClock(now)))
	m.CreatePerson(ctx, domain.NewPerson{FirstName: "Ada"})

	c, err := m.CreateContact(ctx, domain.NewContact{PersonID: 1, TypeID: 2})
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if c.ContactID != 0 || c.PersonID != 1 || c.TypeID != 2 {
		t.Fatalf("unexpected contact %#v", c)
	}
	if c.CreatedAt != "2024-03-09T19:05:07Z" {
		t.Fatalf("created_at = %q", c.CreatedAt)
	}
	if !strings.HasSuffix(c.CreatedAt, "Z") {
		t.Fatalf("timestamp must end in Z")
	}

	people, _ := m.SamplePeople(ctx)
	p := people[0]
	if p.LastContactedAt == nil || *p.LastContactedAt != c.CreatedAt {
		t.Fatalf("last_contacted_at = %v, want %s", p.LastContactedAt, c.CreatedAt)
	}
	if p.LastCallID != 0 {
		t.Fatalf("last_call_id = %d", p.LastCallID)
	}
	if stored, ok := p.Contacts[0]; !ok || stored != c {
		t.Fatalf("contact not stored under person: %#v", p.Contacts)
	}
}

func TestMockReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := newTestMock(t)
	p, _ := m.CreatePerson(ctx, domain.NewPerson{FirstName: "Ada"})

	p.FirstName = "changed"
	p.Contacts[7] = domain.Contact{ContactID: 7}

	people, _ := m.SamplePeople(ctx)
	if people[0].FirstName != "Ada" || len(people[0].Contacts) != 0 {
		t.Fatalf("caller mutation leaked into mock state: %#v", people[0])
	}
}

func TestMockCreateWebhookFixesVersion(t *testing.T) {
	ctx := context.Background()
	m := newTestMock(t, WithWebhookIDs(func() string { return "hook-1" }))

	w, err := m.CreateWebhook(ctx, domain.NewWebhook{URL: "https://example.com/hook", Event: "person_creation"})
	if err != nil {
		t.Fatalf("CreateWebhook: %v", err)
	}
	if w.ID != "hook-1" || w.Version != domain.WebhookVersion {
		t.Fatalf("unexpected webhook %#v", w)
	}
	hooks, _ := m.SampleWebhooks(ctx)
	if len(hooks) != 1 || hooks[0] != w {
		t.Fatalf("webhook not stored verbatim: %#v", hooks)
	}
}

func TestMockWebhookIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	m := newTestMock(t)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		w, _ := m.CreateWebhook(ctx, domain.NewWebhook{URL: "https://example.com", Event: "e"})
		if seen[w.ID] {
			t.Fatalf("duplicate webhook id %s", w.ID)
		}
		seen[w.ID] = true
	}
}

func TestMockContactTypes(t *testing.T) {
	ctx := context.Background()
	types, _ := newTestMock(t).SampleContactTypes(ctx)
	if len(types) != 2 || types[0].Name != "Initial outreach" || types[1].Name != "Final outreach" {
		t.Fatalf("unexpected default contact types %#v", types)
	}

	custom := []domain.ContactType{{ID: 9, Name: "Door knock"}}
	types, _ = newTestMock(t, WithContactTypes(custom)).SampleContactTypes(ctx)
	if len(types) != 1 || types[0].ID != 9 {
		t.Fatalf("override ignored: %#v", types)
	}
}

func TestMockMatchPerson(t *testing.T) {
	ctx := context.Background()
	m := newTestMock(t)
	m.CreatePerson(ctx, domain.NewPerson{FirstName: "Ada", Email: "ada@example.org"})
	m.CreatePerson(ctx, domain.NewPerson{FirstName: "Grace", Email: "grace@example.org"})

	p, err := m.MatchPerson(ctx, " ADA@example.org ")
	if err != nil {
		t.Fatalf("MatchPerson: %v", err)
	}
	if p.ID != 1 {
		t.Fatalf("matched wrong person %#v", p)
	}
	if _, err := m.MatchPerson(ctx, "nobody@example.org"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMockRestoresFromBoltStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mock.db")

	store, err := storage.NewStore("bbolt", path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	m := newTestMock(t, WithStore(store))
	p, _ := m.CreatePerson(ctx, domain.NewPerson{FirstName: "Ada"})
	m.CreateContact(ctx, domain.NewContact{PersonID: p.ID, TypeID: 1})
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	store, err = storage.NewStore("bbolt", path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	restored := newTestMock(t, WithStore(store))
	defer restored.Close()

	people, _ := restored.SamplePeople(ctx)
	if len(people) != 1 || people[0].LastCallID != 0 || len(people[0].Contacts) != 1 {
		t.Fatalf("state not restored: %#v", people)
	}
	next, _ := restored.CreatePerson(ctx, domain.NewPerson{FirstName: "Grace"})
	if next.ID != 2 {
		t.Fatalf("id counter not restored, got %d", next.ID)
	}
}

func TestMockSatisfiesClient(t *testing.T) {
	var _ Client = newTestMock(t)
	var _ Client = (*Remote)(nil)
}
