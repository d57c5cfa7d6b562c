package storage

import (
	"path/filepath"
	"testing"

	"github.com/Adda-Baaj/nbdev/internal/domain"
)

func TestBoltStoreRoundTripsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mock.db")

	store, err := NewStore("bbolt", path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if _, ok, err := store.Load(); err != nil || ok {
		t.Fatalf("expected empty store, ok=%v err=%v", ok, err)
	}

	ts := "2024-05-01T10:00:00Z"
	snap := Snapshot{
		LastPersonID: 2,
		People: []domain.Person{{
			ID:              2,
			FirstName:       "Ada",
			Contacts:        map[int]domain.Contact{0: {PersonID: 2, TypeID: 1, ContactID: 0, CreatedAt: ts}},
			LastCallID:      0,
			LastContactedAt: &ts,
		}},
		Webhooks: []domain.Webhook{{ID: "w1", Version: domain.WebhookVersion, URL: "https://example.com", Event: "person_creation"}},
	}
	if err := store.Save(snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewStore("bbolt", path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, ok, err := reopened.Load()
	if err != nil || !ok {
		t.Fatalf("Load after reopen: ok=%v err=%v", ok, err)
	}
	if got.LastPersonID != 2 || len(got.People) != 1 || len(got.Webhooks) != 1 {
		t.Fatalf("unexpected snapshot %#v", got)
	}
	if c := got.People[0].Contacts[0]; c.CreatedAt != ts {
		t.Fatalf("contact not restored: %#v", c)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "")
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.Save(Snapshot{LastPersonID: 1}); err != nil {
		t.Fatalf("noop store Save: %v", err)
	}
	if _, ok, _ := store.Load(); ok {
		t.Fatalf("noop store should never report a snapshot")
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", ""); err == nil {
		t.Fatalf("expected unsupported type error")
	}
	if _, err := NewStore("bbolt", " "); err == nil {
		t.Fatalf("expected missing path error")
	}
}
