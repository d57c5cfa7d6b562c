// Package storage persists the mock client's state between runs.
package storage

import (
	"fmt"
	"strings"

	"github.com/Adda-Baaj/nbdev/internal/domain"
)

// Snapshot is the full mock state at a point in time.
type Snapshot struct {
	LastPersonID int              `json:"last_person_id"`
	People       []domain.Person  `json:"people"`
	Webhooks     []domain.Webhook `json:"webhooks"`
}

// Store loads and saves mock snapshots.
type Store interface {
	Close() error
	// Load returns the stored snapshot; ok is false when nothing was saved yet.
	Load() (snap Snapshot, ok bool, err error)
	Save(snap Snapshot) error
}

// NewStore creates the configured storage backend.
func NewStore(typ, path string) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "", "none", "memory", "disabled":
		return Noop(), nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

// Noop returns a Store that keeps nothing.
func Noop() Store { return noopStore{} }

type noopStore struct{}

func (noopStore) Close() error                  { return nil }
func (noopStore) Load() (Snapshot, bool, error) { return Snapshot{}, false, nil }
func (noopStore) Save(Snapshot) error           { return nil }
