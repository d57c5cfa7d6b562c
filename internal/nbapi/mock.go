package nbapi

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Adda-Baaj/nbdev/internal/domain"
	"github.com/Adda-Baaj/nbdev/internal/logger"
	"github.com/Adda-Baaj/nbdev/internal/storage"
	"github.com/google/uuid"
)

// DefaultContactTypes are served by the mock when no override is configured.
var DefaultContactTypes = []domain.ContactType{
	{ID: 1, Name: "Initial outreach"},
	{ID: 2, Name: "Final outreach"},
}

// Mock implements Client with process-local state. It simulates NationBuilder's
// id assignment and rejects references to people it does not hold.
type Mock struct {
	mu           sync.Mutex
	people       map[int]*domain.Person
	lastPersonID int
	webhooks     map[string]*domain.Webhook
	contactTypes []domain.ContactType

	store storage.Store
	now   func() time.Time
	newID func() string
	log   logger.Logger
}

// MockOption customizes a Mock.
type MockOption func(*Mock)

// WithClock replaces the time source used to stamp contacts.
func WithClock(now func() time.Time) MockOption {
	return func(m *Mock) {
		if now != nil {
			m.now = now
		}
	}
}

// WithWebhookIDs replaces the webhook id generator.
func WithWebhookIDs(gen func() string) MockOption {
	return func(m *Mock) {
		if gen != nil {
			m.newID = gen
		}
	}
}

// WithContactTypes overrides the reference contact types.
func WithContactTypes(types []domain.ContactType) MockOption {
	return func(m *Mock) {
		if len(types) > 0 {
			m.contactTypes = append([]domain.ContactType(nil), types...)
		}
	}
}

// WithStore persists state to store after every mutation and restores it on construction.
func WithStore(store storage.Store) MockOption {
	return func(m *Mock) {
		if store != nil {
			m.store = store
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) MockOption {
	return func(m *Mock) { m.log = logger.Ensure(log) }
}

// NewMock builds an empty mock, or one restored from the configured store.
func NewMock(opts ...MockOption) (*Mock, error) {
	m := &Mock{
		people:       make(map[int]*domain.Person),
		webhooks:     make(map[string]*domain.Webhook),
		contactTypes: append([]domain.ContactType(nil), DefaultContactTypes...),
		store:        storage.Noop(),
		now:          time.Now,
		newID:        func() string { return uuid.NewString() },
		log:          logger.NopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}

	snap, ok, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	if ok {
		m.restore(snap)
	}
	return m, nil
}

// Close releases the backing store.
func (m *Mock) Close() error {
	return m.store.Close()
}

func (m *Mock) SamplePeople(context.Context) ([]domain.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Person, 0, len(m.people))
	for _, p := range m.people {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	observeMock("sample_people", nil)
	return out, nil
}

func (m *Mock) SampleWebhooks(context.Context) ([]domain.Webhook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Webhook, 0, len(m.webhooks))
	for _, w := range m.webhooks {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	observeMock("sample_webhooks", nil)
	return out, nil
}

func (m *Mock) SampleContactTypes(context.Context) ([]domain.ContactType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	observeMock("sample_contact_types", nil)
	return append([]domain.ContactType(nil), m.contactTypes...), nil
}

func (m *Mock) CreatePerson(_ context.Context, in domain.NewPerson) (domain.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastPersonID++
	p := &domain.Person{
		ID:         m.lastPersonID,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Contacts:   map[int]domain.Contact{},
		LastCallID: domain.NoCall,
	}
	m.people[p.ID] = p
	m.persistLocked()
	observeMock("create_person", nil)
	return p.Clone(), nil
}

func (m *Mock) UpdatePerson(_ context.Context, in domain.PersonUpdate) (domain.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.people[in.ID]
	if !ok {
		err := personNotFound(in.ID)
		observeMock("update_person", err)
		return domain.Person{}, err
	}
	if in.Note != nil {
		note := *in.Note
		p.Note = &note
	}
	m.persistLocked()
	observeMock("update_person", nil)
	return p.Clone(), nil
}

func (m *Mock) DeletePerson(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.people[id]; !ok {
		err := personNotFound(id)
		observeMock("delete_person", err)
		return err
	}
	delete(m.people, id)
	m.persistLocked()
	observeMock("delete_person", nil)
	return nil
}

// MatchPerson returns the lowest-id person whose email matches, ignoring case.
func (m *Mock) MatchPerson(_ context.Context, email string) (domain.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = strings.TrimSpace(email)
	var match *domain.Person
	for _, p := range m.people {
		if !strings.EqualFold(p.Email, email) {
			continue
		}
		if match == nil || p.ID < match.ID {
			match = p
		}
	}
	if match == nil {
		err := &NotFoundError{Resource: "person email", ID: email}
		observeMock("match_person", err)
		return domain.Person{}, err
	}
	observeMock("match_person", nil)
	return match.Clone(), nil
}

func (m *Mock) CreateWebhook(_ context.Context, in domain.NewWebhook) (domain.Webhook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := &domain.Webhook{
		ID:      m.newID(),
		Version: domain.WebhookVersion,
		URL:     in.URL,
		Event:   in.Event,
	}
	m.webhooks[w.ID] = w
	m.persistLocked()
	observeMock("create_webhook", nil)
	return *w, nil
}

func (m *Mock) CreateContact(_ context.Context, in domain.NewContact) (domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.people[in.PersonID]
	if !ok {
		err := personNotFound(in.PersonID)
		observeMock("create_contact", err)
		return domain.Contact{}, err
	}

	c := domain.Contact{
		PersonID:  in.PersonID,
		TypeID:    in.TypeID,
		ContactID: p.LastCallID + 1,
		CreatedAt: domain.FormatTimestamp(m.now()),
	}
	if p.Contacts == nil {
		p.Contacts = map[int]domain.Contact{}
	}
	p.Contacts[c.ContactID] = c
	p.LastCallID = c.ContactID
	ts := c.CreatedAt
	p.LastContactedAt = &ts

	m.persistLocked()
	observeMock("create_contact", nil)
	return c, nil
}

// persistLocked saves a snapshot; m.mu must be held. A failed save is logged
// and the in-memory state stays authoritative.
func (m *Mock) persistLocked() {
	if err := m.store.Save(m.snapshotLocked()); err != nil {
		m.log.WarnObj("mock state persist failed", "storage_error", err.Error())
	}
}

func (m *Mock) snapshotLocked() storage.Snapshot {
	snap := storage.Snapshot{
		LastPersonID: m.lastPersonID,
		People:       make([]domain.Person, 0, len(m.people)),
		Webhooks:     make([]domain.Webhook, 0, len(m.webhooks)),
	}
	for _, p := range m.people {
		snap.People = append(snap.People, p.Clone())
	}
	for _, w := range m.webhooks {
		snap.Webhooks = append(snap.Webhooks, *w)
	}
	return snap
}

func (m *Mock) restore(snap storage.Snapshot) {
	m.lastPersonID = snap.LastPersonID
	for _, p := range snap.People {
		cp := p.Clone()
		m.people[cp.ID] = &cp
		if cp.ID > m.lastPersonID {
			m.lastPersonID = cp.ID
		}
	}
	for _, w := range snap.Webhooks {
		cp := w
		m.webhooks[cp.ID] = &cp
	}
}
