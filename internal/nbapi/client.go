// Package nbapi holds the NationBuilder client contract and its live and mock implementations.
package nbapi

import (
	"context"

	"github.com/Adda-Baaj/nbdev/internal/domain"
)

// Client is the set of NationBuilder operations the console relies on. Remote
// and Mock both satisfy it with identical shapes and error signaling: transport
// or remote status failures surface as *RequestFailedError, missing records in
// the mock as *NotFoundError.
type Client interface {
	// SamplePeople returns a small, unordered, non-paginated listing of people.
	SamplePeople(ctx context.Context) ([]domain.Person, error)
	// SampleWebhooks returns a small listing of configured webhooks.
	SampleWebhooks(ctx context.Context) ([]domain.Webhook, error)
	// SampleContactTypes returns every known contact type.
	SampleContactTypes(ctx context.Context) ([]domain.ContactType, error)

	CreatePerson(ctx context.Context, in domain.NewPerson) (domain.Person, error)
	UpdatePerson(ctx context.Context, in domain.PersonUpdate) (domain.Person, error)
	DeletePerson(ctx context.Context, id int) error
	// MatchPerson resolves the person registered with the given email.
	MatchPerson(ctx context.Context, email string) (domain.Person, error)

	CreateWebhook(ctx context.Context, in domain.NewWebhook) (domain.Webhook, error)
	CreateContact(ctx context.Context, in domain.NewContact) (domain.Contact, error)
}
