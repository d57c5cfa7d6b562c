package activity

import (
	"context"
	"errors"
	"testing"

	"github.com/Adda-Baaj/nbdev/internal/domain"
	"github.com/Adda-Baaj/nbdev/internal/nbapi"
	"github.com/Adda-Baaj/nbdev/pkg/publishers"
)

type recordingDispatcher struct {
	events []publishers.Event
	err    error
}

func (r *recordingDispatcher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	r.events = append(r.events, evt)
	if r.err != nil {
		return 0, r.err
	}
	return 1, nil
}

func (r *recordingDispatcher) Size() int { return 1 }

func newWrapped(t *testing.T, out *recordingDispatcher) nbapi.Client {
	t.Helper()
	mock, err := nbapi.NewMock()
	if err != nil {
		t.Fatalf("NewMock: %v", err)
	}
	return Wrap(mock, out, nil)
}

func TestWrapWithoutSinksReturnsInner(t *testing.T) {
	mock, _ := nbapi.NewMock()
	if got := Wrap(mock, nil, nil); got != nbapi.Client(mock) {
		t.Fatalf("expected inner client, got %T", got)
	}
	if got := Wrap(mock, publishers.NewFanout(nil), nil); got != nbapi.Client(mock) {
		t.Fatalf("expected inner client for empty fanout, got %T", got)
	}
}

func TestMutationsEmitEvents(t *testing.T) {
	out := &recordingDispatcher{}
	client := newWrapped(t, out)
	ctx := context.Background()

	p, err := client.CreatePerson(ctx, domain.NewPerson{FirstName: "Ada"})
	if err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}
	note := "met at rally"
	if _, err := client.UpdatePerson(ctx, domain.PersonUpdate{ID: p.ID, Note: &note}); err != nil {
		t.Fatalf("UpdatePerson: %v", err)
	}
	if _, err := client.CreateContact(ctx, domain.NewContact{PersonID: p.ID, TypeID: 1}); err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	w, err := client.CreateWebhook(ctx, domain.NewWebhook{URL: "https://x", Event: "person_creation"})
	if err != nil {
		t.Fatalf("CreateWebhook: %v", err)
	}
	if err := client.DeletePerson(ctx, p.ID); err != nil {
		t.Fatalf("DeletePerson: %v", err)
	}
	if _, err := client.SamplePeople(ctx); err != nil {
		t.Fatalf("SamplePeople: %v", err)
	}

	want := []string{
		publishers.EventPersonCreated,
		publishers.EventPersonUpdated,
		publishers.EventContactCreated,
		publishers.EventWebhookCreated,
		publishers.EventPersonDeleted,
	}
	if len(out.events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(out.events))
	}
	for i, typ := range want {
		if out.events[i].Type != typ {
			t.Fatalf("event %d = %s, want %s", i, out.events[i].Type, typ)
		}
	}
	if out.events[0].ResourceID != "1" || out.events[3].ResourceID != w.ID {
		t.Fatalf("unexpected resource ids %q %q", out.events[0].ResourceID, out.events[3].ResourceID)
	}
}

func TestFailedMutationEmitsNothing(t *testing.T) {
	out := &recordingDispatcher{}
	client := newWrapped(t, out)

	err := client.DeletePerson(context.Background(), 42)
	if !errors.Is(err, nbapi.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(out.events) != 0 {
		t.Fatalf("expected no events, got %d", len(out.events))
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	out := &recordingDispatcher{err: errors.New("sink down")}
	client := newWrapped(t, out)

	p, err := client.CreatePerson(context.Background(), domain.NewPerson{FirstName: "Grace"})
	if err != nil {
		t.Fatalf("CreatePerson should succeed despite sink failure: %v", err)
	}
	if p.ID != 1 || len(out.events) != 1 {
		t.Fatalf("unexpected result %#v, events %d", p, len(out.events))
	}
}
