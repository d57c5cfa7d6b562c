// Package activity emits downstream events for successful NationBuilder mutations.
package activity

import (
	"context"
	"strconv"

	"github.com/Adda-Baaj/nbdev/internal/domain"
	"github.com/Adda-Baaj/nbdev/internal/logger"
	"github.com/Adda-Baaj/nbdev/internal/nbapi"
	"github.com/Adda-Baaj/nbdev/pkg/publishers"
)

// Dispatcher delivers one event to its sinks; *publishers.Fanout implements it.
type Dispatcher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
	Size() int
}

// Client decorates an nbapi.Client. Reads pass straight through; each
// successful mutation is followed by an event.
type Client struct {
	nbapi.Client
	out Dispatcher
	log logger.Logger
}

// Wrap returns inner unchanged when there is nowhere to publish.
func Wrap(inner nbapi.Client, out Dispatcher, log logger.Logger) nbapi.Client {
	if out == nil || out.Size() == 0 {
		return inner
	}
	return &Client{Client: inner, out: out, log: logger.Ensure(log)}
}

func (c *Client) CreatePerson(ctx context.Context, in domain.NewPerson) (domain.Person, error) {
	p, err := c.Client.CreatePerson(ctx, in)
	if err == nil {
		c.emit(ctx, publishers.EventPersonCreated, strconv.Itoa(p.ID), p)
	}
	return p, err
}

func (c *Client) UpdatePerson(ctx context.Context, in domain.PersonUpdate) (domain.Person, error) {
	p, err := c.Client.UpdatePerson(ctx, in)
	if err == nil {
		c.emit(ctx, publishers.EventPersonUpdated, strconv.Itoa(p.ID), p)
	}
	return p, err
}

func (c *Client) DeletePerson(ctx context.Context, id int) error {
	err := c.Client.DeletePerson(ctx, id)
	if err == nil {
		c.emit(ctx, publishers.EventPersonDeleted, strconv.Itoa(id), nil)
	}
	return err
}

func (c *Client) CreateWebhook(ctx context.Context, in domain.NewWebhook) (domain.Webhook, error) {
	w, err := c.Client.CreateWebhook(ctx, in)
	if err == nil {
		c.emit(ctx, publishers.EventWebhookCreated, w.ID, w)
	}
	return w, err
}

func (c *Client) CreateContact(ctx context.Context, in domain.NewContact) (domain.Contact, error) {
	ct, err := c.Client.CreateContact(ctx, in)
	if err == nil {
		c.emit(ctx, publishers.EventContactCreated, strconv.Itoa(ct.PersonID), ct)
	}
	return ct, err
}

// emit never fails the caller; the mutation has already happened.
func (c *Client) emit(ctx context.Context, typ, resourceID string, payload any) {
	evt := publishers.NewEvent(typ, resourceID, payload)
	delivered, err := c.out.Publish(ctx, evt)
	if err != nil {
		c.log.WarnObj("activity publish failed", "activity_error", map[string]any{
			"event_id":   evt.ID,
			"event_type": typ,
			"delivered":  delivered,
			"error":      err.Error(),
		})
		return
	}
	c.log.DebugObj("activity published", "activity_event", map[string]any{
		"event_id":   evt.ID,
		"event_type": typ,
		"delivered":  delivered,
	})
}
