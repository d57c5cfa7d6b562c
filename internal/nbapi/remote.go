package nbapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Adda-Baaj/nbdev/internal/domain"
	"github.com/Adda-Baaj/nbdev/internal/logger"
	"github.com/Adda-Baaj/nbdev/pkg/httpclient"
)

const (
	defaultScheme       = "https"
	defaultProviderHost = "nationbuilder.com"
	defaultSampleLimit  = 10
	defaultTimeout      = 15 * time.Second
	maxSnippetBytes     = 512
)

// RemoteOptions configures a Remote client.
type RemoteOptions struct {
	Nation       string
	APIKey       string
	Scheme       string
	ProviderHost string
	SampleLimit  int
	Timeout      time.Duration
	// BaseURL, when set, replaces the URL derived from Scheme, Nation and ProviderHost.
	BaseURL string
}

// Remote implements Client by calling the NationBuilder v1 REST API.
type Remote struct {
	baseURL     string
	token       string
	sampleLimit int
	http        httpclient.Client
	log         logger.Logger
}

// NewRemote builds a live client. A nil http client gets a resty client with opts.Timeout.
func NewRemote(opts RemoteOptions, client httpclient.Client, log logger.Logger) (*Remote, error) {
	nation := strings.TrimSpace(opts.Nation)
	token := strings.TrimSpace(opts.APIKey)
	if nation == "" {
		return nil, errors.New("nation slug is required")
	}
	if token == "" {
		return nil, errors.New("api key is required")
	}

	scheme := strings.TrimSpace(opts.Scheme)
	if scheme == "" {
		scheme = defaultScheme
	}
	host := strings.Trim(strings.TrimSpace(opts.ProviderHost), "/")
	if host == "" {
		host = defaultProviderHost
	}
	limit := opts.SampleLimit
	if limit <= 0 {
		limit = defaultSampleLimit
	}
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = httpclient.NewRestyClient(timeout)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("%s://%s.%s/api/v1", scheme, nation, host)
	}

	return &Remote{
		baseURL:     baseURL,
		token:       token,
		sampleLimit: limit,
		http:        client,
		log:         logger.Ensure(log),
	}, nil
}

// BaseURL returns the API root requests are issued against.
func (r *Remote) BaseURL() string { return r.baseURL }

type personEnvelope struct {
	Person domain.Person `json:"person"`
}

type webhookEnvelope struct {
	Webhook domain.Webhook `json:"webhook"`
}

type contactEnvelope struct {
	Contact domain.Contact `json:"contact"`
}

type resultsEnvelope[T any] struct {
	Results []T `json:"results"`
}

// webhookRequest is the wire body for webhook creation; the version is fixed.
type webhookRequest struct {
	Version int    `json:"version"`
	URL     string `json:"url"`
	Event   string `json:"event"`
}

func (r *Remote) SamplePeople(ctx context.Context) ([]domain.Person, error) {
	var out resultsEnvelope[domain.Person]
	if err := r.call(ctx, "people", http.MethodGet, "/people", r.limitQuery(), nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (r *Remote) SampleWebhooks(ctx context.Context) ([]domain.Webhook, error) {
	var out resultsEnvelope[domain.Webhook]
	if err := r.call(ctx, "webhooks", http.MethodGet, "/webhooks", r.limitQuery(), nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (r *Remote) SampleContactTypes(ctx context.Context) ([]domain.ContactType, error) {
	var out resultsEnvelope[domain.ContactType]
	if err := r.call(ctx, "contact_types", http.MethodGet, "/settings/contact_types", r.limitQuery(), nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (r *Remote) CreatePerson(ctx context.Context, in domain.NewPerson) (domain.Person, error) {
	var out personEnvelope
	body := map[string]any{"person": in}
	if err := r.call(ctx, "people", http.MethodPost, "/people", nil, body, &out); err != nil {
		return domain.Person{}, err
	}
	return out.Person, nil
}

func (r *Remote) UpdatePerson(ctx context.Context, in domain.PersonUpdate) (domain.Person, error) {
	var out personEnvelope
	body := map[string]any{"person": in}
	path := "/people/" + strconv.Itoa(in.ID)
	if err := r.call(ctx, "people", http.MethodPut, path, nil, body, &out); err != nil {
		return domain.Person{}, err
	}
	return out.Person, nil
}

func (r *Remote) DeletePerson(ctx context.Context, id int) error {
	return r.call(ctx, "people", http.MethodDelete, "/people/"+strconv.Itoa(id), nil, nil, nil)
}

func (r *Remote) MatchPerson(ctx context.Context, email string) (domain.Person, error) {
	var out personEnvelope
	query := map[string]string{"email": strings.TrimSpace(email)}
	if err := r.call(ctx, "people", http.MethodGet, "/people/match", query, nil, &out); err != nil {
		return domain.Person{}, err
	}
	return out.Person, nil
}

func (r *Remote) CreateWebhook(ctx context.Context, in domain.NewWebhook) (domain.Webhook, error) {
	var out webhookEnvelope
	body := map[string]any{"webhook": webhookRequest{
		Version: domain.WebhookVersion,
		URL:     in.URL,
		Event:   in.Event,
	}}
	if err := r.call(ctx, "webhooks", http.MethodPost, "/webhooks", nil, body, &out); err != nil {
		return domain.Webhook{}, err
	}
	return out.Webhook, nil
}

func (r *Remote) CreateContact(ctx context.Context, in domain.NewContact) (domain.Contact, error) {
	var out contactEnvelope
	body := map[string]any{"contact": in}
	path := fmt.Sprintf("/people/%d/contacts", in.PersonID)
	if err := r.call(ctx, "contacts", http.MethodPost, path, nil, body, &out); err != nil {
		return domain.Contact{}, err
	}
	return out.Contact, nil
}

func (r *Remote) limitQuery() map[string]string {
	return map[string]string{"limit": strconv.Itoa(r.sampleLimit)}
}

// call issues one request and decodes the response into out when out is non-nil.
// Anything outside [200, 300) is a failure regardless of method.
func (r *Remote) call(ctx context.Context, resource, method, path string, query map[string]string, body, out any) error {
	params := map[string]string{"access_token": r.token}
	for k, v := range query {
		params[k] = v
	}

	resp, err := r.http.Do(ctx, httpclient.Request{
		Method: method,
		URL:    r.baseURL + path,
		Query:  params,
		Body:   body,
	})
	if err != nil {
		remoteRequestsTotal.WithLabelValues(method, resource, outcomeError).Inc()
		r.log.WarnObj("nationbuilder request failed", "remote_error", map[string]any{
			"method": method,
			"path":   path,
			"error":  err.Error(),
		})
		return &RequestFailedError{Method: method, Path: path, Message: err.Error()}
	}

	status := resp.StatusCode()
	r.log.DebugObj("nationbuilder request completed", "remote_call", map[string]any{
		"method": method,
		"path":   path,
		"status": status,
	})
	if status < 200 || status >= 300 {
		remoteRequestsTotal.WithLabelValues(method, resource, outcomeStatus).Inc()
		return &RequestFailedError{Method: method, Path: path, Status: status, Message: bodySnippet(resp.Body())}
	}
	remoteRequestsTotal.WithLabelValues(method, resource, outcomeOK).Inc()

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &RequestFailedError{Method: method, Path: path, Status: status, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "<empty>"
	}
	if len(s) > maxSnippetBytes {
		return s[:maxSnippetBytes] + "..."
	}
	return s
}
