// Package web serves the HTML front-end over an nbapi.Client.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Adda-Baaj/nbdev/internal/domain"
	"github.com/Adda-Baaj/nbdev/internal/logger"
	"github.com/Adda-Baaj/nbdev/internal/nbapi"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var errBadForm = errors.New("bad form input")

type handlers struct {
	client nbapi.Client
	log    logger.Logger
}

// NewRouter builds the gin engine serving every page, /healthz and /metrics.
func NewRouter(client nbapi.Client, log logger.Logger) (*gin.Engine, error) {
	if client == nil {
		return nil, fmt.Errorf("nationbuilder client must not be nil")
	}
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	h := &handlers{client: client, log: logger.Ensure(log)}

	router := gin.New()
	router.Use(gin.Recovery(), accessLog(h.log))
	router.SetHTMLTemplate(tmpl)

	router.GET("/", h.root)
	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	people := router.Group("/people")
	people.GET("/", h.peopleBase)
	people.POST("/create/", h.peopleCreate)
	people.POST("/update/", h.peopleUpdate)
	people.POST("/delete/", h.peopleDelete)

	webhooks := router.Group("/webhooks")
	webhooks.GET("/", h.webhooksBase)
	webhooks.POST("/create/", h.webhooksCreate)

	contact := router.Group("/contact")
	contact.GET("/", h.contactBase)
	contact.POST("/create/", h.contactCreate)

	return router, nil
}

func accessLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.InfoObj("http request", "http_request", map[string]any{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
	}
}

func (h *handlers) root(c *gin.Context) {
	c.HTML(http.StatusOK, "root.html", gin.H{
		"Title": "NationBuilder demo",
		"Links": []menuLink{
			{Name: "People", URL: "/people/"},
			{Name: "Webhooks", URL: "/webhooks/"},
			{Name: "Contact", URL: "/contact/"},
		},
	})
}

func (h *handlers) peopleBase(c *gin.Context) {
	people, err := h.client.SamplePeople(c.Request.Context())
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	c.HTML(http.StatusOK, "people.html", gin.H{"Title": "People", "People": people})
}

func (h *handlers) peopleCreate(c *gin.Context) {
	person, err := h.client.CreatePerson(c.Request.Context(), domain.NewPerson{
		FirstName: strings.TrimSpace(c.PostForm("first")),
		LastName:  strings.TrimSpace(c.PostForm("last")),
		Email:     strings.TrimSpace(c.PostForm("email")),
	})
	if err != nil {
		h.fail(c, err, "/people/")
		return
	}
	h.result(c, "person.html", "Person created", "Person", person, "/people/")
}

func (h *handlers) peopleUpdate(c *gin.Context) {
	id, err := formInt(c, "id")
	if err != nil {
		h.fail(c, err, "/people/")
		return
	}
	note := c.PostForm("note")
	person, err := h.client.UpdatePerson(c.Request.Context(), domain.PersonUpdate{ID: id, Note: &note})
	if err != nil {
		h.fail(c, err, "/people/")
		return
	}
	h.result(c, "person.html", "Person updated", "Person", person, "/people/")
}

func (h *handlers) peopleDelete(c *gin.Context) {
	id, err := formInt(c, "id")
	if err != nil {
		h.fail(c, err, "/people/")
		return
	}
	if err := h.client.DeletePerson(c.Request.Context(), id); err != nil {
		h.fail(c, err, "/people/")
		return
	}
	c.Redirect(http.StatusSeeOther, "/people/")
}

func (h *handlers) webhooksBase(c *gin.Context) {
	hooks, err := h.client.SampleWebhooks(c.Request.Context())
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	c.HTML(http.StatusOK, "webhooks.html", gin.H{"Title": "Webhooks", "Webhooks": hooks})
}

func (h *handlers) webhooksCreate(c *gin.Context) {
	hook, err := h.client.CreateWebhook(c.Request.Context(), domain.NewWebhook{
		URL:   strings.TrimSpace(c.PostForm("url")),
		Event: strings.TrimSpace(c.PostForm("event")),
	})
	if err != nil {
		h.fail(c, err, "/webhooks/")
		return
	}
	h.result(c, "webhook.html", "Webhook created", "Webhook", hook, "/webhooks/")
}

func (h *handlers) contactBase(c *gin.Context) {
	ctx := c.Request.Context()
	people, err := h.client.SamplePeople(ctx)
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	types, err := h.client.SampleContactTypes(ctx)
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	c.HTML(http.StatusOK, "contact.html", gin.H{"Title": "Record a contact", "People": people, "Types": types})
}

// contactCreate takes a person_id, or an email resolved through MatchPerson.
func (h *handlers) contactCreate(c *gin.Context) {
	ctx := c.Request.Context()
	typeID, err := formInt(c, "type_id")
	if err != nil {
		h.fail(c, err, "/contact/")
		return
	}

	var personID int
	if strings.TrimSpace(c.PostForm("person_id")) != "" {
		if personID, err = formInt(c, "person_id"); err != nil {
			h.fail(c, err, "/contact/")
			return
		}
	} else {
		email := strings.TrimSpace(c.PostForm("email"))
		if email == "" {
			h.fail(c, fmt.Errorf("%w: person_id or email is required", errBadForm), "/contact/")
			return
		}
		person, err := h.client.MatchPerson(ctx, email)
		if err != nil {
			h.fail(c, err, "/contact/")
			return
		}
		personID = person.ID
	}

	contact, err := h.client.CreateContact(ctx, domain.NewContact{PersonID: personID, TypeID: typeID})
	if err != nil {
		h.fail(c, err, "/contact/")
		return
	}
	h.result(c, "contact_result.html", "Contact recorded", "Contact", contact, "/contact/")
}

func (h *handlers) result(c *gin.Context, name, title, key string, v any, returnURL string) {
	pretty, err := PrettyJSON(v)
	if err != nil {
		h.fail(c, fmt.Errorf("render result: %w", err), returnURL)
		return
	}
	c.HTML(http.StatusOK, name, gin.H{"Title": title, key: v, "PrettyJSON": pretty})
}

func (h *handlers) fail(c *gin.Context, err error, returnURL string) {
	status, kind := statusFor(err)
	h.log.WarnObj("request failed", "web_error", map[string]any{
		"path":   c.Request.URL.Path,
		"status": status,
		"error":  err.Error(),
	})
	c.HTML(status, "error.html", errorPage{
		Title:     "Something went wrong",
		Message:   err.Error(),
		Kind:      kind,
		ReturnURL: returnURL,
	})
}

func formInt(c *gin.Context, field string) (int, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", errBadForm, field, raw)
	}
	return n, nil
}
