package web

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/Adda-Baaj/nbdev/internal/nbapi"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

type menuLink struct {
	Name string
	URL  string
}

type errorPage struct {
	Title     string
	Message   string
	Kind      string
	ReturnURL string
}

// PrettyJSON renders v with sorted keys and a four space indent. The value is
// round-tripped through a generic map so struct field order does not leak.
func PrettyJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(generic, "", "    ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// statusFor maps client errors to the HTTP status of the error page.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, nbapi.ErrNotFound):
		return http.StatusNotFound, "NotFound"
	case errors.Is(err, nbapi.ErrRequestFailed):
		return http.StatusBadGateway, "RequestFailed"
	case errors.Is(err, errBadForm):
		return http.StatusBadRequest, "BadRequest"
	default:
		return http.StatusInternalServerError, ""
	}
}
