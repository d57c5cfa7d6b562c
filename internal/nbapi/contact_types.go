package nbapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Adda-Baaj/nbdev/internal/domain"
	"gopkg.in/yaml.v3"
)

type contactTypesFile struct {
	ContactTypes []domain.ContactType `json:"contact_types" yaml:"contact_types"`
}

type unmarshalFn func([]byte, any) error

// LoadContactTypes reads mock contact types from a YAML or JSON file.
func LoadContactTypes(path string) ([]domain.ContactType, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("contact types file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open contact types file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read contact types file: %w", err)
	}

	parsed, err := parseContactTypes(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.ContactTypes) == 0 {
		return nil, errors.New("contact types file contains no contact_types entries")
	}

	seen := make(map[int]struct{}, len(parsed.ContactTypes))
	out := make([]domain.ContactType, 0, len(parsed.ContactTypes))
	for i, ct := range parsed.ContactTypes {
		ct.Name = strings.TrimSpace(ct.Name)
		if ct.ID <= 0 {
			return nil, fmt.Errorf("contact_types[%d]: id must be positive", i)
		}
		if ct.Name == "" {
			return nil, fmt.Errorf("contact_types[%d]: name is required", i)
		}
		if _, dup := seen[ct.ID]; dup {
			return nil, fmt.Errorf("duplicate contact type id %d", ct.ID)
		}
		seen[ct.ID] = struct{}{}
		out = append(out, ct)
	}
	return out, nil
}

func parseContactTypes(data []byte, ext string) (contactTypesFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var out contactTypesFile
		if err := d.fn(data, &out); err == nil {
			return out, nil
		}
	}

	return contactTypesFile{}, errors.New("contact types file format not recognized (expected YAML or JSON)")
}
