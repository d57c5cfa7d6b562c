package nbapi

import (
	"fmt"
	"strings"

	"github.com/Adda-Baaj/nbdev/internal/config"
	"github.com/Adda-Baaj/nbdev/internal/logger"
	"github.com/Adda-Baaj/nbdev/internal/storage"
)

// Open builds the Client selected by cfg. The returned close function releases
// whatever the implementation holds and is always non-nil on success.
func Open(cfg *config.Config, log logger.Logger) (Client, func() error, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	if !cfg.Mock {
		remote, err := NewRemote(RemoteOptions{
			Nation:       cfg.Nation,
			APIKey:       cfg.APIKey,
			Scheme:       cfg.ProviderScheme,
			ProviderHost: cfg.ProviderHost,
			SampleLimit:  cfg.SampleLimit,
			Timeout:      cfg.HTTPTimeout,
		}, nil, log)
		if err != nil {
			return nil, nil, fmt.Errorf("init remote client: %w", err)
		}
		log.InfoObj("nationbuilder client initialized", "client_config", map[string]any{
			"mode":         "remote",
			"base_url":     remote.BaseURL(),
			"sample_limit": cfg.SampleLimit,
			"timeout":      cfg.HTTPTimeout.String(),
		})
		return remote, func() error { return nil }, nil
	}

	opts := []MockOption{WithLogger(log)}
	if path := strings.TrimSpace(cfg.ContactTypesFile); path != "" {
		types, err := LoadContactTypes(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load contact types: %w", err)
		}
		opts = append(opts, WithContactTypes(types))
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	opts = append(opts, WithStore(store))

	mock, err := NewMock(opts...)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("init mock client: %w", err)
	}
	log.InfoObj("nationbuilder client initialized", "client_config", map[string]any{
		"mode":         "mock",
		"storage_type": cfg.StorageType,
		"bbolt_path":   cfg.BBoltPath,
	})
	return mock, mock.Close, nil
}
