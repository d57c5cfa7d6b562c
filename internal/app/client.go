package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/nbdev/internal/activity"
	"github.com/Adda-Baaj/nbdev/internal/config"
	"github.com/Adda-Baaj/nbdev/internal/logger"
	"github.com/Adda-Baaj/nbdev/internal/nbapi"
	"github.com/Adda-Baaj/nbdev/pkg/publishers"
)

// OpenClient builds the configured NationBuilder client, wrapped with activity
// publishing when a publishers file is set. The close function releases the
// client and every publisher.
func OpenClient(ctx context.Context, cfg *config.Config, log logger.Logger) (nbapi.Client, func() error, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("config must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	log = logger.Ensure(log)

	client, closeClient, err := nbapi.Open(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	fanout, err := loadFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, nil, errors.Join(err, closeClient())
	}

	closeAll := func() error {
		return errors.Join(fanout.Close(), closeClient())
	}
	return activity.Wrap(client, fanout, log), closeAll, nil
}

// loadFanout returns an empty fanout when no publishers file is configured.
func loadFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})
	return publishers.NewFanout(pubClients), nil
}
