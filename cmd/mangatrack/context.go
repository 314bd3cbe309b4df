package main

import (
	"fmt"
	"log/slog"
	"sync"

	"mangatrack/internal/adapter"
	"mangatrack/internal/domain"
	"mangatrack/internal/library"
	"mangatrack/internal/provider"
	"mangatrack/internal/search"
	"mangatrack/internal/store"
	"mangatrack/internal/update"
)

// commandContext wires config, logger, store and services lazily so that
// commands which never touch the store (version, help) do not open it.
type commandContext struct {
	once    sync.Once
	initErr error

	cfg        *adapter.Config
	logger     *slog.Logger
	store      domain.Store
	library    *library.Service
	aggregator *search.Aggregator
	scheduler  *update.Scheduler
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) init() error {
	c.once.Do(func() {
		cfg, err := adapter.LoadConfig()
		if err != nil {
			c.initErr = fmt.Errorf("failed to load config: %w", err)
			return
		}
		c.cfg = cfg

		logger, err := adapter.SetupLogger(&cfg.Logging)
		if err != nil {
			// Fall back to null logger if file logging fails
			logger = adapter.NullLogger()
		}
		slog.SetDefault(logger)
		c.logger = logger

		st, err := store.Open(cfg, logger)
		if err != nil {
			c.initErr = err
			return
		}
		c.store = st

		providers := provider.New(provider.Config{
			JikanURL:    cfg.Providers.JikanURL,
			MangadexURL: cfg.Providers.MangadexURL,
			KitsuURL:    cfg.Providers.KitsuURL,
			AniListURL:  cfg.Providers.AniListURL,
		}, logger)

		c.aggregator = search.NewAggregator(providers, search.NewCache(), logger)
		c.library = library.NewService(st, logger)
		resolver := update.NewResolver(providers, logger)
		c.scheduler = update.NewScheduler(st, resolver, cfg.Account, logger)
	})
	return c.initErr
}

func (c *commandContext) close() {
	if c.store != nil {
		c.store.Close()
	}
}

func (c *commandContext) searchMode() search.Mode {
	if c.cfg != nil && c.cfg.Providers.Default != "" {
		return search.Mode(c.cfg.Providers.Default)
	}
	return search.ModeAuto
}
