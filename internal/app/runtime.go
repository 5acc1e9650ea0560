// Package app assembles the storefront runtime from configuration: event
// log, query cache storage, API client and the caching query client. Every
// command builds on it so they share one cache and one event stream.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/abelbrown/storefront/internal/config"
	"github.com/abelbrown/storefront/internal/fetch"
	"github.com/abelbrown/storefront/internal/logging"
	"github.com/abelbrown/storefront/internal/otel"
	"github.com/abelbrown/storefront/internal/query"
	"github.com/abelbrown/storefront/internal/store"
)

// rateBurst is the number of requests allowed back to back.
const rateBurst = 4

// Runtime holds the long-lived dependencies of one process.
type Runtime struct {
	Config *config.Config
	Events *otel.Logger
	Ring   *otel.RingBuffer
	Store  *store.Store // nil when the cache is not persisted
	Fetch  *fetch.Client
	Query  *query.Client

	eventFile *os.File
}

// Open builds a Runtime. Close releases it.
func Open(cfg *config.Config) (*Runtime, error) {
	rt := &Runtime{Config: cfg}

	if err := rt.openEvents(cfg.Log.Events); err != nil {
		return nil, err
	}

	if cfg.Cache.Path != "" {
		if cfg.Cache.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Cache.Path), 0755); err != nil {
				rt.Close()
				return nil, fmt.Errorf("failed to create cache directory: %w", err)
			}
		}
		st, err := store.Open(cfg.Cache.Path)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		rt.Store = st
	}

	rt.Fetch = fetch.NewClient(cfg.API.BaseURL, cfg.Timeout()).WithLogger(rt.Events)
	if cfg.API.RequestsPerSecond > 0 {
		rt.Fetch = rt.Fetch.WithRateLimit(rate.Limit(cfg.API.RequestsPerSecond), rateBurst)
	}

	rt.Query = query.New(rt.Fetch, rt.Store, query.Options{
		ProductsStale:   cfg.ProductsStale(),
		CategoriesStale: cfg.CategoriesStale(),
		Retries:         retries(cfg.Cache.Retries),
		Offline:         cfg.Cache.Offline,
		Logger:          rt.Events,
	})

	logging.Info("runtime ready",
		"api", rt.Fetch.BaseURL(),
		"cache", cfg.Cache.Path,
		"offline", cfg.Cache.Offline,
		"session", rt.Events.SessionID(),
	)
	return rt, nil
}

// openEvents starts the JSONL event logger. An empty path discards events
// but still feeds the ring buffer.
func (rt *Runtime) openEvents(path string) error {
	rt.Ring = otel.NewRingBuffer(otel.DefaultRingSize)
	if path == "" {
		rt.Events = otel.NewNullLogger()
		rt.Events.SetRingBuffer(rt.Ring)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create event log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}
	rt.eventFile = f
	rt.Events = otel.NewLogger(f)
	rt.Events.SetRingBuffer(rt.Ring)
	return nil
}

// Close flushes events and closes the cache. Safe to call on a partially
// opened Runtime.
func (rt *Runtime) Close() {
	if rt.Events != nil {
		rt.Events.Info(otel.KindShutdown, "app", "")
		rt.Events.Close()
	}
	if rt.eventFile != nil {
		rt.eventFile.Close()
		rt.eventFile = nil
	}
	if rt.Store != nil {
		if err := rt.Store.Close(); err != nil {
			logging.Warn("failed to close cache", "error", err)
		}
		rt.Store = nil
	}
}

// retries maps cache.retries onto query.Options.Retries. A config value of 0
// disables retries and becomes -1, since query treats 0 as its default.
// Positive counts pass through.
func retries(n int) int {
	if n == 0 {
		return -1
	}
	return n
}
