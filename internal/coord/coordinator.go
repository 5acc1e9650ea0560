// Package coord loads the catalog for the TUI and keeps it fresh in the background.
package coord

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/storefront/internal/logging"
	"github.com/abelbrown/storefront/internal/query"
	"github.com/abelbrown/storefront/internal/ui"
)

// DefaultRefreshInterval is the time between background refreshes. It matches
// the product stale time, so each refresh finds the cache stale.
const DefaultRefreshInterval = query.ProductsStaleTime

// loadTimeout bounds one catalog load, retries included.
const loadTimeout = 30 * time.Second

// loader is the query client surface the coordinator needs (testing).
type loader interface {
	LoadCatalog(ctx context.Context) (query.Catalog, error)
	Invalidate(keys ...string) error
}

// sender delivers messages to the running program. *tea.Program implements it.
type sender interface {
	Send(msg tea.Msg)
}

// Coordinator turns catalog loads into UI messages.
// Uses context cancellation as the ONLY stop mechanism.
type Coordinator struct {
	loader   loader
	interval time.Duration
	wg       sync.WaitGroup
}

// NewCoordinator creates a Coordinator over the query client.
// A non-positive interval selects DefaultRefreshInterval.
func NewCoordinator(q *query.Client, interval time.Duration) *Coordinator {
	return NewCoordinatorWithLoader(q, interval)
}

// NewCoordinatorWithLoader allows injecting a custom loader (for testing).
func NewCoordinatorWithLoader(l loader, interval time.Duration) *Coordinator {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Coordinator{loader: l, interval: interval}
}

// LoadCmd returns a Cmd performing the initial load.
func (c *Coordinator) LoadCmd(ctx context.Context) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			return c.load(ctx, false)
		}
	}
}

// RetryCmd returns a Cmd that drops the cached catalog and loads it again.
// Manual retry and refresh both use it.
func (c *Coordinator) RetryCmd(ctx context.Context) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			if err := c.loader.Invalidate(query.KeyProducts, query.KeyCategories); err != nil {
				logging.Warn("coord: invalidate failed", "err", err)
			}
			return c.load(ctx, false)
		}
	}
}

// Start begins background refreshing. Call with a cancellable context.
// Only successful refreshes are delivered; failures are logged and the
// catalog on screen is kept.
func (c *Coordinator) Start(ctx context.Context, program sender) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.refresh(ctx, program)
			}
		}
	}()
}

// Wait blocks until the background goroutine exits.
// Call after canceling the context passed to Start.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) refresh(ctx context.Context, program sender) {
	msg := c.load(ctx, true)
	if msg.Err != nil {
		if ctx.Err() == nil {
			logging.Warn("coord: background refresh failed", "err", msg.Err)
		}
		return
	}
	if program != nil {
		program.Send(msg)
	}
}

// load fetches the catalog with a timeout and wraps the result as a message.
func (c *Coordinator) load(ctx context.Context, refresh bool) ui.CatalogLoaded {
	loadCtx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	start := time.Now()
	cat, err := c.loader.LoadCatalog(loadCtx)
	if err != nil {
		logging.Error("coord: catalog load failed", "err", err, "refresh", refresh)
		return ui.CatalogLoaded{Refresh: refresh, Err: err}
	}
	logging.Debug("coord: catalog loaded", "products", len(cat.Products), "categories", len(cat.Categories), "took", time.Since(start))
	return ui.CatalogLoaded{
		Products:   cat.Products,
		Categories: cat.Categories,
		LoadedAt:   cat.LoadedAt,
		Refresh:    refresh,
	}
}
