// Package query caches catalog fetches with per-key stale times and retries
// transient failures before surfacing them.
//
// Fresh entries are served from memory, then from the SQLite store, so a
// restart within a payload's stale window does not refetch it. Concurrent
// requests for the same key share one fetch.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/abelbrown/storefront/internal/fetch"
	"github.com/abelbrown/storefront/internal/model"
	"github.com/abelbrown/storefront/internal/otel"
	"github.com/abelbrown/storefront/internal/store"
)

// Default stale times and retry policy.
const (
	ProductsStaleTime   = 5 * time.Minute
	CategoriesStaleTime = 10 * time.Minute
	DefaultRetries      = 2
	DefaultRetryDelay   = time.Second
	maxRetryDelay       = 30 * time.Second

	// sharedFetchTimeout bounds one shared fetch, retries included.
	sharedFetchTimeout = time.Minute
)

// Cache keys.
const (
	KeyProducts   = "products"
	KeyCategories = "categories"
)

// KeyCategory is the cache key for one category's product list.
func KeyCategory(c string) string {
	return "products/category/" + c
}

// ErrOffline is returned in offline mode when nothing is cached for a key.
var ErrOffline = errors.New("offline: no cached data")

// Fetcher is the upstream the client reads through. *fetch.Client implements it.
type Fetcher interface {
	Products(ctx context.Context) ([]model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
	ProductsByCategory(ctx context.Context, category string) ([]model.Product, error)
}

// Options tunes caching and retries. Zero values select the defaults.
type Options struct {
	ProductsStale   time.Duration
	CategoriesStale time.Duration
	Retries         int // retries after the first attempt; negative disables
	RetryDelay      time.Duration

	// Offline serves cached entries regardless of age and never fetches.
	Offline bool

	Logger *otel.Logger
}

type entry struct {
	payload   []byte
	fetchedAt time.Time
}

// Client is the read-through cache in front of a Fetcher.
// Thread-safety: all methods are safe for concurrent use.
type Client struct {
	fetcher Fetcher
	store   *store.Store // optional persistence; nil keeps the cache in memory only
	opts    Options
	logger  *otel.Logger

	mu     sync.Mutex
	mem    map[string]entry
	flight singleflight.Group

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Client. st may be nil.
func New(f Fetcher, st *store.Store, opts Options) *Client {
	if opts.ProductsStale <= 0 {
		opts.ProductsStale = ProductsStaleTime
	}
	if opts.CategoriesStale <= 0 {
		opts.CategoriesStale = CategoriesStaleTime
	}
	if opts.Retries == 0 {
		opts.Retries = DefaultRetries
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = otel.NewNullLogger()
	}
	return &Client{
		fetcher: f,
		store:   st,
		opts:    opts,
		logger:  logger,
		mem:     make(map[string]entry),
		now:     time.Now,
		sleep:   sleepCtx,
	}
}

// Products returns the full product list.
func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	return cached(ctx, c, KeyProducts, c.opts.ProductsStale, c.fetcher.Products)
}

// Categories returns the category labels.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	return cached(ctx, c, KeyCategories, c.opts.CategoriesStale, c.fetcher.Categories)
}

// ProductsByCategory returns one category's products.
func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	return cached(ctx, c, KeyCategory(category), c.opts.ProductsStale, func(ctx context.Context) ([]model.Product, error) {
		return c.fetcher.ProductsByCategory(ctx, category)
	})
}

// Invalidate drops the given keys, or every key when none are given, so the
// next read fetches. Used by manual retry and refresh.
func (c *Client) Invalidate(keys ...string) error {
	c.mu.Lock()
	if len(keys) == 0 {
		c.mem = make(map[string]entry)
	} else {
		for _, k := range keys {
			delete(c.mem, k)
		}
	}
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	if len(keys) == 0 {
		_, err := c.store.Purge()
		return err
	}
	for _, k := range keys {
		if err := c.store.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// FetchedAt reports when key was last fetched, if it is cached.
func (c *Client) FetchedAt(key string) (time.Time, bool) {
	e, ok := c.lookup(key)
	return e.fetchedAt, ok
}

// cached serves key from the cache when fresh and otherwise fetches it,
// retrying transient failures.
func cached[T any](ctx context.Context, c *Client, key string, stale time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if e, ok := c.lookup(key); ok {
		age := c.now().Sub(e.fetchedAt)
		if c.opts.Offline || age < stale {
			var v T
			if err := json.Unmarshal(e.payload, &v); err == nil {
				c.logger.Emit(otel.Event{Kind: otel.KindCacheHit, Level: otel.LevelDebug, Comp: "query", Key: key, Dur: age})
				return v, nil
			}
			c.logger.Emit(otel.Event{Kind: otel.KindCacheError, Level: otel.LevelWarn, Comp: "query", Key: key, Msg: "undecodable cache entry"})
		} else {
			c.logger.Emit(otel.Event{Kind: otel.KindCacheStale, Level: otel.LevelDebug, Comp: "query", Key: key, Dur: age})
		}
	} else {
		c.logger.Emit(otel.Event{Kind: otel.KindCacheMiss, Level: otel.LevelDebug, Comp: "query", Key: key})
	}

	if c.opts.Offline {
		return zero, fmt.Errorf("%s: %w", key, ErrOffline)
	}

	// The fetch is shared by every caller waiting on key and runs detached
	// from all of them. A caller that gives up returns early; the fetch
	// still completes and fills the cache.
	ch := c.flight.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		v, err := withRetry(fetchCtx, c, key, fn)
		if err != nil {
			return nil, err
		}
		c.save(key, v)
		return v, nil
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// withRetry calls fn up to Retries+1 times. Non-retryable API errors and
// context cancellation end the loop early.
func withRetry[T any](ctx context.Context, c *Client, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	delay := c.opts.RetryDelay

	for attempt := 0; attempt <= c.opts.Retries; attempt++ {
		if attempt > 0 {
			c.logger.Emit(otel.Event{Kind: otel.KindFetchRetry, Level: otel.LevelWarn, Comp: "query", Key: key, Attempt: attempt, Err: lastErr.Error()})
			if err := c.sleep(ctx, delay); err != nil {
				return zero, err
			}
			delay *= 2
			if delay > maxRetryDelay {
				delay = maxRetryDelay
			}
		}

		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil {
			return zero, err
		}
		lastErr = err
		if !fetch.Retryable(err) {
			break
		}
	}
	return zero, lastErr
}

func (c *Client) lookup(key string) (entry, bool) {
	c.mu.Lock()
	e, ok := c.mem[key]
	c.mu.Unlock()
	if ok || c.store == nil {
		return e, ok
	}

	stored, ok, err := c.store.Get(key)
	if err != nil {
		c.logger.Emit(otel.Event{Kind: otel.KindCacheError, Level: otel.LevelWarn, Comp: "query", Key: key, Err: err.Error()})
		return entry{}, false
	}
	if !ok {
		return entry{}, false
	}
	e = entry{payload: stored.Payload, fetchedAt: stored.FetchedAt}
	c.mu.Lock()
	c.mem[key] = e
	c.mu.Unlock()
	return e, true
}

func (c *Client) save(key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Emit(otel.Event{Kind: otel.KindCacheError, Level: otel.LevelWarn, Comp: "query", Key: key, Err: err.Error()})
		return
	}
	e := entry{payload: payload, fetchedAt: c.now()}

	c.mu.Lock()
	c.mem[key] = e
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	if err := c.store.Put(key, payload, e.fetchedAt); err != nil {
		c.logger.Emit(otel.Event{Kind: otel.KindCacheError, Level: otel.LevelWarn, Comp: "query", Key: key, Err: err.Error()})
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
