// Package fetch retrieves the product catalog from the upstream REST API.
//
// Payloads are decoded into wire types, validated, and only then converted
// to model values: callers receive either fully typed data or an error,
// never a partially valid list.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/storefront/internal/model"
	"github.com/abelbrown/storefront/internal/otel"
)

// DefaultBaseURL is the public demo catalog.
const DefaultBaseURL = "https://fakestoreapi.com"

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 10 << 20

// Client calls the catalog API. Safe for concurrent use.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  *otel.Logger
}

// NewClient creates a Client for baseURL with the given request timeout.
// An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 4),
		logger:  otel.NewNullLogger(),
	}
}

// WithLogger routes fetch events to l.
func (c *Client) WithLogger(l *otel.Logger) *Client {
	if l != nil {
		c.logger = l
	}
	return c
}

// WithRateLimit replaces the outbound request limit.
func (c *Client) WithRateLimit(r rate.Limit, burst int) *Client {
	c.limiter = rate.NewLimiter(r, burst)
	return c
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Products fetches the full product list.
func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	body, err := c.get(ctx, "/products")
	if err != nil {
		return nil, err
	}
	return parseProducts(body)
}

// ProductsByCategory fetches the products of one category.
func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	body, err := c.get(ctx, "/products/category/"+url.PathEscape(category))
	if err != nil {
		return nil, err
	}
	return parseProducts(body)
}

// Categories fetches the category labels.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	body, err := c.get(ctx, "/products/categories")
	if err != nil {
		return nil, err
	}
	return parseCategories(body)
}

// get performs one GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("fetch %s: rate limiter wait failed: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: failed to create request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "storefront/0.1")

	start := time.Now()
	c.logger.Emit(otel.Event{Kind: otel.KindFetchStart, Level: otel.LevelDebug, Comp: "fetch", Key: path})

	resp, err := c.client.Do(req)
	if err != nil {
		err = fmt.Errorf("fetch %s: request failed: %w", path, err)
		c.logger.Emit(otel.Event{Kind: otel.KindFetchError, Level: otel.LevelWarn, Comp: "fetch", Key: path, Err: err.Error(), Dur: time.Since(start)})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &APIError{
			Message: fmt.Sprintf("%s: %s", msgFailedFetch, http.StatusText(resp.StatusCode)),
			Status:  resp.StatusCode,
		}
		c.logger.Emit(otel.Event{Kind: otel.KindFetchError, Level: otel.LevelWarn, Comp: "fetch", Key: path, Status: resp.StatusCode, Err: err.Error(), Dur: time.Since(start)})
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: failed to read response: %w", path, err)
	}

	c.logger.Emit(otel.Event{Kind: otel.KindFetchComplete, Level: otel.LevelInfo, Comp: "fetch", Key: path, Status: resp.StatusCode, Dur: time.Since(start), Count: len(body)})
	return body, nil
}
