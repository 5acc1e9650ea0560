// Package server exposes the catalog browser over HTTP as JSON, so the same
// location strings the TUI produces can be shared and resolved elsewhere.
package server

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abelbrown/storefront/internal/fetch"
	"github.com/abelbrown/storefront/internal/filter"
	"github.com/abelbrown/storefront/internal/logging"
	"github.com/abelbrown/storefront/internal/model"
	"github.com/abelbrown/storefront/internal/query"
	"github.com/abelbrown/storefront/internal/state"
)

// CatalogSource loads the catalog. *query.Client implements it.
type CatalogSource interface {
	LoadCatalog(ctx context.Context) (query.Catalog, error)
}

// Options configures the router.
type Options struct {
	CORSOrigins []string    // "*" or empty allows every origin
	Logger      *log.Logger // request log; nil uses the global logger
}

// Handler serves catalog views.
type Handler struct {
	catalog CatalogSource
	version string
}

// NewHandler creates a Handler over the catalog source.
func NewHandler(c CatalogSource, version string) *Handler {
	return &Handler{catalog: c, version: version}
}

// NewRouter builds the gin engine with CORS, recovery and request logging.
func NewRouter(h *Handler, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(opts.Logger))

	corsConfig := cors.DefaultConfig()
	if len(opts.CORSOrigins) == 0 || slices.Contains(opts.CORSOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.CORSOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", h.Health)
	router.GET(state.ListingPath, h.Products)
	router.GET("/categories", h.Categories)
	router.POST("/location", h.Navigate)

	return router
}

// requestLogger logs one line per request to l, or the global logger when l
// is nil.
func requestLogger(l *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		keyvals := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		}
		if l != nil {
			l.Info("http request", keyvals...)
			return
		}
		logging.Info("http request", keyvals...)
	}
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "storefront",
		"version": h.version,
	})
}

// productsResponse is the derived view of one location.
type productsResponse struct {
	Location   string                `json:"location"`
	Filters    state.Filters         `json:"filters"`
	Take       int                   `json:"take"`
	Showing    int                   `json:"showing"`
	Total      int                   `json:"total"`
	HasMore    bool                  `json:"has_more"`
	Products   []model.Product       `json:"products"`
	Categories []model.CategoryCount `json:"categories"`
	Bounds     model.PriceRange      `json:"bounds"`
}

// Products handles GET /products?<query>
// The query is decoded exactly as the TUI decodes its location: malformed
// values fall back to defaults rather than failing the request.
func (h *Handler) Products(c *gin.Context) {
	cat, ok := h.load(c)
	if !ok {
		return
	}

	f, take := state.Decode(c.Request.URL.Query())
	v := filter.Derive(cat.Products, f, take)

	shown := v.Shown
	if shown == nil {
		shown = []model.Product{}
	}
	c.JSON(http.StatusOK, productsResponse{
		Location:   state.LocationFor(f, take),
		Filters:    f,
		Take:       take,
		Showing:    len(v.Shown),
		Total:      len(v.Matched),
		HasMore:    v.HasMore,
		Products:   shown,
		Categories: v.Categories,
		Bounds:     v.Bounds,
	})
}

// Categories handles GET /categories
func (h *Handler) Categories(c *gin.Context) {
	cat, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": cat.Categories,
		"counts":     filter.CategoryCounts(cat.Products),
	})
}

// load fetches the catalog, writing an error response on failure.
func (h *Handler) load(c *gin.Context) (query.Catalog, bool) {
	cat, err := h.catalog.LoadCatalog(c.Request.Context())
	if err == nil {
		return cat, true
	}

	body := gin.H{"error": err.Error()}
	var apiErr *fetch.APIError
	if errors.As(err, &apiErr) {
		body["error"] = apiErr.Message
		if apiErr.Status != 0 {
			body["upstream_status"] = apiErr.Status
		}
	}
	c.JSON(http.StatusBadGateway, body)
	return query.Catalog{}, false
}
