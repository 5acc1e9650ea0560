// Package ui provides the Bubble Tea TUI for storefront.
package ui

import (
	"time"

	"github.com/abelbrown/storefront/internal/model"
)

// CatalogLoaded is sent when a catalog load finishes.
// Refresh marks background reloads, which never replace the screen with an error.
type CatalogLoaded struct {
	Products   []model.Product
	Categories []model.Category
	LoadedAt   time.Time
	Refresh    bool
	Err        error
}

// SearchSettled is sent when the search input has been idle for the debounce window.
type SearchSettled struct {
	Text string
}

// PriceSettled is sent when the price controls have been idle for the debounce window.
type PriceSettled struct {
	Min float64
	Max float64
}
