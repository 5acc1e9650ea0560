package filter

import (
	"github.com/abelbrown/storefront/internal/model"
	"github.com/abelbrown/storefront/internal/state"
)

// View is everything the presentation layer renders for one location.
type View struct {
	Filters    state.Filters
	Take       int
	Matched    []model.Product // filtered and sorted
	Shown      []model.Product // first Take of Matched
	HasMore    bool
	Categories []model.CategoryCount // over the unfiltered catalog
	Bounds     model.PriceRange      // over the unfiltered catalog
}

// Derive computes the View of products for the given filters and take.
func Derive(products []model.Product, f state.Filters, take int) View {
	matched := Apply(products, f)
	shown, more := Page(matched, take)
	return View{
		Filters:    f,
		Take:       take,
		Matched:    matched,
		Shown:      shown,
		HasMore:    more,
		Categories: CategoryCounts(products),
		Bounds:     PriceBounds(products),
	}
}

// PriceControls returns the min and max the price controls should display:
// a price filter still at its default falls back to the catalog bounds.
func (v View) PriceControls() (float64, float64) {
	lo, hi := v.Filters.MinPrice, v.Filters.MaxPrice
	if lo == state.DefaultMinPrice {
		lo = v.Bounds.Min
	}
	if hi == state.DefaultMaxPrice {
		hi = v.Bounds.Max
	}
	return lo, hi
}
