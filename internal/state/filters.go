// Package state maps the browser's filter state to and from the query string
// of its location. The location is the single source of truth: Filters and
// Take are always re-derived from it, never stored beside it.
package state

// SortMode selects the ordering of the filtered product list.
type SortMode string

const (
	SortNone       SortMode = "none"
	SortPriceAsc   SortMode = "price-asc"
	SortPriceDesc  SortMode = "price-desc"
	SortRatingDesc SortMode = "rating-desc"
)

// SortModes lists every mode in the order the UI cycles through them.
var SortModes = []SortMode{SortNone, SortPriceAsc, SortPriceDesc, SortRatingDesc}

// Valid reports whether m is a known sort mode.
func (m SortMode) Valid() bool {
	switch m {
	case SortNone, SortPriceAsc, SortPriceDesc, SortRatingDesc:
		return true
	}
	return false
}

// Label is the human readable name shown in the sort selector.
func (m SortMode) Label() string {
	switch m {
	case SortPriceAsc:
		return "Price: Low to High"
	case SortPriceDesc:
		return "Price: High to Low"
	case SortRatingDesc:
		return "Top Rated"
	default:
		return "Featured"
	}
}

// Next returns the mode following m in SortModes, wrapping around.
func (m SortMode) Next() SortMode {
	for i, s := range SortModes {
		if s == m {
			return SortModes[(i+1)%len(SortModes)]
		}
	}
	return SortNone
}

// Default filter values. A field holding its default is never written to the
// query string.
const (
	DefaultSearch    = ""
	DefaultCategory  = ""
	DefaultMinPrice  = 0.0
	DefaultMaxPrice  = 1000.0
	DefaultMinRating = 0.0
	DefaultSort      = SortNone

	// PageSize is both the initial Take and the Take increment.
	PageSize = 9
)

// Filters is the filter selection driving which products are shown.
// It is a plain value; copy it freely.
type Filters struct {
	Search    string   `json:"search"`
	Category  string   `json:"category"`
	MinPrice  float64  `json:"min_price"`
	MaxPrice  float64  `json:"max_price"`
	MinRating float64  `json:"min_rating"`
	Sort      SortMode `json:"sort"`
}

// DefaultFilters returns the unconstrained filter state.
func DefaultFilters() Filters {
	return Filters{
		Search:    DefaultSearch,
		Category:  DefaultCategory,
		MinPrice:  DefaultMinPrice,
		MaxPrice:  DefaultMaxPrice,
		MinRating: DefaultMinRating,
		Sort:      DefaultSort,
	}
}

// IsDefault reports whether no filter is active.
func (f Filters) IsDefault() bool {
	return f == DefaultFilters()
}

// Active counts the filter fields (sort excluded) that differ from their defaults.
func (f Filters) Active() int {
	n := 0
	if f.Search != DefaultSearch {
		n++
	}
	if f.Category != DefaultCategory {
		n++
	}
	if f.MinPrice != DefaultMinPrice || f.MaxPrice != DefaultMaxPrice {
		n++
	}
	if f.MinRating != DefaultMinRating {
		n++
	}
	return n
}

// Patch is a partial update to Filters. Nil fields are left unchanged.
type Patch struct {
	Search    *string
	Category  *string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Sort      *SortMode
}

// Apply returns f with every non-nil patch field merged over it.
func (p Patch) Apply(f Filters) Filters {
	if p.Search != nil {
		f.Search = *p.Search
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.MinPrice != nil {
		f.MinPrice = *p.MinPrice
	}
	if p.MaxPrice != nil {
		f.MaxPrice = *p.MaxPrice
	}
	if p.MinRating != nil {
		f.MinRating = *p.MinRating
	}
	if p.Sort != nil {
		f.Sort = *p.Sort
	}
	return f
}

// Patch constructors keep call sites short: state.Update(state.WithSort(m)).

func WithSearch(s string) Patch     { return Patch{Search: &s} }
func WithCategory(c string) Patch   { return Patch{Category: &c} }
func WithMinRating(r float64) Patch { return Patch{MinRating: &r} }
func WithSort(m SortMode) Patch     { return Patch{Sort: &m} }

// WithPriceRange patches both price bounds at once.
func WithPriceRange(min, max float64) Patch {
	return Patch{MinPrice: &min, MaxPrice: &max}
}
