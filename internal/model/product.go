// Package model provides the catalog data types shared by the fetch layer,
// the filter pipeline and the UI.
package model

// Product is a catalog entry as served by the upstream API.
// Values are immutable once fetched; the pipeline never mutates them.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// Rating is the aggregate review score of a product.
type Rating struct {
	Rate  float64 `json:"rate"` // 0-5
	Count int     `json:"count"`
}

// Category is a category label as returned by the categories endpoint.
type Category = string

// CategoryCount is the number of products carrying a category label.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PriceRange holds price bounds for the price filter controls.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultPriceRange is used when no products are available. It doubles as the
// bounds of an unconstrained price filter.
var DefaultPriceRange = PriceRange{Min: 0, Max: 1000}
