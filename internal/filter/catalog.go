package filter

import (
	"math"
	"sort"
	"strings"

	"github.com/abelbrown/storefront/internal/model"
	"github.com/abelbrown/storefront/internal/state"
)

// Search keeps products whose title or description contains text,
// case-insensitively. Blank text returns products unchanged.
func Search(products []model.Product, text string) []model.Product {
	if strings.TrimSpace(text) == "" {
		return products
	}

	query := strings.ToLower(text)
	result := make([]model.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), query) ||
			strings.Contains(strings.ToLower(p.Description), query) {
			result = append(result, p)
		}
	}
	return result
}

// ByCategory keeps products with exactly the given category.
// An empty category matches everything and returns products unchanged.
func ByCategory(products []model.Product, category string) []model.Product {
	if category == "" {
		return products
	}

	result := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			result = append(result, p)
		}
	}
	return result
}

// ByPriceRange keeps products priced within [min, max], both ends inclusive.
func ByPriceRange(products []model.Product, min, max float64) []model.Product {
	result := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.Price >= min && p.Price <= max {
			result = append(result, p)
		}
	}
	return result
}

// ByMinRating keeps products rated at least minRating.
// A zero minimum returns products unchanged.
func ByMinRating(products []model.Product, minRating float64) []model.Product {
	if minRating == 0 {
		return products
	}

	result := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.Rating.Rate >= minRating {
			result = append(result, p)
		}
	}
	return result
}

// Sort returns a sorted copy of products; the input is never reordered.
// The sort is stable: products with equal keys keep their relative order.
// SortNone (or any unknown mode) returns the copy in the original order.
func Sort(products []model.Product, mode state.SortMode) []model.Product {
	sorted := make([]model.Product, len(products))
	copy(sorted, products)

	var less func(a, b model.Product) bool
	switch mode {
	case state.SortPriceAsc:
		less = func(a, b model.Product) bool { return a.Price < b.Price }
	case state.SortPriceDesc:
		less = func(a, b model.Product) bool { return a.Price > b.Price }
	case state.SortRatingDesc:
		less = func(a, b model.Product) bool { return a.Rating.Rate > b.Rating.Rate }
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// Apply runs the full pipeline: search, category, price range, minimum
// rating, then sort. Sorting always comes last.
func Apply(products []model.Product, f state.Filters) []model.Product {
	result := Search(products, f.Search)
	result = ByCategory(result, f.Category)
	result = ByPriceRange(result, f.MinPrice, f.MaxPrice)
	result = ByMinRating(result, f.MinRating)
	return Sort(result, f.Sort)
}

// CategoryCounts counts products per category, ordered by label ascending.
// Pass the unfiltered list: the counts describe the whole catalog.
func CategoryCounts(products []model.Product) []model.CategoryCount {
	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Category]++
	}

	result := make([]model.CategoryCount, 0, len(counts))
	for name, n := range counts {
		result = append(result, model.CategoryCount{Name: name, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// PriceBounds returns the floor of the lowest and the ceiling of the highest
// price. An empty list yields model.DefaultPriceRange.
func PriceBounds(products []model.Product) model.PriceRange {
	if len(products) == 0 {
		return model.DefaultPriceRange
	}

	lo, hi := products[0].Price, products[0].Price
	for _, p := range products[1:] {
		lo = math.Min(lo, p.Price)
		hi = math.Max(hi, p.Price)
	}
	return model.PriceRange{Min: math.Floor(lo), Max: math.Ceil(hi)}
}

// Page returns the first take products and whether more remain after them.
func Page(products []model.Product, take int) ([]model.Product, bool) {
	if take < 0 {
		take = 0
	}
	if take >= len(products) {
		return products, false
	}
	return products[:take], true
}
