package state

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names.
const (
	ParamSearch   = "search"
	ParamCategory = "category"
	ParamMin      = "min"
	ParamMax      = "max"
	ParamRating   = "rating"
	ParamSort     = "sort"
	ParamTake     = "take"
)

// filterParams are the parameters owned by Filters (take excluded).
var filterParams = []string{ParamSearch, ParamCategory, ParamMin, ParamMax, ParamRating, ParamSort}

// ListingPath is the bare listing location with no query string.
const ListingPath = "/products"

// Decode reads Filters and Take from query values. Each parameter is parsed
// independently; a missing or malformed value yields that field's default.
func Decode(v url.Values) (Filters, int) {
	f := DefaultFilters()

	f.Search = v.Get(ParamSearch)
	f.Category = v.Get(ParamCategory)
	f.MinPrice = parseNumber(v.Get(ParamMin), DefaultMinPrice, 0, math.MaxFloat64)
	f.MaxPrice = parseNumber(v.Get(ParamMax), DefaultMaxPrice, 0, math.MaxFloat64)
	f.MinRating = parseNumber(v.Get(ParamRating), DefaultMinRating, 0, 5)

	if s := SortMode(v.Get(ParamSort)); s.Valid() {
		f.Sort = s
	}

	return f, parseTake(v.Get(ParamTake))
}

// Encode writes the non-default fields of f as query values. A field equal to
// its default is omitted, so equal filter states always encode identically.
func Encode(f Filters) url.Values {
	v := url.Values{}
	if f.Search != DefaultSearch {
		v.Set(ParamSearch, f.Search)
	}
	if f.Category != DefaultCategory {
		v.Set(ParamCategory, f.Category)
	}
	if f.MinPrice != DefaultMinPrice {
		v.Set(ParamMin, formatNumber(f.MinPrice))
	}
	if f.MaxPrice != DefaultMaxPrice {
		v.Set(ParamMax, formatNumber(f.MaxPrice))
	}
	if f.MinRating != DefaultMinRating {
		v.Set(ParamRating, formatNumber(f.MinRating))
	}
	if f.Sort != DefaultSort && f.Sort.Valid() {
		v.Set(ParamSort, string(f.Sort))
	}
	return v
}

// ParseLocation splits a location such as "/products?sort=price-asc" into its
// path and query values. Anything unparsable is treated as the bare listing.
func ParseLocation(location string) (string, url.Values) {
	u, err := url.Parse(location)
	if err != nil {
		return ListingPath, url.Values{}
	}
	path := u.Path
	if path == "" {
		path = ListingPath
	}
	// ParseQuery keeps every pair it could decode; malformed pairs are dropped.
	q, _ := url.ParseQuery(u.RawQuery)
	return path, q
}

// FormatLocation joins a path and query values. Keys are sorted, and an empty
// query yields the bare path.
func FormatLocation(path string, v url.Values) string {
	if path == "" {
		path = ListingPath
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

// LocationFor returns the canonical location of a filter state and take.
func LocationFor(f Filters, take int) string {
	v := Encode(f)
	if take != PageSize && take > 0 {
		v.Set(ParamTake, strconv.Itoa(take))
	}
	return FormatLocation(ListingPath, v)
}

func parseNumber(raw string, def, min, max float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n < min || n > max {
		return def
	}
	return n
}

func parseTake(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return PageSize
	}
	return n
}

// formatNumber writes integral values as integer strings and anything else
// in the shortest form that parses back to the same float.
func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
