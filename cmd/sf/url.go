package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/abelbrown/storefront/internal/state"
)

func runURL() {
	fs := flag.NewFlagSet("url", flag.ExitOnError)
	base := fs.String("from", state.ListingPath, "Starting location to modify")
	search := fs.String("search", "", "Search text")
	category := fs.String("category", "", "Category label")
	minPrice := fs.Float64("min", state.DefaultMinPrice, "Minimum price")
	maxPrice := fs.Float64("max", state.DefaultMaxPrice, "Maximum price")
	rating := fs.Float64("rating", state.DefaultMinRating, "Minimum rating (0-5)")
	sort := fs.String("sort", string(state.SortNone), "Sort: "+sortModes())
	take := fs.Int("take", 0, "Number of items to show (0 keeps the first page)")
	fs.Parse(os.Args[1:])

	// Only flags given on the command line change the starting location.
	var p state.Patch
	changed := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name != "from" && f.Name != "take" {
			changed = true
		}
		switch f.Name {
		case "search":
			p.Search = search
		case "category":
			p.Category = category
		case "min":
			p.MinPrice = minPrice
		case "max":
			p.MaxPrice = maxPrice
		case "rating":
			p.MinRating = rating
		case "sort":
			m := state.SortMode(*sort)
			p.Sort = &m
		}
	})

	fmt.Println(buildLocation(*base, p, changed, *take))
}

// buildLocation applies p to base through the state store when changed,
// then take when positive. Applying a patch restarts paging.
func buildLocation(base string, p state.Patch, changed bool, take int) string {
	router := &state.Fixed{Current: base}
	store := state.NewStore(router)
	if changed {
		store.Update(p)
		router.Current = router.Target
	}
	if take > 0 {
		store.UpdateTake(take)
		router.Current = router.Target
	}
	return router.Current
}

func sortModes() string {
	names := make([]string, len(state.SortModes))
	for i, m := range state.SortModes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
