package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/abelbrown/storefront/internal/filter"
	"github.com/abelbrown/storefront/internal/model"
	"github.com/abelbrown/storefront/internal/state"
)

func runCategories() {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	offline := fs.Bool("offline", false, "Use cached data only")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	if *offline {
		cfg.Cache.Offline = true
	}
	rt := openRuntime(cfg)
	defer rt.Close()

	ctx, cancel := signalContext()
	defer cancel()

	cat, err := rt.Query.LoadCatalog(ctx)
	if err != nil {
		fail(err)
	}

	counts := make(map[string]int)
	for _, c := range filter.CategoryCounts(cat.Products) {
		counts[c.Name] = c.Count
	}

	bounds := filter.PriceBounds(cat.Products)
	fmt.Printf("Products:  %d\n", len(cat.Products))
	fmt.Printf("Prices:    %s - %s\n\n", model.FormatPrice(bounds.Min), model.FormatPrice(bounds.Max))
	fmt.Printf("Categories (%d):\n", len(cat.Categories))
	for _, c := range cat.Categories {
		fmt.Printf("  %-24s %3d  %s\n", c, counts[c], state.LocationFor(state.WithCategory(c).Apply(state.DefaultFilters()), state.PageSize))
	}
}
