package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/abelbrown/storefront/internal/filter"
	"github.com/abelbrown/storefront/internal/model"
	"github.com/abelbrown/storefront/internal/state"
)

func runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	location := fs.String("url", state.ListingPath, "Location to apply, e.g. '/products?category=jewelery&sort=price-asc'")
	all := fs.Bool("all", false, "Print every match instead of the current page")
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

	_, q := state.ParseLocation(*location)
	f, take := state.Decode(q)

	products, err := loadProducts(ctx, rt.Query, f.Category)
	if err != nil {
		fail(err)
	}
	v := filter.Derive(products, f, take)
	if *all {
		v.Shown = v.Matched
		v.HasMore = false
	}
	printView(os.Stdout, v)
}

// productSource is the part of *query.Client that list reads.
type productSource interface {
	Products(ctx context.Context) ([]model.Product, error)
	ProductsByCategory(ctx context.Context, category string) ([]model.Product, error)
}

// loadProducts fetches only the selected category when there is one. The
// category filter would discard every other product anyway.
func loadProducts(ctx context.Context, src productSource, category string) ([]model.Product, error) {
	if category == "" {
		return src.Products(ctx)
	}
	return src.ProductsByCategory(ctx, category)
}

// printView writes the products of v and the paging summary.
func printView(w io.Writer, v filter.View) {
	fmt.Fprintf(w, "%s\n\n", state.LocationFor(v.Filters, v.Take))
	if len(v.Matched) == 0 {
		fmt.Fprintln(w, "No products match these filters.")
		return
	}
	for _, p := range v.Shown {
		fmt.Fprintln(w, formatProduct(p))
	}
	fmt.Fprintf(w, "\nShowing %d out of %d items\n", len(v.Shown), len(v.Matched))
	if v.HasMore {
		fmt.Fprintf(w, "More available: %s\n", state.LocationFor(v.Filters, v.Take+state.PageSize))
	}
}

func formatProduct(p model.Product) string {
	return fmt.Sprintf("%4d  %-48s %10s  %s (%d)  [%s]",
		p.ID,
		truncate(p.Title, 48),
		model.FormatPrice(p.Price),
		model.FormatRating(p.Rating.Rate),
		p.Rating.Count,
		p.Category,
	)
}
