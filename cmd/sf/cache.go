package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/abelbrown/storefront/internal/store"
)

func runCache() {
	fs := flag.NewFlagSet("cache", flag.ExitOnError)
	purge := fs.Bool("purge", false, "Delete every cached entry")
	key := fs.String("delete", "", "Delete one entry by key (e.g. 'products')")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	if cfg.Cache.Path == "" || cfg.Cache.Path == ":memory:" {
		fmt.Println("Query cache is not persisted (cache.path is empty or :memory:)")
		return
	}

	st, err := store.Open(cfg.Cache.Path)
	if err != nil {
		fail(fmt.Errorf("failed to open cache: %w", err))
	}
	defer st.Close()

	switch {
	case *purge:
		n, err := st.Purge()
		if err != nil {
			fail(err)
		}
		fmt.Printf("Purged %d entries from %s\n", n, cfg.Cache.Path)
		return
	case *key != "":
		if err := st.Delete(*key); err != nil {
			fail(err)
		}
		fmt.Printf("Deleted %s\n", *key)
		return
	}

	entries, err := st.Entries()
	if err != nil {
		fail(err)
	}
	fmt.Printf("Cache: %s\n\n", cfg.Cache.Path)
	printEntries(os.Stdout, entries, cfg.ProductsStale(), cfg.CategoriesStale(), time.Now())
}

// printEntries lists cache entries with their age and freshness.
func printEntries(w io.Writer, entries []store.Entry, productsStale, categoriesStale time.Duration, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "(empty)")
		return
	}
	var total int
	for _, e := range entries {
		stale := productsStale
		if e.Key == "categories" {
			stale = categoriesStale
		}
		status := "fresh"
		if now.Sub(e.FetchedAt) >= stale {
			status = "stale"
		}
		fmt.Fprintf(w, "  %-40s %9s  %-5s  fetched %s\n",
			truncate(e.Key, 40),
			humanize.Bytes(uint64(e.Size)),
			status,
			humanize.RelTime(e.FetchedAt, now, "ago", "from now"),
		)
		total += e.Size
	}
	fmt.Fprintf(w, "\n%d entries, %s\n", len(entries), humanize.Bytes(uint64(total)))
}
