package query

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/storefront/internal/model"
)

// Catalog is everything the browser needs to render: the product list and
// the category labels.
type Catalog struct {
	Products   []model.Product
	Categories []model.Category
	LoadedAt   time.Time
}

// LoadCatalog fetches products and categories concurrently. The first
// failure cancels the other request and is returned.
func (c *Client) LoadCatalog(ctx context.Context) (Catalog, error) {
	var cat Catalog
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		products, err := c.Products(gctx)
		cat.Products = products
		return err
	})
	g.Go(func() error {
		categories, err := c.Categories(gctx)
		cat.Categories = categories
		return err
	})

	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}
	// Cached products report when they were fetched, not when they were read.
	cat.LoadedAt = c.now()
	if at, ok := c.FetchedAt(KeyProducts); ok {
		cat.LoadedAt = at
	}
	return cat, nil
}
