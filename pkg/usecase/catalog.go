// Package usecase holds the application operations exposed to callers. Each
// use case is a thin layer over a repository that turns repository results
// into domain errors a caller can switch on.
package usecase

import (
	"context"

	"github.com/Sternrassler/storefront-core/pkg/domain"
)

// ProductRepository is the product store the catalog reads from.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
	Invalidate(ids ...string)
}

// Catalog serves product queries.
type Catalog struct {
	products ProductRepository
}

// NewCatalog creates a catalog over products.
func NewCatalog(products ProductRepository) *Catalog {
	return &Catalog{products: products}
}

// Products returns every product.
func (c *Catalog) Products(ctx context.Context) ([]domain.Product, error) {
	return c.products.FindAll(ctx)
}

// ProductByID returns the product with id. An absent product is a
// domain.KindNotFound error.
func (c *Catalog) ProductByID(ctx context.Context, id string) (domain.Product, error) {
	p, err := c.products.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if p == nil {
		return domain.Product{}, domain.NotFound("Product", id)
	}
	return *p, nil
}

// Search returns the products whose brand or model matches query.
func (c *Catalog) Search(ctx context.Context, query string) ([]domain.Product, error) {
	return c.products.Search(ctx, query)
}

// Refresh drops cached catalog data so the next query reaches the API.
func (c *Catalog) Refresh(ids ...string) {
	c.products.Invalidate(ids...)
}
