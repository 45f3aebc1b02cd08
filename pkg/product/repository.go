// Package product implements the product repository: read-through cached
// access to the product API and the translation of API payloads into
// domain.Product values.
package product

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/Sternrassler/storefront-core/pkg/cache"
	"github.com/Sternrassler/storefront-core/pkg/domain"
	"github.com/rs/zerolog"
)

// API endpoints.
const (
	ListEndpoint = "/api/product"
)

// errAbsent short-circuits a fetch on a 404 so that the absence is not cached.
var errAbsent = errors.New("product absent")

// Getter is the part of the API client the repository needs.
type Getter interface {
	Get(ctx context.Context, endpoint string, out any) error
}

// Repository serves product queries from the cache, falling back to the API.
type Repository struct {
	api    Getter
	cache  *cache.Manager
	logger zerolog.Logger
}

// NewRepository creates a product repository.
func NewRepository(api Getter, cacheManager *cache.Manager, logger zerolog.Logger) *Repository {
	return &Repository{
		api:    api,
		cache:  cacheManager,
		logger: logger,
	}
}

// FindAll returns every product, cached under the list key.
func (r *Repository) FindAll(ctx context.Context) ([]domain.Product, error) {
	return cache.GetOrFetch(ctx, r.cache, cache.ProductsKey().String(),
		func(ctx context.Context) ([]domain.Product, error) {
			var dtos []ProductDTO
			if err := r.api.Get(ctx, ListEndpoint, &dtos); err != nil {
				return nil, err
			}
			products := ToDomainList(dtos)
			r.logger.Debug().Int("count", len(products)).Msg("Fetched product list")
			return products, nil
		})
}

// FindByID returns the product with the given id, or nil when the API
// reports it absent. Absence is not cached. A blank id is absent without a
// request.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}

	p, err := cache.GetOrFetch(ctx, r.cache, cache.ProductKey(id).String(),
		func(ctx context.Context) (*domain.Product, error) {
			var dto ProductDTO
			if err := r.api.Get(ctx, ListEndpoint+"/"+url.PathEscape(id), &dto); err != nil {
				if domain.StatusCodeOf(err) == http.StatusNotFound {
					r.logger.Debug().Str("id", id).Msg("Product not found")
					return nil, errAbsent
				}
				return nil, err
			}
			p := ToDomain(dto)
			return &p, nil
		})
	if errors.Is(err, errAbsent) {
		return nil, nil
	}
	return p, err
}

// Search returns the products whose brand or model contains query. It filters
// the cached list and never asks the API to search.
func (r *Repository) Search(ctx context.Context, query string) ([]domain.Product, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if p.MatchesSearch(query) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// Invalidate drops the cached list and the given product entries.
func (r *Repository) Invalidate(ids ...string) {
	r.cache.Delete(cache.ProductsKey().String())
	for _, id := range ids {
		r.cache.Delete(cache.ProductKey(id).String())
	}
}
