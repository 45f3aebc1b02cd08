// Package cart implements the cart repository. Items are added through the
// API; the count the API reports back is persisted in a store so that it can
// be read without a network round trip.
package cart

import (
	"context"
	"fmt"

	"github.com/Sternrassler/storefront-core/pkg/domain"
	"github.com/Sternrassler/storefront-core/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

const (
	// Endpoint is the add-to-cart endpoint.
	Endpoint = "/api/cart"

	// CountKey is the store key holding the persisted cart count.
	CountKey = "cart:count"
)

var itemsAdded = promauto.NewCounter(prometheus.CounterOpts{
	Name: "storefront_cart_items_added_total",
	Help: "Total number of items successfully added to the cart",
})

// Poster is the part of the API client the repository needs.
type Poster interface {
	Post(ctx context.Context, endpoint string, body, out any) error
}

// Repository adds cart items and tracks the cart count.
type Repository struct {
	api    Poster
	store  store.Store
	logger zerolog.Logger
}

// NewRepository creates a cart repository.
func NewRepository(api Poster, s store.Store, logger zerolog.Logger) *Repository {
	return &Repository{
		api:    api,
		store:  s,
		logger: logger,
	}
}

// AddItem posts item to the API, persists the count it returns and returns
// that count. Nothing is persisted when the request fails.
func (r *Repository) AddItem(ctx context.Context, item domain.CartItem) (int, error) {
	req := AddToCartRequestDTO{
		ID:          item.ProductID,
		ColorCode:   item.ColorCode,
		StorageCode: item.StorageCode,
	}

	var resp AddToCartResponseDTO
	if err := r.api.Post(ctx, Endpoint, req, &resp); err != nil {
		return 0, err
	}
	itemsAdded.Inc()

	if err := r.SaveCount(ctx, resp.Count); err != nil {
		return 0, err
	}

	r.logger.Debug().
		Str("product_id", item.ProductID).
		Int("color_code", item.ColorCode).
		Int("storage_code", item.StorageCode).
		Int("count", resp.Count).
		Msg("Item added to cart")

	return resp.Count, nil
}

// GetCount returns the persisted cart count, or 0 when none was saved.
func (r *Repository) GetCount(ctx context.Context) (int, error) {
	var count int
	found, err := r.store.Get(ctx, CountKey, &count)
	if err != nil {
		return 0, domain.Cache("failed to read cart count", err)
	}
	if !found {
		return 0, nil
	}
	return count, nil
}

// SaveCount persists count, replacing the previous value.
func (r *Repository) SaveCount(ctx context.Context, count int) error {
	if err := r.store.Set(ctx, CountKey, count); err != nil {
		return domain.Cache(fmt.Sprintf("failed to save cart count %d", count), err)
	}
	return nil
}
