package usecase

import (
	"context"
	"strings"

	"github.com/Sternrassler/storefront-core/pkg/domain"
)

// CartRepository is the cart backend.
type CartRepository interface {
	AddItem(ctx context.Context, item domain.CartItem) (int, error)
	GetCount(ctx context.Context) (int, error)
}

// Cart adds items to the cart and reports its size.
type Cart struct {
	cart CartRepository
}

// NewCart creates a cart use case over repo.
func NewCart(repo CartRepository) *Cart {
	return &Cart{cart: repo}
}

// Add adds the selected product variant and returns the new item count.
func (c *Cart) Add(ctx context.Context, productID string, colorCode, storageCode int) (int, error) {
	if strings.TrimSpace(productID) == "" {
		return 0, domain.Validation("product id is required")
	}
	return c.cart.AddItem(ctx, domain.CartItem{
		ProductID:   productID,
		ColorCode:   colorCode,
		StorageCode: storageCode,
	})
}

// Count returns the persisted item count.
func (c *Cart) Count(ctx context.Context) (int, error) {
	return c.cart.GetCount(ctx)
}
