package cache

import (
	"strings"
)

// Key identifies a cached value.
type Key struct {
	// Namespace groups related keys (e.g., "products", "product").
	Namespace string

	// ID distinguishes keys within a namespace.
	ID string
}

// String generates the cache key string.
// Format: namespace:id
//
// Example:
//
//	product:ZmGrkLRPXOTpxsU4jjAcv
func (k Key) String() string {
	parts := make([]string, 0, 2)
	if ns := strings.Trim(k.Namespace, ":"); ns != "" {
		parts = append(parts, ns)
	}
	if k.ID != "" {
		parts = append(parts, k.ID)
	}
	return strings.Join(parts, ":")
}

// ProductsKey is the key of the full product list.
func ProductsKey() Key {
	return Key{Namespace: "products", ID: "all"}
}

// ProductKey is the key of a single product.
func ProductKey(id string) Key {
	return Key{Namespace: "product", ID: id}
}
