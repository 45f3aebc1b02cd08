package domain

// CartItem is a single add-to-cart submission.
type CartItem struct {
	ProductID   string
	ColorCode   int
	StorageCode int
}
