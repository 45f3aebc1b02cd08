package cart

// AddToCartRequestDTO is the POST /api/cart request body.
type AddToCartRequestDTO struct {
	ID          string `json:"id"`
	ColorCode   int    `json:"colorCode"`
	StorageCode int    `json:"storageCode"`
}

// AddToCartResponseDTO is the POST /api/cart response body.
type AddToCartResponseDTO struct {
	Count int `json:"count"`
}
