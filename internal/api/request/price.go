package request

// UpdatePriceRequest represents the request body for setting a ticker's current price.
type UpdatePriceRequest struct {
	Price float64 `json:"price"`
}
