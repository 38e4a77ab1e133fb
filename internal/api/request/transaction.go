package request

// CreateTransactionRequest represents the request body for recording a trade.
// A negative quantity records a sell. Commission may be omitted and defaults to 0.
type CreateTransactionRequest struct {
	Date       string  `json:"date"`
	Ticker     string  `json:"ticker"`
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	Commission float64 `json:"commission,omitempty"`
}

// UpdateTransactionRequest represents a partial update of a trade.
// Only the provided fields replace the stored values.
type UpdateTransactionRequest struct {
	Date       *string  `json:"date,omitempty"`
	Ticker     *string  `json:"ticker,omitempty"`
	Quantity   *float64 `json:"quantity,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	Commission *float64 `json:"commission,omitempty"`
}
