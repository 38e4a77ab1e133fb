package model

import "time"

// PriceMap maps a ticker to its current market price.
// A ticker missing from the map is valued at 0.
type PriceMap map[string]float64

// Get returns the price for ticker, or 0 if none is known.
func (p PriceMap) Get(ticker string) float64 {
	return p[ticker]
}

// CurrentPrice is a stored market price for a ticker.
type CurrentPrice struct {
	Ticker    string    `json:"ticker"`
	Price     float64   `json:"price"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PriceRefreshResult reports the outcome of refreshing prices from the quote provider.
type PriceRefreshResult struct {
	Updated []CurrentPrice    `json:"updated"`
	Failed  map[string]string `json:"failed"`
}
