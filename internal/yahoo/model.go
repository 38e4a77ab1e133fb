package yahoo

import "time"

// Response represents the raw JSON response structure from the Yahoo Finance chart API.
//
// The structure includes:
//   - Chart.Result: Array of result objects (typically contains one element)
//   - Chart.Result[].Meta: Symbol metadata (currency, exchange, last market price)
//   - Chart.Result[].Timestamp: Unix timestamps for each data point
//   - Chart.Result[].Indicators: Daily close prices
//   - Chart.Error: Optional error message from Yahoo API
type Response struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				ExchangeName       string  `json:"exchangeName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// PriceChart is the parsed form of a Response: the symbol and its daily closes.
type PriceChart struct {
	Symbol             string  `json:"symbol"`
	Currency           string  `json:"currency"`
	ExchangeName       string  `json:"exchangeName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	Closes             []Close `json:"closes"`
}

// Close is one trading day's closing price.
type Close struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// LatestPrice returns the most recent usable price of the chart.
// The last non-zero close wins; the live market price is the fallback.
func (c PriceChart) LatestPrice() (float64, bool) {
	for i := len(c.Closes) - 1; i >= 0; i-- {
		if c.Closes[i].Price > 0 {
			return c.Closes[i].Price, true
		}
	}
	if c.RegularMarketPrice > 0 {
		return c.RegularMarketPrice, true
	}
	return 0, false
}
