package validation

import "github.com/ndewijer/stock-ledger/internal/api/request"

// ValidateUpdatePrice validates a manual price update for ticker.
func ValidateUpdatePrice(ticker string, req request.UpdatePriceRequest) error {
	errors := make(map[string]string)

	validateTicker(errors, "ticker", ticker)
	validateNonNegative(errors, "price", req.Price)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
