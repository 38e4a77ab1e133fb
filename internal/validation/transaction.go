package validation

import (
	"math"

	"github.com/ndewijer/stock-ledger/internal/api/request"
)

// ValidateCreateTransaction validates a transaction creation request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - date: Must be in YYYY-MM-DD format
//   - ticker: Must be non-empty without inner whitespace
//   - quantity: Must be non-zero (negative records a sell)
//   - price: Must be zero or positive
//
// Optional fields:
//   - commission: Must be zero or positive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	validateDate(errors, "date", req.Date)
	validateTicker(errors, "ticker", req.Ticker)
	validateQuantity(errors, req.Quantity)
	validateNonNegative(errors, "price", req.Price)
	validateNonNegative(errors, "commission", req.Commission)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateTransaction validates a transaction update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateUpdateTransaction(req request.UpdateTransactionRequest) error {
	errors := make(map[string]string)

	if req.Date != nil {
		validateDate(errors, "date", *req.Date)
	}
	if req.Ticker != nil {
		validateTicker(errors, "ticker", *req.Ticker)
	}
	if req.Quantity != nil {
		validateQuantity(errors, *req.Quantity)
	}
	if req.Price != nil {
		validateNonNegative(errors, "price", *req.Price)
	}
	if req.Commission != nil {
		validateNonNegative(errors, "commission", *req.Commission)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

func validateQuantity(errors map[string]string, quantity float64) {
	switch {
	case math.IsNaN(quantity) || math.IsInf(quantity, 0):
		errors["quantity"] = "quantity must be a finite number"
	case quantity == 0:
		errors["quantity"] = "quantity cannot be zero"
	}
}
