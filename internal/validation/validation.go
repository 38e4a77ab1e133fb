package validation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrInvalidUUID = fmt.Errorf("invalid UUID format")
)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// validateDate records a field error unless value is a YYYY-MM-DD date.
func validateDate(errors map[string]string, field, value string) {
	if strings.TrimSpace(value) == "" {
		errors[field] = "date is required"
		return
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		errors[field] = err.Error()
	}
}

// maxTickerLength matches the width of the ticker columns.
const maxTickerLength = 20

// ValidateTickerParam checks a ticker taken from a URL path.
func ValidateTickerParam(ticker string) error {
	errors := make(map[string]string)
	validateTicker(errors, "ticker", ticker)
	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// validateTicker records a field error if the ticker is blank, too long or contains whitespace.
func validateTicker(errors map[string]string, field, value string) {
	ticker := strings.TrimSpace(value)
	if ticker == "" {
		errors[field] = "ticker is required"
		return
	}
	if len(ticker) > maxTickerLength {
		errors[field] = fmt.Sprintf("ticker cannot exceed %d characters", maxTickerLength)
		return
	}
	if strings.ContainsAny(ticker, " \t\r\n") {
		errors[field] = "ticker cannot contain whitespace"
	}
}

// validateNonNegative records a field error for negative or non-finite amounts.
func validateNonNegative(errors map[string]string, field string, value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		errors[field] = field + " must be a finite number"
		return
	}
	if value < 0 {
		errors[field] = field + " cannot be negative"
	}
}
