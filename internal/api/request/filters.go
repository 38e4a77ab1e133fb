package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/stock-ledger/internal/apperrors"
	"github.com/ndewijer/stock-ledger/internal/model"
)

// ParseTransactionFilter extracts and validates a transaction filter from query parameters.
// All parameters are optional.
//
// Validation rules:
//   - ticker: trimmed and uppercased
//   - startDate/endDate: must be YYYY-MM-DD
//   - startDate must not be after endDate
func ParseTransactionFilter(tickerParam, startDateParam, endDateParam string) (model.TransactionFilter, error) {
	filter := model.TransactionFilter{
		Ticker: strings.ToUpper(strings.TrimSpace(tickerParam)),
	}

	if startDateParam != "" {
		if _, err := time.Parse("2006-01-02", startDateParam); err != nil {
			return model.TransactionFilter{}, fmt.Errorf("invalid start_date format: %w", err)
		}
		filter.StartDate = startDateParam
	}

	if endDateParam != "" {
		if _, err := time.Parse("2006-01-02", endDateParam); err != nil {
			return model.TransactionFilter{}, fmt.Errorf("invalid end_date format: %w", err)
		}
		filter.EndDate = endDateParam
	}

	if filter.StartDate != "" && filter.EndDate != "" && filter.StartDate > filter.EndDate {
		return model.TransactionFilter{}, fmt.Errorf("%w: start_date %s is after end_date %s",
			apperrors.ErrInvalidDateRange, filter.StartDate, filter.EndDate)
	}

	return filter, nil
}
