package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrPriceNotFound indicates that no current price is stored for a ticker.
	ErrPriceNotFound = errors.New("price not found")

	// ErrTickerNotFound indicates that the ledger holds no transaction for a ticker.
	ErrTickerNotFound = errors.New("ticker not found")

	// ErrSymbolNotFound indicates that the quote provider returned no results for a symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	ErrInvalidTicker = errors.New("ticker is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	// Transaction operation errors
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToCreateTransaction    = errors.New("failed to create transaction")
	ErrFailedToUpdateTransaction    = errors.New("failed to update transaction")
	ErrFailedToDeleteTransaction    = errors.New("failed to delete transaction")
	ErrFailedToImportTransactions   = errors.New("failed to import transactions")
	ErrFailedToExportTransactions   = errors.New("failed to export transactions")
	ErrInvalidCSVHeaders            = errors.New("invalid CSV headers")

	// Price operation errors
	ErrFailedToRetrievePrices = errors.New("failed to retrieve prices")
	ErrFailedToUpdatePrice    = errors.New("failed to update price")
	ErrFailedToRefreshPrices  = errors.New("failed to refresh prices")
	ErrFailedToDeletePrice    = errors.New("failed to delete price")

	// Portfolio operation errors
	ErrFailedToGetDashboard    = errors.New("failed to get dashboard")
	ErrFailedToGetSummary      = errors.New("failed to get portfolio summary")
	ErrFailedToGetHistory      = errors.New("failed to get portfolio history")
	ErrFailedToGetSales        = errors.New("failed to get sales summary")
	ErrFailedToGetTickerDetail = errors.New("failed to get ticker detail")
)
