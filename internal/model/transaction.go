package model

import "time"

// Transaction represents a single buy or sell of a ticker.
// A positive Quantity is a buy, a negative Quantity is a sell.
// Commission defaults to 0 and is never negative.
type Transaction struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"` // YYYY-MM-DD
	Ticker     string    `json:"ticker"`
	Quantity   float64   `json:"quantity"`
	Price      float64   `json:"price"`
	Commission float64   `json:"commission"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
	ExternalID string    `json:"externalId,omitempty"` // Broker reference of imported trades
}

// IsBuy reports whether the transaction acquires shares.
func (t Transaction) IsBuy() bool {
	return t.Quantity > 0
}

// IsSell reports whether the transaction disposes of shares.
func (t Transaction) IsSell() bool {
	return t.Quantity < 0
}

// TransactionFilter narrows a transaction listing.
// Empty fields are ignored; StartDate and EndDate are inclusive.
type TransactionFilter struct {
	Ticker    string
	StartDate string
	EndDate   string
}

// Matches reports whether t passes the filter.
// Dates are compared as YYYY-MM-DD strings, which sort chronologically.
func (f TransactionFilter) Matches(t Transaction) bool {
	if f.Ticker != "" && t.Ticker != f.Ticker {
		return false
	}
	if f.StartDate != "" && t.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && t.Date > f.EndDate {
		return false
	}
	return true
}

// IsEmpty reports whether no filter field is set.
func (f TransactionFilter) IsEmpty() bool {
	return f.Ticker == "" && f.StartDate == "" && f.EndDate == ""
}

// ImportRowError describes a CSV row that was skipped during import.
type ImportRowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportResult reports the outcome of a CSV import.
type ImportResult struct {
	Imported     []Transaction    `json:"imported"`
	Skipped      []ImportRowError `json:"skipped"`
	ImportedRows int              `json:"importedRows"`
}
