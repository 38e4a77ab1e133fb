package accounting

import (
	"cmp"
	"slices"

	"github.com/ndewijer/stock-ledger/internal/model"
)

// sortChronologically returns a copy of transactions ordered by date.
// Transactions on the same date keep their ledger order.
func sortChronologically(transactions []model.Transaction) []model.Transaction {
	sorted := slices.Clone(transactions)
	slices.SortStableFunc(sorted, func(a, b model.Transaction) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return sorted
}

// Tickers returns the distinct tickers of the ledger in order of first appearance.
func Tickers(transactions []model.Transaction) []string {
	seen := make(map[string]bool)
	tickers := []string{}
	for _, t := range transactions {
		if seen[t.Ticker] {
			continue
		}
		seen[t.Ticker] = true
		tickers = append(tickers, t.Ticker)
	}
	return tickers
}

// FilterByTicker returns the transactions for one ticker, in ledger order.
func FilterByTicker(transactions []model.Transaction, ticker string) []model.Transaction {
	filtered := []model.Transaction{}
	for _, t := range transactions {
		if t.Ticker == ticker {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ratio divides a by b, returning 0 when b is not positive.
func ratio(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return a / b
}
