package accounting

import "github.com/ndewijer/stock-ledger/internal/model"

// ComputeTransactionsWithPL annotates every row with its value at the current price.
//
// For a buy, PL is the current value of the bought shares minus what they cost.
// For a sell, PL is what the sale brought in minus what the shares are worth
// today. Neither is a realized gain against the acquisition cost.
func ComputeTransactionsWithPL(transactions []model.Transaction, prices model.PriceMap) []model.TransactionWithPL {
	rows := make([]model.TransactionWithPL, len(transactions))
	for i, t := range transactions {
		rows[i] = valueTransaction(t, prices.Get(t.Ticker))
	}
	return rows
}

func valueTransaction(t model.Transaction, currentPrice float64) model.TransactionWithPL {
	quantity := abs(t.Quantity)
	currentValue := quantity * currentPrice
	cost := quantity*t.Price + t.Commission

	var pl float64
	switch {
	case t.IsBuy():
		pl = currentValue - cost
	case t.IsSell():
		pl = cost - currentValue
	}

	return model.TransactionWithPL{
		Transaction:  t,
		CurrentPrice: currentPrice,
		CurrentValue: currentValue,
		PL:           pl,
	}
}
