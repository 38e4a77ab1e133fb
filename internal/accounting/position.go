package accounting

import "github.com/ndewijer/stock-ledger/internal/model"

// Position is the aggregate of every transaction for one ticker.
type Position struct {
	Ticker               string
	TotalQuantity        float64 // Net signed quantity, buys and sells
	TotalBuyQuantity     float64 // Shares acquired by buys only
	TotalBuyCost         float64 // Buy cost including commission
	WeightedAveragePrice float64 // TotalBuyCost / TotalBuyQuantity
	TotalCost            float64 // Lifetime acquisition cost, not reduced by sells
}

// AggregatePosition computes the position of ticker from the full ledger.
//
// TotalQuantity is the signed sum of every transaction for the ticker.
// The buy-side figures only consider transactions with a positive quantity:
//   - TotalBuyCost sums quantity*price + commission
//   - WeightedAveragePrice is TotalBuyCost per bought share, or 0 with no buys
//   - TotalCost sums |quantity|*price + commission and is never reduced by sells
//
// A ticker with only sells yields a zero average price and zero cost.
func AggregatePosition(transactions []model.Transaction, ticker string) Position {
	pos := Position{Ticker: ticker}

	for _, t := range transactions {
		if t.Ticker != ticker {
			continue
		}
		pos.TotalQuantity += t.Quantity

		if !t.IsBuy() {
			continue
		}
		pos.TotalBuyQuantity += t.Quantity
		pos.TotalBuyCost += t.Quantity*t.Price + t.Commission
		pos.TotalCost += abs(t.Quantity)*t.Price + t.Commission
	}

	pos.WeightedAveragePrice = ratio(pos.TotalBuyCost, pos.TotalBuyQuantity)

	return pos
}
