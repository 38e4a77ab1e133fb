package accounting

import "github.com/ndewijer/stock-ledger/internal/model"

// CapitalGainsTaxRate is the flat tax applied to positive P/L in PLAfterTax.
const CapitalGainsTaxRate = 0.19

// Summarize values a position at currentPrice.
//
// Only a net-long position carries value; flat and short positions are worth 0.
// TotalPL compares that value with the lifetime buy cost, so it is a headline
// figure and not the realized/unrealized split of ComputeRealizedGains.
// Losses are passed through PLAfterTax unchanged.
func Summarize(pos Position, currentPrice float64) model.StockSummary {
	currentValue := max(0, pos.TotalQuantity) * currentPrice
	totalPL := currentValue - pos.TotalCost

	var averagePL float64
	if pos.TotalQuantity > 0 {
		averagePL = currentPrice - pos.WeightedAveragePrice
	}

	plAfterTax := totalPL
	if totalPL > 0 {
		plAfterTax = totalPL * (1 - CapitalGainsTaxRate)
	}

	return model.StockSummary{
		Ticker:               pos.Ticker,
		TotalQuantity:        pos.TotalQuantity,
		WeightedAveragePrice: pos.WeightedAveragePrice,
		TotalCost:            pos.TotalCost,
		CurrentPrice:         currentPrice,
		CurrentValue:         currentValue,
		TotalPL:              totalPL,
		TotalPLPercentage:    ratio(totalPL, pos.TotalCost) * 100,
		AveragePL:            averagePL,
		PLAfterTax:           plAfterTax,
	}
}

// ComputeSummaries returns one summary per distinct ticker, in order of first appearance.
func ComputeSummaries(transactions []model.Transaction, prices model.PriceMap) []model.StockSummary {
	tickers := Tickers(transactions)
	summaries := make([]model.StockSummary, len(tickers))
	for i, ticker := range tickers {
		summaries[i] = Summarize(AggregatePosition(transactions, ticker), prices.Get(ticker))
	}
	return summaries
}
