package accounting

import "github.com/ndewijer/stock-ledger/internal/model"

// ComputeTotals composes portfolio totals from the per-ticker summaries and the realized gains.
//
// UnrealizedPL is the summed current value minus the summed lifetime buy cost,
// and TotalPL adds the realized gains on top of it.
func ComputeTotals(summaries []model.StockSummary, realizedGains float64) model.PortfolioTotals {
	var totals model.PortfolioTotals
	for _, s := range summaries {
		totals.TotalCost += s.TotalCost
		totals.TotalValue += s.CurrentValue
	}

	totals.UnrealizedPL = totals.TotalValue - totals.TotalCost
	totals.RealizedPL = realizedGains
	totals.TotalPL = totals.UnrealizedPL + realizedGains
	totals.TotalPLPercentage = ratio(totals.TotalPL, totals.TotalCost) * 100

	return totals
}

// ComputeAllocation splits the portfolio's current value across tickers.
// Weight is a percentage of the total value, 0 when the portfolio is worth nothing.
func ComputeAllocation(summaries []model.StockSummary) []model.AllocationSlice {
	var totalValue float64
	for _, s := range summaries {
		totalValue += s.CurrentValue
	}

	allocation := make([]model.AllocationSlice, len(summaries))
	for i, s := range summaries {
		allocation[i] = model.AllocationSlice{
			Ticker: s.Ticker,
			Value:  s.CurrentValue,
			PL:     s.TotalPL,
			Weight: ratio(s.CurrentValue, totalValue) * 100,
		}
	}
	return allocation
}
