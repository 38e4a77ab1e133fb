package accounting

import "github.com/ndewijer/stock-ledger/internal/model"

// holding is the running quantity and cost of one ticker while rebuilding history.
type holding struct {
	quantity float64
	cost     float64
}

// ComputeHistory rebuilds the portfolio's cost and value after each transaction,
// valued at today's prices, keeping one point per date.
//
// This pass tracks its own per-ticker state, independent of ComputeRealizedGains.
// A buy adds quantity*price + commission to the ticker's cost. A sell removes
// the sold fraction of the pre-sale holding from the cost, never going below 0;
// a sell with nothing held clears the cost.
//
// When several transactions share a date only the point after the last one is
// kept. Points come out in ascending date order.
func ComputeHistory(transactions []model.Transaction, prices model.PriceMap) []model.PortfolioHistoryPoint {
	history := []model.PortfolioHistoryPoint{}
	if len(transactions) == 0 {
		return history
	}

	holdings := make(map[string]*holding)
	tickers := []string{}

	for _, t := range sortChronologically(transactions) {
		h, ok := holdings[t.Ticker]
		if !ok {
			h = &holding{}
			holdings[t.Ticker] = h
			tickers = append(tickers, t.Ticker)
		}

		h.quantity += t.Quantity
		switch {
		case t.IsBuy():
			h.cost += abs(t.Quantity)*t.Price + t.Commission
		case t.IsSell():
			sold := abs(t.Quantity)
			preSale := h.quantity + sold
			saleRatio := 1.0
			if preSale > 0 {
				saleRatio = sold / preSale
			}
			h.cost = max(0, h.cost*(1-saleRatio))
		}

		var totalCost, totalValue float64
		for _, ticker := range tickers {
			th := holdings[ticker]
			totalCost += th.cost
			totalValue += max(0, th.quantity) * prices.Get(ticker)
		}

		point := model.PortfolioHistoryPoint{
			Date:       t.Date,
			TotalCost:  totalCost,
			TotalValue: totalValue,
		}

		// Same-day transactions are adjacent after sorting.
		if last := len(history) - 1; last >= 0 && history[last].Date == t.Date {
			history[last] = point
			continue
		}
		history = append(history, point)
	}

	return history
}
