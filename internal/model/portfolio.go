package model

// StockSummary is the per-ticker position snapshot valued at the current price.
//
// TotalCost is the lifetime buy-side cost (commission included); sells never
// reduce it. TotalPL compares that figure with the current value of the
// net-long position, and PLAfterTax applies a flat capital gains tax to gains only.
type StockSummary struct {
	Ticker               string  `json:"ticker"`
	TotalQuantity        float64 `json:"totalQuantity"`
	WeightedAveragePrice float64 `json:"weightedAveragePrice"`
	TotalCost            float64 `json:"totalCost"`
	CurrentPrice         float64 `json:"currentPrice"`
	CurrentValue         float64 `json:"currentValue"`
	TotalPL              float64 `json:"totalPL"`
	TotalPLPercentage    float64 `json:"totalPLPercentage"`
	AveragePL            float64 `json:"averagePL"`
	PLAfterTax           float64 `json:"plAfterTax"`
}

// TransactionWithPL is a ledger row annotated with its market-relative P/L.
type TransactionWithPL struct {
	Transaction
	CurrentPrice float64 `json:"currentPrice"`
	CurrentValue float64 `json:"currentValue"`
	PL           float64 `json:"pl"`
}

// PortfolioHistoryPoint is the aggregate portfolio cost and value at the end of a transaction date.
type PortfolioHistoryPoint struct {
	Date       string  `json:"date"` // YYYY-MM-DD
	TotalCost  float64 `json:"totalCost"`
	TotalValue float64 `json:"totalValue"`
}

// SalesSummary aggregates every sell transaction in the ledger.
type SalesSummary struct {
	SalesCount            int     `json:"salesCount"`
	TotalSalesQuantity    float64 `json:"totalSalesQuantity"`
	TotalSalesValue       float64 `json:"totalSalesValue"`       // Proceeds net of commission
	TotalSalesCommissions float64 `json:"totalSalesCommissions"` // Commission paid on sells
}

// PortfolioTotals are the portfolio-level figures composed from the per-ticker summaries.
type PortfolioTotals struct {
	TotalCost         float64 `json:"totalCost"`         // Sum of lifetime buy cost
	TotalValue        float64 `json:"totalValue"`        // Sum of current position values
	UnrealizedPL      float64 `json:"unrealizedPL"`      // TotalValue - TotalCost
	RealizedPL        float64 `json:"realizedPL"`        // Average-cost realized gain/loss
	TotalPL           float64 `json:"totalPL"`           // UnrealizedPL + RealizedPL
	TotalPLPercentage float64 `json:"totalPLPercentage"` // TotalPL relative to TotalCost
}

// AllocationSlice is one ticker's share of the portfolio's current value.
type AllocationSlice struct {
	Ticker string  `json:"ticker"`
	Value  float64 `json:"value"`
	PL     float64 `json:"pl"`
	Weight float64 `json:"weight"` // Percentage of total value
}

// Oversell describes a sell whose quantity exceeded the shares held at that point of the ledger.
// The excess is not part of any realized gain.
type Oversell struct {
	TransactionID string  `json:"transactionId"`
	Ticker        string  `json:"ticker"`
	Date          string  `json:"date"`
	Requested     float64 `json:"requested"`
	Held          float64 `json:"held"`
	Excess        float64 `json:"excess"`
}

// Dashboard is the full derived view of the ledger returned to clients.
type Dashboard struct {
	Summaries     []StockSummary          `json:"summaries"`
	Transactions  []TransactionWithPL     `json:"transactions"`
	History       []PortfolioHistoryPoint `json:"history"`
	Totals        PortfolioTotals         `json:"totals"`
	RealizedGains float64                 `json:"realizedGains"`
	SalesSummary  SalesSummary            `json:"salesSummary"`
	Allocation    []AllocationSlice       `json:"allocation"`
	Oversells     []Oversell              `json:"oversells"`
}

// TickerDetail is the drill-down view for a single ticker.
type TickerDetail struct {
	Summary       StockSummary        `json:"summary"`
	Transactions  []TransactionWithPL `json:"transactions"`
	RealizedGains float64             `json:"realizedGains"`
}

// PortfolioOverview is the per-ticker summary table together with the portfolio totals.
type PortfolioOverview struct {
	Summaries []StockSummary  `json:"summaries"`
	Totals    PortfolioTotals `json:"totals"`
}
