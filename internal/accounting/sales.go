package accounting

import "github.com/ndewijer/stock-ledger/internal/model"

// ComputeSalesSummary totals every sell transaction of the ledger.
// TotalSalesValue is the proceeds net of commission.
func ComputeSalesSummary(transactions []model.Transaction) model.SalesSummary {
	var summary model.SalesSummary
	for _, t := range transactions {
		if !t.IsSell() {
			continue
		}
		quantity := abs(t.Quantity)
		summary.SalesCount++
		summary.TotalSalesQuantity += quantity
		summary.TotalSalesValue += quantity*t.Price - t.Commission
		summary.TotalSalesCommissions += t.Commission
	}
	return summary
}
