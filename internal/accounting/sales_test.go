package accounting

import (
	"testing"

	"github.com/ndewijer/stock-ledger/internal/model"
)

func TestComputeSalesSummary(t *testing.T) {
	t.Run("no sells", func(t *testing.T) {
		summary := ComputeSalesSummary([]model.Transaction{tx("2023-01-15", "AAPL", 10, 100, 1)})

		if summary != (model.SalesSummary{}) {
			t.Errorf("Expected zero summary, got %+v", summary)
		}
	})

	t.Run("totals sells only", func(t *testing.T) {
		ledger := []model.Transaction{
			tx("2023-01-15", "AAPL", 10, 100, 1),
			tx("2023-02-15", "AAPL", -4, 150, 2),
			tx("2023-03-15", "MSFT", -1, 300, 0.5),
		}

		summary := ComputeSalesSummary(ledger)

		if summary.SalesCount != 2 {
			t.Errorf("SalesCount = %d, want 2", summary.SalesCount)
		}
		assertFloat(t, "TotalSalesQuantity", summary.TotalSalesQuantity, 5)
		assertFloat(t, "TotalSalesValue", summary.TotalSalesValue, 598+299.5)
		assertFloat(t, "TotalSalesCommissions", summary.TotalSalesCommissions, 2.5)
	})
}
