package accounting

import (
	"fmt"
	"math"
	"testing"

	"github.com/ndewijer/stock-ledger/internal/model"
)

const tolerance = 1e-9

func assertFloat(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

var txSeq int

func tx(date, ticker string, quantity, price, commission float64) model.Transaction {
	txSeq++
	return model.Transaction{
		ID:         fmt.Sprintf("tx-%d", txSeq),
		Date:       date,
		Ticker:     ticker,
		Quantity:   quantity,
		Price:      price,
		Commission: commission,
	}
}

// sampleLedger mirrors a typical multi-ticker ledger with sells and commissions.
func sampleLedger() []model.Transaction {
	return []model.Transaction{
		tx("2023-01-15", "AAPL", 10, 150, 1.5),
		tx("2023-03-22", "GOOGL", 5, 105.5, 0),
		tx("2023-06-05", "AAPL", 5, 175.25, 2),
		tx("2023-08-10", "MSFT", 8, 320, 0),
		tx("2023-09-01", "AAPL", -6, 180, 1),
		tx("2024-01-20", "GOOGL", 3, 140.75, 0),
	}
}

func samplePrices() model.PriceMap {
	return model.PriceMap{
		"AAPL":  190.50,
		"GOOGL": 155.20,
		"MSFT":  370.80,
	}
}
