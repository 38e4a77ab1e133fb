package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/stock-ledger/internal/model"
)

// TransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	// Simple creation with defaults (buy 10 AAPL at 100 on 2024-01-01)
//	tx := testutil.NewTransaction().Build(t, db)
//
//	// Customized sell
//	tx := testutil.NewTransaction().
//	    WithTicker("MSFT").
//	    WithDate("2024-03-15").
//	    WithQuantity(-5).
//	    WithPrice(370).
//	    Build(t, db)
type TransactionBuilder struct {
	ID         string
	Date       string
	Ticker     string
	Quantity   float64
	Price      float64
	Commission float64
}

// NewTransaction creates a TransactionBuilder with sensible defaults.
func NewTransaction() *TransactionBuilder {
	return &TransactionBuilder{
		ID:       MakeID(),
		Date:     "2024-01-01",
		Ticker:   "AAPL",
		Quantity: 10,
		Price:    100,
	}
}

// WithID sets a custom ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.ID = id
	return b
}

// WithDate sets the trade date (YYYY-MM-DD).
func (b *TransactionBuilder) WithDate(date string) *TransactionBuilder {
	b.Date = date
	return b
}

// WithTicker sets the ticker symbol.
func (b *TransactionBuilder) WithTicker(ticker string) *TransactionBuilder {
	b.Ticker = ticker
	return b
}

// WithQuantity sets the signed quantity. Negative quantities are sells.
func (b *TransactionBuilder) WithQuantity(quantity float64) *TransactionBuilder {
	b.Quantity = quantity
	return b
}

// WithPrice sets the per-share price.
func (b *TransactionBuilder) WithPrice(price float64) *TransactionBuilder {
	b.Price = price
	return b
}

// WithCommission sets the commission.
func (b *TransactionBuilder) WithCommission(commission float64) *TransactionBuilder {
	b.Commission = commission
	return b
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	createdAt := time.Now().UTC().Truncate(time.Second)
	query := `
		INSERT INTO stock_transaction (id, date, ticker, quantity, price, commission, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Date, b.Ticker, b.Quantity, b.Price, b.Commission, createdAt.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return model.Transaction{
		ID:         b.ID,
		Date:       b.Date,
		Ticker:     b.Ticker,
		Quantity:   b.Quantity,
		Price:      b.Price,
		Commission: b.Commission,
		CreatedAt:  createdAt,
	}
}

// Convenience functions

// CreateBuy records a commission-free buy.
//
// Example usage:
//
//	testutil.CreateBuy(t, db, "AAPL", "2024-01-01", 10, 150)
func CreateBuy(t *testing.T, db *sql.DB, ticker, date string, quantity, price float64) model.Transaction {
	t.Helper()
	return NewTransaction().WithTicker(ticker).WithDate(date).WithQuantity(quantity).WithPrice(price).Build(t, db)
}

// CreateSell records a commission-free sell of quantity shares.
// quantity is given as a positive number.
func CreateSell(t *testing.T, db *sql.DB, ticker, date string, quantity, price float64) model.Transaction {
	t.Helper()
	return NewTransaction().WithTicker(ticker).WithDate(date).WithQuantity(-quantity).WithPrice(price).Build(t, db)
}

// CreatePrice stores a current price for ticker.
func CreatePrice(t *testing.T, db *sql.DB, ticker string, price float64) model.CurrentPrice {
	t.Helper()

	p := model.CurrentPrice{
		Ticker:    ticker,
		Price:     price,
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}

	_, err := db.Exec(
		`INSERT INTO current_price (ticker, price, updated_at) VALUES (?, ?, ?)`,
		p.Ticker, p.Price, p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test price: %v", err)
	}

	return p
}

// CountTransactions returns the number of rows in the ledger table.
func CountTransactions(t *testing.T, db *sql.DB) int {
	t.Helper()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM stock_transaction`).Scan(&count); err != nil {
		t.Fatalf("Failed to count transactions: %v", err)
	}
	return count
}
