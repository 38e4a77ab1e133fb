package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/stock-ledger/internal/repository"
	"github.com/ndewijer/stock-ledger/internal/service"
	"github.com/ndewijer/stock-ledger/internal/yahoo"
	"github.com/patrickmn/go-cache"
)

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(
		repository.NewTransactionRepository(db),
	)
}

// NewTestPortfolioService builds a PortfolioService with a fresh cache.
func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		repository.NewTransactionRepository(db),
		repository.NewPriceRepository(db),
		cache.New(5*time.Minute, 10*time.Minute),
	)
}

func NewTestPriceService(t *testing.T, db *sql.DB) *service.PriceService {
	t.Helper()
	return NewTestPriceServiceWithMockYahoo(t, db, NewMockYahooClient())
}

// NewTestPriceServiceWithMockYahoo builds a PriceService without rate limiting around mockYahoo.
func NewTestPriceServiceWithMockYahoo(t *testing.T, db *sql.DB, mockYahoo yahoo.Client) *service.PriceService {
	t.Helper()

	return service.NewPriceService(
		repository.NewPriceRepository(db),
		repository.NewTransactionRepository(db),
		mockYahoo,
		nil,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}

// MakeID generates a unique ID for test data.
func MakeID() string {
	return uuid.New().String()
}

// MakeTicker returns base followed by a random suffix, for tests that need distinct tickers.
func MakeTicker(base string) string {
	return base + randomAlphanumeric(3)
}

func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))] //nolint:gosec // test data
	}
	return string(b)
}
