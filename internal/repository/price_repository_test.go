package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/stock-ledger/internal/apperrors"
	"github.com/ndewijer/stock-ledger/internal/model"
	"github.com/ndewijer/stock-ledger/internal/repository"
	"github.com/ndewijer/stock-ledger/internal/testutil"
)

func TestPriceRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewPriceRepository(db)

	prices, err := repo.ListPrices(ctx)
	if err != nil {
		t.Fatalf("ListPrices() returned unexpected error: %v", err)
	}
	if prices == nil || len(prices) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", prices)
	}

	now := time.Now()
	for _, p := range []model.CurrentPrice{
		{Ticker: "MSFT", Price: 400, UpdatedAt: now},
		{Ticker: "AAPL", Price: 150, UpdatedAt: now},
		{Ticker: "AAPL", Price: 175.25, UpdatedAt: now},
	} {
		if err := repo.UpsertPrice(ctx, p); err != nil {
			t.Fatalf("UpsertPrice(%s) returned unexpected error: %v", p.Ticker, err)
		}
	}

	prices, err = repo.ListPrices(ctx)
	if err != nil {
		t.Fatalf("ListPrices() returned unexpected error: %v", err)
	}
	if len(prices) != 2 || prices[0].Ticker != "AAPL" || prices[1].Ticker != "MSFT" {
		t.Fatalf("ListPrices() = %+v, want AAPL then MSFT", prices)
	}
	if prices[0].UpdatedAt.IsZero() {
		t.Error("Expected UpdatedAt to be set")
	}

	priceMap, err := repo.GetPriceMap(ctx)
	if err != nil {
		t.Fatalf("GetPriceMap() returned unexpected error: %v", err)
	}
	if priceMap["AAPL"] != 175.25 || priceMap["MSFT"] != 400 {
		t.Errorf("GetPriceMap() = %v", priceMap)
	}

	if err := repo.DeletePrice(ctx, "MSFT"); err != nil {
		t.Fatalf("DeletePrice() returned unexpected error: %v", err)
	}
	if err := repo.DeletePrice(ctx, "MSFT"); !errors.Is(err, apperrors.ErrPriceNotFound) {
		t.Errorf("DeletePrice() error = %v, want ErrPriceNotFound", err)
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain date", "2024-01-15", "2024-01-15", false},
		{"RFC3339", "2024-01-15T00:00:00Z", "2024-01-15", false},
		{"RFC3339 with fraction", "2024-01-15T10:30:00.123456789Z", "2024-01-15", false},
		{"SQLite timestamp", "2024-01-15 10:30:00", "2024-01-15", false},
		{"garbage", "15/01/2024", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repository.ParseTime(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTime(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseTime(%q) = %v, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestPriceRepository_UpsertKeepsOnePricePerTicker(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPriceRepository(testutil.SetupTestDB(t))
	ticker := testutil.MakeTicker("ETF")

	for _, price := range []float64{10, 11, 12.5} {
		if err := repo.UpsertPrice(ctx, model.CurrentPrice{Ticker: ticker, Price: price, UpdatedAt: time.Now()}); err != nil {
			t.Fatalf("UpsertPrice() returned unexpected error: %v", err)
		}
	}

	prices, err := repo.ListPrices(ctx)
	if err != nil {
		t.Fatalf("ListPrices() returned unexpected error: %v", err)
	}
	if len(prices) != 1 || prices[0].Price != 12.5 {
		t.Errorf("ListPrices() = %+v, want single price 12.5", prices)
	}
}
