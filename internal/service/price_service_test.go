package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/stock-ledger/internal/apperrors"
	"github.com/ndewijer/stock-ledger/internal/testutil"
)

func TestPriceService_SetPrice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPriceService(t, db)
	ctx := context.Background()

	if _, err := svc.SetPrice(ctx, "aapl", 190.5); err != nil {
		t.Fatalf("SetPrice() returned unexpected error: %v", err)
	}
	if _, err := svc.SetPrice(ctx, "AAPL", 191); err != nil {
		t.Fatalf("SetPrice() overwrite returned unexpected error: %v", err)
	}

	prices, err := svc.ListPrices(ctx)
	if err != nil {
		t.Fatalf("ListPrices() returned unexpected error: %v", err)
	}
	if len(prices) != 1 {
		t.Fatalf("Expected 1 price, got %d", len(prices))
	}
	if prices[0].Ticker != "AAPL" || prices[0].Price != 191 {
		t.Errorf("Stored price = %+v, want AAPL at 191", prices[0])
	}
}

func TestPriceService_DeletePrice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPriceService(t, db)
	testutil.CreatePrice(t, db, "AAPL", 190)

	if err := svc.DeletePrice(context.Background(), "aapl"); err != nil {
		t.Fatalf("DeletePrice() returned unexpected error: %v", err)
	}
	if err := svc.DeletePrice(context.Background(), "AAPL"); !errors.Is(err, apperrors.ErrPriceNotFound) {
		t.Errorf("Expected ErrPriceNotFound, got %v", err)
	}
}

// TestPriceService_RefreshPrices tests the Yahoo Finance refresh.
//
// WHY: A refresh touches every ticker in the ledger. One unknown symbol must not
// keep the others from being updated.
func TestPriceService_RefreshPrices(t *testing.T) {
	t.Run("updates every ledger ticker from its latest close", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.CreateBuy(t, db, "AAPL", "2024-01-01", 10, 150)
		testutil.CreateBuy(t, db, "MSFT", "2024-01-02", 5, 370)

		mock := testutil.NewMockYahooClient().
			WithCloses("AAPL", 188, 189, 190.5).
			WithCloses("MSFT", 371, 370.8)
		svc := testutil.NewTestPriceServiceWithMockYahoo(t, db, mock)

		result, err := svc.RefreshPrices(context.Background())
		if err != nil {
			t.Fatalf("RefreshPrices() returned unexpected error: %v", err)
		}
		if len(result.Updated) != 2 || len(result.Failed) != 0 {
			t.Fatalf("Expected 2 updated and 0 failed, got %+v", result)
		}
		if result.Updated[0].Ticker != "AAPL" || result.Updated[1].Ticker != "MSFT" {
			t.Errorf("Updated tickers out of ledger order: %+v", result.Updated)
		}

		prices, err := svc.ListPrices(context.Background())
		if err != nil {
			t.Fatalf("ListPrices() returned unexpected error: %v", err)
		}
		got := map[string]float64{}
		for _, p := range prices {
			got[p.Ticker] = p.Price
		}
		if got["AAPL"] != 190.5 || got["MSFT"] != 370.8 {
			t.Errorf("Stored prices = %v, want AAPL 190.5 and MSFT 370.8", got)
		}
		if mock.QueryCount() != 2 {
			t.Errorf("Expected 2 lookups, got %d", mock.QueryCount())
		}
	})

	t.Run("reports failed tickers without aborting", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.CreateBuy(t, db, "AAPL", "2024-01-01", 10, 150)
		testutil.CreateBuy(t, db, "GONE", "2024-01-02", 1, 1)
		testutil.CreatePrice(t, db, "GONE", 2)

		mock := testutil.NewMockYahooClient().
			WithCloses("AAPL", 190).
			WithError("GONE", errors.New("delisted"))
		svc := testutil.NewTestPriceServiceWithMockYahoo(t, db, mock)

		result, err := svc.RefreshPrices(context.Background())
		if err != nil {
			t.Fatalf("RefreshPrices() returned unexpected error: %v", err)
		}
		if len(result.Updated) != 1 {
			t.Errorf("Expected 1 updated, got %d", len(result.Updated))
		}
		if reason, ok := result.Failed["GONE"]; !ok || reason != "delisted" {
			t.Errorf("Failed = %v, want GONE: delisted", result.Failed)
		}

		prices, _ := svc.ListPrices(context.Background())
		for _, p := range prices {
			if p.Ticker == "GONE" && p.Price != 2 {
				t.Errorf("Failed refresh overwrote GONE price with %v", p.Price)
			}
		}
	})

	t.Run("does nothing on an empty ledger", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockYahooClient()
		svc := testutil.NewTestPriceServiceWithMockYahoo(t, db, mock)

		result, err := svc.RefreshPrices(context.Background())
		if err != nil {
			t.Fatalf("RefreshPrices() returned unexpected error: %v", err)
		}
		if len(result.Updated) != 0 || len(result.Failed) != 0 || mock.QueryCount() != 0 {
			t.Errorf("Expected no work, got %+v with %d lookups", result, mock.QueryCount())
		}
	})

	t.Run("returns an error when the context is cancelled", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.CreateBuy(t, db, "AAPL", "2024-01-01", 10, 150)
		svc := testutil.NewTestPriceServiceWithMockYahoo(t, db, testutil.NewMockYahooClient().WithCloses("AAPL", 190))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := svc.RefreshPrices(ctx); err == nil {
			t.Error("Expected error for cancelled context, got nil")
		}
	})
}
