package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/stock-ledger/internal/model"
	"github.com/ndewijer/stock-ledger/internal/testutil"
)

func setupPriceHandler(t *testing.T, mock *testutil.MockYahooClient) (*PriceHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewPriceHandler(testutil.NewTestPriceServiceWithMockYahoo(t, db, mock)), db
}

func TestPriceHandler_UpdatePrice(t *testing.T) {
	t.Run("stores the price under the uppercased ticker", func(t *testing.T) {
		handler, _ := setupPriceHandler(t, testutil.NewMockYahooClient())

		req := testutil.NewJSONRequest(t, http.MethodPut, "/api/price/aapl",
			map[string]any{"price": 190.5}, map[string]string{"ticker": "aapl"})
		w := httptest.NewRecorder()
		handler.UpdatePrice(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		price := testutil.DecodeJSON[model.CurrentPrice](t, w)
		if price.Ticker != "AAPL" || price.Price != 190.5 {
			t.Errorf("Price = %+v", price)
		}

		w = httptest.NewRecorder()
		handler.ListPrices(w, httptest.NewRequest(http.MethodGet, "/api/price", nil))
		prices := testutil.DecodeJSON[[]model.CurrentPrice](t, w)
		if len(prices) != 1 || prices[0].Ticker != "AAPL" {
			t.Errorf("Prices = %+v", prices)
		}
	})

	t.Run("rejects a negative price", func(t *testing.T) {
		handler, _ := setupPriceHandler(t, testutil.NewMockYahooClient())

		req := testutil.NewJSONRequest(t, http.MethodPut, "/api/price/AAPL",
			map[string]any{"price": -1}, map[string]string{"ticker": "AAPL"})
		w := httptest.NewRecorder()
		handler.UpdatePrice(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestPriceHandler_DeletePrice(t *testing.T) {
	handler, db := setupPriceHandler(t, testutil.NewMockYahooClient())
	testutil.CreatePrice(t, db, "AAPL", 190)

	req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/price/AAPL", map[string]string{"ticker": "AAPL"})
	w := httptest.NewRecorder()
	handler.DeletePrice(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.DeletePrice(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on second delete, got %d", w.Code)
	}
}

func TestPriceHandler_RefreshPrices(t *testing.T) {
	mock := testutil.NewMockYahooClient().
		WithCloses("AAPL", 189, 190).
		WithError("XXX", errors.New("no data"))
	handler, db := setupPriceHandler(t, mock)
	testutil.CreateBuy(t, db, "AAPL", "2024-01-01", 1, 100)
	testutil.CreateBuy(t, db, "XXX", "2024-01-01", 1, 1)

	w := httptest.NewRecorder()
	handler.RefreshPrices(w, httptest.NewRequest(http.MethodPost, "/api/price/refresh", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	result := testutil.DecodeJSON[model.PriceRefreshResult](t, w)
	if len(result.Updated) != 1 || result.Updated[0].Price != 190 {
		t.Errorf("Updated = %+v", result.Updated)
	}
	if result.Failed["XXX"] != "no data" {
		t.Errorf("Failed = %v", result.Failed)
	}
}
