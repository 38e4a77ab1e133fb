package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/stock-ledger/internal/apperrors"
)

const chartJSON = `{
  "chart": {
    "result": [{
      "meta": {"currency": "USD", "symbol": "AAPL", "exchangeName": "NMS", "regularMarketPrice": 191.2},
      "timestamp": [1704067200, 1704153600, 1704240000],
      "indicators": {"quote": [{"close": [185.5, 190.5, null]}]}
    }],
    "error": null
  }
}`

func TestFinanceClient_QueryFiveDaySymbol(t *testing.T) {
	t.Run("parses the latest close", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(chartJSON))
		}))
		defer server.Close()

		client := NewFinanceClientWithBaseURL(server.URL)

		resp, err := client.QueryFiveDaySymbol(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("QueryFiveDaySymbol() returned unexpected error: %v", err)
		}
		if gotPath != "/AAPL" {
			t.Errorf("Expected path /AAPL, got %s", gotPath)
		}

		chart, err := client.ParseChart(resp)
		if err != nil {
			t.Fatalf("ParseChart() returned unexpected error: %v", err)
		}
		if len(chart.Closes) != 3 {
			t.Fatalf("Expected 3 closes, got %d", len(chart.Closes))
		}

		price, ok := chart.LatestPrice()
		if !ok || price != 190.5 {
			t.Errorf("Expected latest price 190.5, got %v (%v)", price, ok)
		}
	})

	t.Run("reports yahoo errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
		}))
		defer server.Close()

		_, err := NewFinanceClientWithBaseURL(server.URL).QueryFiveDaySymbol(context.Background(), "NOPE")
		if err == nil || !strings.Contains(err.Error(), "Not Found") {
			t.Errorf("Expected yahoo error, got %v", err)
		}
	})

	t.Run("empty result is symbol not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
		}))
		defer server.Close()

		_, err := NewFinanceClientWithBaseURL(server.URL).QueryFiveDaySymbol(context.Background(), "NOPE")
		if !errors.Is(err, apperrors.ErrSymbolNotFound) {
			t.Errorf("Expected ErrSymbolNotFound, got %v", err)
		}
	})
}

func TestPriceChart_LatestPrice(t *testing.T) {
	t.Run("falls back to market price", func(t *testing.T) {
		chart := PriceChart{RegularMarketPrice: 12.5, Closes: []Close{{Price: 0}}}

		price, ok := chart.LatestPrice()
		if !ok || price != 12.5 {
			t.Errorf("Expected 12.5, got %v (%v)", price, ok)
		}
	})

	t.Run("no price available", func(t *testing.T) {
		if _, ok := (PriceChart{}).LatestPrice(); ok {
			t.Error("Expected no price")
		}
	})
}
