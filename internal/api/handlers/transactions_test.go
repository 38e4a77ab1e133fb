package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/stock-ledger/internal/api/response"
	"github.com/ndewijer/stock-ledger/internal/model"
	"github.com/ndewijer/stock-ledger/internal/testutil"
)

func setupTransactionHandler(t *testing.T) (*TransactionHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewTransactionHandler(testutil.NewTestTransactionService(t, db)), db
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	handler, db := setupTransactionHandler(t)
	testutil.CreateBuy(t, db, "AAPL", "2024-01-01", 10, 150)
	testutil.CreateBuy(t, db, "MSFT", "2024-02-01", 5, 370)

	tests := []struct {
		name       string
		query      map[string]string
		wantStatus int
		wantLen    int
	}{
		{"returns the whole ledger", nil, http.StatusOK, 2},
		{"filters by lowercase ticker", map[string]string{"ticker": "msft"}, http.StatusOK, 1},
		{"filters by date range", map[string]string{"start_date": "2024-01-15", "end_date": "2024-12-31"}, http.StatusOK, 1},
		{"rejects malformed date", map[string]string{"start_date": "01/01/2024"}, http.StatusBadRequest, 0},
		{"rejects inverted range", map[string]string{"start_date": "2024-12-31", "end_date": "2024-01-01"}, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/transaction", tt.query)
			w := httptest.NewRecorder()

			handler.ListTransactions(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			transactions := testutil.DecodeJSON[[]model.Transaction](t, w)
			if len(transactions) != tt.wantLen {
				t.Errorf("Expected %d transactions, got %d", tt.wantLen, len(transactions))
			}
		})
	}
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("creates a transaction", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction", map[string]any{
			"date":     "2024-01-15",
			"ticker":   "aapl",
			"quantity": 10,
			"price":    150.15,
		}, nil)
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		created := testutil.DecodeJSON[model.Transaction](t, w)
		if created.Ticker != "AAPL" || created.Commission != 0 {
			t.Errorf("Created = %+v, want AAPL with zero commission", created)
		}
		if got := testutil.CountTransactions(t, db); got != 1 {
			t.Errorf("Expected 1 stored transaction, got %d", got)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"rejects malformed JSON", `{"date":`},
		{"rejects unknown fields", `{"date":"2024-01-01","ticker":"AAPL","quantity":1,"price":1,"side":"buy"}`},
		{"rejects zero quantity", `{"date":"2024-01-01","ticker":"AAPL","quantity":0,"price":1}`},
		{"rejects negative price", `{"date":"2024-01-01","ticker":"AAPL","quantity":1,"price":-1}`},
		{"rejects bad date", `{"date":"2024-02-30","ticker":"AAPL","quantity":1,"price":1}`},
		{"rejects missing ticker", `{"date":"2024-01-01","quantity":1,"price":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, db := setupTransactionHandler(t)

			req := testutil.NewRawRequest(http.MethodPost, "/api/transaction", "application/json", tt.body, nil)
			w := httptest.NewRecorder()

			handler.CreateTransaction(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if got := testutil.CountTransactions(t, db); got != 0 {
				t.Errorf("Expected nothing stored, got %d", got)
			}
		})
	}
}

func TestTransactionHandler_GetUpdateDelete(t *testing.T) {
	t.Run("get returns the transaction", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		tx := testutil.NewTransaction().Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/transaction/"+tx.ID, map[string]string{"uuid": tx.ID})
		w := httptest.NewRecorder()
		handler.GetTransaction(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if got := testutil.DecodeJSON[model.Transaction](t, w); got.ID != tx.ID {
			t.Errorf("Expected ID %s, got %s", tx.ID, got.ID)
		}
	})

	t.Run("get returns 404 for unknown id", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t)
		id := testutil.MakeID()

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/transaction/"+id, map[string]string{"uuid": id})
		w := httptest.NewRecorder()
		handler.GetTransaction(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
		errResp := testutil.DecodeJSON[response.ErrorResponse](t, w)
		if errResp.Error != "transaction not found" {
			t.Errorf("Expected 'transaction not found', got %q", errResp.Error)
		}
	})

	t.Run("update replaces provided fields", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		tx := testutil.NewTransaction().Build(t, db)

		req := testutil.NewJSONRequest(t, http.MethodPut, "/api/transaction/"+tx.ID,
			map[string]any{"price": 99.5}, map[string]string{"uuid": tx.ID})
		w := httptest.NewRecorder()
		handler.UpdateTransaction(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		updated := testutil.DecodeJSON[model.Transaction](t, w)
		if updated.Price != 99.5 || updated.Quantity != tx.Quantity {
			t.Errorf("Updated = %+v", updated)
		}
	})

	t.Run("update rejects zero quantity", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		tx := testutil.NewTransaction().Build(t, db)

		req := testutil.NewJSONRequest(t, http.MethodPut, "/api/transaction/"+tx.ID,
			map[string]any{"quantity": 0}, map[string]string{"uuid": tx.ID})
		w := httptest.NewRecorder()
		handler.UpdateTransaction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("delete removes the transaction", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		tx := testutil.NewTransaction().Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/transaction/"+tx.ID, map[string]string{"uuid": tx.ID})
		w := httptest.NewRecorder()
		handler.DeleteTransaction(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d", w.Code)
		}

		w = httptest.NewRecorder()
		handler.DeleteTransaction(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404 on second delete, got %d", w.Code)
		}
	})
}

func TestTransactionHandler_ImportExport(t *testing.T) {
	t.Run("imports CSV and reports skipped lines", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)

		body := "Date,Ticker,Quantity,Price\n2024-01-01,AAPL,10,150\nnot-a-date,AAPL,1,1\n"
		req := testutil.NewRawRequest(http.MethodPost, "/api/transaction/import", "text/csv", body, nil)
		w := httptest.NewRecorder()
		handler.ImportTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		result := testutil.DecodeJSON[model.ImportResult](t, w)
		if result.ImportedRows != 1 || len(result.Skipped) != 1 || result.Skipped[0].Line != 3 {
			t.Errorf("Result = %+v", result)
		}
		if got := testutil.CountTransactions(t, db); got != 1 {
			t.Errorf("Expected 1 stored transaction, got %d", got)
		}
	})

	t.Run("rejects CSV without required headers", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t)

		req := testutil.NewRawRequest(http.MethodPost, "/api/transaction/import", "text/csv", "ticker,price\nAAPL,1\n", nil)
		w := httptest.NewRecorder()
		handler.ImportTransactions(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("exports the ledger as CSV", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		testutil.CreateBuy(t, db, "AAPL", "2024-01-01", 10, 150)

		w := httptest.NewRecorder()
		handler.ExportTransactions(w, httptest.NewRequest(http.MethodGet, "/api/transaction/export", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
			t.Errorf("Content-Type = %q, want text/csv", ct)
		}
		if !strings.Contains(w.Header().Get("Content-Disposition"), "attachment") {
			t.Errorf("Expected attachment disposition, got %q", w.Header().Get("Content-Disposition"))
		}
		want := "date,ticker,quantity,price,commission\n2024-01-01,AAPL,10,150,0\n"
		if w.Body.String() != want {
			t.Errorf("Body = %q, want %q", w.Body.String(), want)
		}
	})
}

func TestTransactionHandler_FlexStatement(t *testing.T) {
	t.Run("imports an uploaded statement", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)

		body := testutil.CreateFlexStatementXML(
			testutil.FlexTrade{TransactionID: "1001", Symbol: "AAPL", TradeDate: "20240115", Quantity: 10, Price: 150, Commission: -1},
		)
		req := testutil.NewRawRequest(http.MethodPost, "/api/transaction/import/ibkr", "application/xml", body, nil)
		w := httptest.NewRecorder()
		handler.ImportFlexStatement(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		result := testutil.DecodeJSON[model.ImportResult](t, w)
		if result.ImportedRows != 1 {
			t.Errorf("Result = %+v", result)
		}
		if got := testutil.CountTransactions(t, db); got != 1 {
			t.Errorf("Expected 1 stored transaction, got %d", got)
		}
	})

	t.Run("rejects a body that is not a statement", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t)

		req := testutil.NewRawRequest(http.MethodPost, "/api/transaction/import/ibkr", "application/xml", "date,ticker\n", nil)
		w := httptest.NewRecorder()
		handler.ImportFlexStatement(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("sync without credentials", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t)

		w := httptest.NewRecorder()
		handler.SyncFlexStatement(w, httptest.NewRequest(http.MethodPost, "/api/transaction/import/ibkr/sync", nil))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", w.Code)
		}
		errResp := testutil.DecodeJSON[response.ErrorResponse](t, w)
		if errResp.Error != "IBKR Flex is not configured" {
			t.Errorf("Error = %q", errResp.Error)
		}
	})
}
