package validation

import (
	"errors"
	"math"
	"testing"

	"github.com/ndewijer/stock-ledger/internal/api/request"
)

func validCreateRequest() request.CreateTransactionRequest {
	return request.CreateTransactionRequest{
		Date:     "2024-01-15",
		Ticker:   "AAPL",
		Quantity: 10,
		Price:    150,
	}
}

func TestValidateCreateTransaction(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*request.CreateTransactionRequest)
		wantField string
	}{
		{name: "valid buy", modify: func(*request.CreateTransactionRequest) {}},
		{name: "valid sell", modify: func(r *request.CreateTransactionRequest) { r.Quantity = -3 }},
		{name: "zero price is allowed", modify: func(r *request.CreateTransactionRequest) { r.Price = 0 }},
		{name: "missing date", modify: func(r *request.CreateTransactionRequest) { r.Date = "" }, wantField: "date"},
		{name: "bad date", modify: func(r *request.CreateTransactionRequest) { r.Date = "15/01/2024" }, wantField: "date"},
		{name: "blank ticker", modify: func(r *request.CreateTransactionRequest) { r.Ticker = "  " }, wantField: "ticker"},
		{name: "ticker with space", modify: func(r *request.CreateTransactionRequest) { r.Ticker = "BRK B" }, wantField: "ticker"},
		{name: "zero quantity", modify: func(r *request.CreateTransactionRequest) { r.Quantity = 0 }, wantField: "quantity"},
		{name: "NaN quantity", modify: func(r *request.CreateTransactionRequest) { r.Quantity = math.NaN() }, wantField: "quantity"},
		{name: "negative price", modify: func(r *request.CreateTransactionRequest) { r.Price = -1 }, wantField: "price"},
		{name: "negative commission", modify: func(r *request.CreateTransactionRequest) { r.Commission = -0.5 }, wantField: "commission"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.modify(&req)

			err := ValidateCreateTransaction(req)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}

			var vErr *Error
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected *Error, got %v", err)
			}
			if _, ok := vErr.Fields[tt.wantField]; !ok {
				t.Errorf("Expected error on field %q, got %v", tt.wantField, vErr.Fields)
			}
		})
	}
}

func TestValidateUpdateTransaction(t *testing.T) {
	t.Run("empty update is valid", func(t *testing.T) {
		if err := ValidateUpdateTransaction(request.UpdateTransactionRequest{}); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("provided fields are validated", func(t *testing.T) {
		zero := 0.0
		negative := -1.0
		date := "not-a-date"

		err := ValidateUpdateTransaction(request.UpdateTransactionRequest{
			Date:       &date,
			Quantity:   &zero,
			Commission: &negative,
		})

		var vErr *Error
		if !errors.As(err, &vErr) {
			t.Fatalf("Expected *Error, got %v", err)
		}
		for _, field := range []string{"date", "quantity", "commission"} {
			if _, ok := vErr.Fields[field]; !ok {
				t.Errorf("Expected error on field %q", field)
			}
		}
	})
}

func TestValidateUpdatePrice(t *testing.T) {
	if err := ValidateUpdatePrice("AAPL", request.UpdatePriceRequest{Price: 190.5}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := ValidateUpdatePrice("AAPL", request.UpdatePriceRequest{Price: -1}); err == nil {
		t.Error("Expected error for negative price")
	}
	if err := ValidateUpdatePrice("", request.UpdatePriceRequest{Price: 1}); err == nil {
		t.Error("Expected error for missing ticker")
	}
}
