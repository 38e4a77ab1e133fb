package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/stock-ledger/internal/api/request"
	"github.com/ndewijer/stock-ledger/internal/api/response"
	"github.com/ndewijer/stock-ledger/internal/apperrors"
	"github.com/ndewijer/stock-ledger/internal/ibkr"
	"github.com/ndewijer/stock-ledger/internal/service"
	"github.com/ndewijer/stock-ledger/internal/validation"
)

// TransactionHandler handles HTTP requests for transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// ListTransactions handles GET requests for the ledger.
//
// Endpoint: GET /api/transaction
// Query Parameters:
//   - ticker: Optional ticker symbol
//   - start_date: Optional inclusive start date (YYYY-MM-DD)
//   - end_date: Optional inclusive end date (YYYY-MM-DD)
//
// Response: 200 OK with array of Transaction in ledger order
// Error: 400 Bad Request if a filter parameter is invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter, err := request.ParseTransactionFilter(query.Get("ticker"), query.Get("start_date"), query.Get("end_date"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	transactions, err := h.transactionService.ListTransactions(r.Context(), filter)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET requests to retrieve a single transaction by ID.
//
// Endpoint: GET /api/transaction/{uuid}
// Response: 200 OK with Transaction
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	transaction, err := h.transactionService.GetTransaction(r.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransaction.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// CreateTransaction handles POST requests to record a trade.
//
// Endpoint: POST /api/transaction
// Request Body: CreateTransactionRequest (date, ticker, quantity, price, commission)
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.transactionService.CreateTransaction(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCreateTransaction.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// UpdateTransaction handles PUT requests to update an existing transaction.
//
// Endpoint: PUT /api/transaction/{uuid}
// Request Body: UpdateTransactionRequest (all fields optional)
// Response: 200 OK with updated Transaction
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware) or validation fails
// Error: 404 Not Found if transaction not found
// Error: 500 Internal Server Error if update fails
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(r.Context(), transactionID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateTransaction.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// DeleteTransaction handles DELETE requests to remove a transaction.
//
// Endpoint: DELETE /api/transaction/{uuid}
// Response: 204 No Content
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found
// Error: 500 Internal Server Error if deletion fails
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	if err := h.transactionService.DeleteTransaction(r.Context(), transactionID); err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToDeleteTransaction.Error(), err.Error())
		return
	}

	response.RespondNoContent(w)
}

// ImportTransactions handles POST requests carrying a CSV ledger.
//
// Endpoint: POST /api/transaction/import
// Request Body: CSV with header date,ticker,quantity,price[,commission]
// Response: 200 OK with ImportResult (imported rows and skipped lines)
// Error: 400 Bad Request if the header is missing required columns
// Error: 500 Internal Server Error if storing fails
func (h *TransactionHandler) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)

	result, err := h.transactionService.ImportCSV(r.Context(), body)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCSVHeaders) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidCSVHeaders.Error(), err.Error())
			return
		}
		if errors.Is(err, apperrors.ErrFailedToImportTransactions) {
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToImportTransactions.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrFailedToImportTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// ExportTransactions handles GET requests for the ledger as a CSV download.
//
// Endpoint: GET /api/transaction/export
// Response: 200 OK with text/csv body
func (h *TransactionHandler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("transactions-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.transactionService.ExportCSV(r.Context(), w); err != nil {
		// The status line is already written.
		log.Printf("%s: %v", apperrors.ErrFailedToExportTransactions, err)
	}
}

// ImportFlexStatement handles POST requests carrying an Interactive Brokers Flex statement.
// Only stock executions are imported; trades already in the ledger are skipped.
//
// Endpoint: POST /api/transaction/import/ibkr
// Request Body: Flex statement XML
// Response: 200 OK with ImportResult
// Error: 400 Bad Request if the body is not a Flex statement
// Error: 500 Internal Server Error if storing fails
func (h *TransactionHandler) ImportFlexStatement(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)

	result, err := h.transactionService.ImportFlexStatement(r.Context(), body)
	if err != nil {
		if errors.Is(err, apperrors.ErrFailedToImportTransactions) {
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToImportTransactions.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrFailedToImportTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// SyncFlexStatement handles POST requests fetching the configured Flex query and importing its trades.
//
// Endpoint: POST /api/transaction/import/ibkr/sync
// Response: 200 OK with ImportResult
// Error: 400 Bad Request if no Flex credentials are configured
// Error: 502 Bad Gateway if the Flex Web Service fails
// Error: 500 Internal Server Error if storing fails
func (h *TransactionHandler) SyncFlexStatement(w http.ResponseWriter, r *http.Request) {
	result, err := h.transactionService.SyncFlexStatement(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, ibkr.ErrMissingCredentials):
			response.RespondError(w, http.StatusBadRequest, "IBKR Flex is not configured", err.Error())
		case errors.Is(err, apperrors.ErrFailedToImportTransactions):
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToImportTransactions.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusBadGateway, "failed to fetch IBKR Flex statement", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
