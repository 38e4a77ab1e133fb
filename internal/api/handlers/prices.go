package handlers

import (
	"errors"
	"net/http"

	"github.com/ndewijer/stock-ledger/internal/api/request"
	"github.com/ndewijer/stock-ledger/internal/api/response"
	"github.com/ndewijer/stock-ledger/internal/apperrors"
	"github.com/ndewijer/stock-ledger/internal/service"
	"github.com/ndewijer/stock-ledger/internal/validation"
)

// PriceHandler handles HTTP requests for the current price map.
type PriceHandler struct {
	priceService *service.PriceService
}

// NewPriceHandler creates a new PriceHandler with the provided service dependency.
func NewPriceHandler(priceService *service.PriceService) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
	}
}

// ListPrices handles GET requests for every stored price.
//
// Endpoint: GET /api/price
// Response: 200 OK with array of CurrentPrice ordered by ticker
// Error: 500 Internal Server Error if retrieval fails
func (h *PriceHandler) ListPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.priceService.ListPrices(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePrices.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, prices)
}

// UpdatePrice handles PUT requests setting a manual price for a ticker.
//
// Endpoint: PUT /api/price/{ticker}
// Request Body: UpdatePriceRequest (price)
// Response: 200 OK with CurrentPrice
// Error: 400 Bad Request if the price is negative or the body is invalid
// Error: 500 Internal Server Error if storing fails
func (h *PriceHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	ticker := tickerParam(r)

	req, err := parseJSON[request.UpdatePriceRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdatePrice(ticker, req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	price, err := h.priceService.SetPrice(r.Context(), ticker, req.Price)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdatePrice.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, price)
}

// DeletePrice handles DELETE requests removing a ticker's price.
// The ticker is then valued at 0 until a new price is set.
//
// Endpoint: DELETE /api/price/{ticker}
// Response: 204 No Content
// Error: 404 Not Found if no price is stored for the ticker
// Error: 500 Internal Server Error if deletion fails
func (h *PriceHandler) DeletePrice(w http.ResponseWriter, r *http.Request) {
	if err := h.priceService.DeletePrice(r.Context(), tickerParam(r)); err != nil {
		if errors.Is(err, apperrors.ErrPriceNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPriceNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToDeletePrice.Error(), err.Error())
		return
	}

	response.RespondNoContent(w)
}

// RefreshPrices handles POST requests fetching the latest close of every ledger ticker.
//
// Endpoint: POST /api/price/refresh
// Response: 200 OK with PriceRefreshResult; per-ticker failures are listed, not fatal
// Error: 500 Internal Server Error if the refresh cannot run
func (h *PriceHandler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	result, err := h.priceService.RefreshPrices(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshPrices.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
