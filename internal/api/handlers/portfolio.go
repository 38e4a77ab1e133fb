package handlers

import (
	"errors"
	"net/http"

	"github.com/ndewijer/stock-ledger/internal/api/request"
	"github.com/ndewijer/stock-ledger/internal/api/response"
	"github.com/ndewijer/stock-ledger/internal/apperrors"
	"github.com/ndewijer/stock-ledger/internal/service"
)

// PortfolioHandler handles HTTP requests for the derived portfolio views.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependency.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Dashboard handles GET requests for the full portfolio dashboard.
// The filter narrows the transaction rows; every other section covers the whole ledger.
//
// Endpoint: GET /api/portfolio/dashboard
// Query Parameters:
//   - ticker: Optional ticker symbol
//   - start_date: Optional inclusive start date (YYYY-MM-DD)
//   - end_date: Optional inclusive end date (YYYY-MM-DD)
//
// Response: 200 OK with Dashboard
// Error: 400 Bad Request if a filter parameter is invalid
// Error: 500 Internal Server Error if computation fails
func (h *PortfolioHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter, err := request.ParseTransactionFilter(query.Get("ticker"), query.Get("start_date"), query.Get("end_date"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	dashboard, err := h.portfolioService.GetDashboard(r.Context(), filter)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetDashboard.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, dashboard)
}

// Summary handles GET requests for the per-ticker summaries and portfolio totals.
//
// Endpoint: GET /api/portfolio/summary
// Response: 200 OK with PortfolioOverview
// Error: 500 Internal Server Error if computation fails
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	overview, err := h.portfolioService.GetOverview(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetSummary.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, overview)
}

// History handles GET requests for the portfolio cost and value per transaction date.
//
// Endpoint: GET /api/portfolio/history
// Response: 200 OK with array of PortfolioHistoryPoint
// Error: 500 Internal Server Error if computation fails
func (h *PortfolioHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.portfolioService.GetHistory(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetHistory.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, history)
}

// Sales handles GET requests for the sales summary.
//
// Endpoint: GET /api/portfolio/sales
// Response: 200 OK with SalesSummary
// Error: 500 Internal Server Error if computation fails
func (h *PortfolioHandler) Sales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.portfolioService.GetSalesSummary(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetSales.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, sales)
}

// TickerDetail handles GET requests for one ticker's drill-down view.
//
// Endpoint: GET /api/portfolio/ticker/{ticker}
// Response: 200 OK with TickerDetail
// Error: 404 Not Found if the ledger has no transaction for the ticker
// Error: 500 Internal Server Error if computation fails
func (h *PortfolioHandler) TickerDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.portfolioService.GetTickerDetail(r.Context(), tickerParam(r))
	if err != nil {
		if errors.Is(err, apperrors.ErrTickerNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTickerNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetTickerDetail.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, detail)
}
