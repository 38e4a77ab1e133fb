// Package middleware provides HTTP middleware for request validation and logging.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/stock-ledger/internal/api/response"
	"github.com/ndewijer/stock-ledger/internal/apperrors"
	"github.com/ndewijer/stock-ledger/internal/validation"
)

// ValidateUUIDMiddleware rejects requests whose {uuid} URL parameter is missing
// or not a valid UUID with 400 Bad Request.
//
// Example usage in router:
//
//	r.Route("/{uuid}", func(r chi.Router) {
//	    r.Use(middleware.ValidateUUIDMiddleware)
//	    r.Get("/", handler.GetTransaction)
//	})
func ValidateUUIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "uuid")

		if id == "" {
			response.RespondError(w, http.StatusBadRequest, "valid UUID is required", "")
			return
		}

		if err := validation.ValidateUUID(id); err != nil {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidUUID.Error(), err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ValidateTickerMiddleware rejects requests whose {ticker} URL parameter is blank
// or longer than a ticker can be with 400 Bad Request.
func ValidateTickerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := validation.ValidateTickerParam(chi.URLParam(r, "ticker")); err != nil {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidTicker.Error(), err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
