// Package handler exposes the HTTP API: routing, request decoding, auth
// middleware and domain error mapping.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/ecostore/backend/internal/auth"
	"github.com/ecostore/backend/internal/domain/cart"
	"github.com/ecostore/backend/internal/domain/catalog"
	"github.com/ecostore/backend/internal/domain/coupon"
	"github.com/ecostore/backend/internal/domain/loyalty"
	"github.com/ecostore/backend/internal/domain/order"
	"github.com/ecostore/backend/internal/domain/rating"
	"github.com/ecostore/backend/internal/domain/user"
)

// errorResponse is the JSON body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error onto an HTTP status and writes the JSON
// error body. Unrecognized errors become opaque 500s; the cause is logged,
// not leaked.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		zctx.From(r.Context()).Error("Internal error", zap.Error(err))
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func statusOf(err error) int {
	var (
		unsupportedMethod *order.UnsupportedPaymentMethodError
		productNotFound   *order.ProductNotFoundError
		invalidQty        *order.InvalidQuantityError
		lowBalance        *loyalty.InsufficientBalanceError
		lowPoints         *loyalty.InsufficientPointsError
	)

	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, cart.ErrCartNotFound),
		errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, coupon.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, rating.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, user.ErrUsernameTaken),
		errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, rating.ErrAlreadyRated),
		errors.Is(err, order.ErrAlreadyPaid):
		return http.StatusConflict

	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, order.ErrSignatureInvalid):
		return http.StatusUnauthorized

	case errors.Is(err, user.ErrMissingFields),
		errors.Is(err, catalog.ErrNameRequired),
		errors.Is(err, catalog.ErrNegativePrice),
		errors.Is(err, cart.ErrInvalidQty),
		errors.Is(err, rating.ErrInvalidValue),
		errors.Is(err, loyalty.ErrInvalidAmount),
		errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, order.ErrIncompleteAddress),
		errors.Is(err, order.ErrMissingPaymentDetails),
		errors.Is(err, order.ErrCouponExpired),
		errors.Is(err, order.ErrCouponInactive),
		errors.Is(err, order.ErrNotCashOnDelivery),
		errors.Is(err, order.ErrUnknownStatus),
		errors.As(err, &unsupportedMethod),
		errors.As(err, &invalidQty),
		errors.As(err, &lowBalance),
		errors.As(err, &lowPoints):
		return http.StatusBadRequest

	case errors.As(err, &productNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}

// badRequest writes a 400 with the given message.
func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
