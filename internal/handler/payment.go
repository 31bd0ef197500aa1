package handler

import (
	"net/http"

	"github.com/shopspring/decimal"
)

type createPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// handleCreatePaymentOrder registers an order with the payment provider so
// the client can open the checkout widget. The amount is in rupees.
func (h *Handler) handleCreatePaymentOrder(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		badRequest(w, "amount must be positive")
		return
	}

	po, err := h.payments.CreateProviderOrder(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, po)
}
