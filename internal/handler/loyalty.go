package handler

import (
	"net/http"
)

type balanceResponse struct {
	Balance int `json:"balance"`
}

func (h *Handler) handleEcoCoinBalance(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r.Context())

	balance, err := h.loyalty.Balance(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Balance: balance})
}

type redeemRequest struct {
	Points int `json:"points"`
}

type redeemResponse struct {
	CouponCode string `json:"couponCode"`
	Balance    int    `json:"balance"`
}

// handleRedeemEcoCoins exchanges EcoCoins for a discount coupon code.
func (h *Handler) handleRedeemEcoCoins(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	u := currentUser(r.Context())
	code, err := h.loyalty.RedeemForCoupon(r.Context(), u.ID, req.Points)
	if err != nil {
		writeError(w, r, err)
		return
	}

	balance, err := h.loyalty.Balance(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, redeemResponse{CouponCode: code, Balance: balance})
}
