package handler

import (
	"net/http"

	"github.com/ecostore/backend/internal/domain/order"
	"github.com/ecostore/backend/internal/domain/user"
)

// handlePlaceOrder places a new order for the authenticated user and clears
// their cart on success.
func (h *Handler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req order.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	u := currentUser(r.Context())
	o, err := h.orders.Create(r.Context(), u.ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// The cart is a staging area; a placed order empties it. Failure here
	// must not fail the already-committed order.
	_ = h.carts.Clear(r.Context(), u.ID)

	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) handleOrderHistory(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r.Context())

	orders, err := h.orders.HistoryForUser(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// handleGetOrder returns one order. Users see only their own orders; admins
// see any.
func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	u := currentUser(r.Context())
	if o.UserID != u.ID && u.Role != user.RoleAdmin {
		writeError(w, r, order.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) handleListAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

type statusUpdateRequest struct {
	Status string `json:"orderStatus"`
}

func (h *Handler) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), r.PathValue("id"), order.Status(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type paymentUpdateRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	PaymentID     string `json:"paymentId"`
}

func (h *Handler) handleUpdateOrderPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	o, err := h.orders.UpdatePayment(r.Context(), r.PathValue("id"),
		order.PaymentMethod(req.PaymentMethod), req.PaymentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) handleMarkCodPaid(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.MarkCodAsPaid(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
