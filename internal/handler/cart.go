package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/ecostore/backend/internal/domain/cart"
)

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// handleGetCart returns the cart contents. A never-touched cart reads as
// empty rather than 404.
func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r.Context())

	c, err := h.carts.Get(r.Context(), u.ID)
	if errors.Is(err, cart.ErrCartNotFound) {
		c = &cart.Cart{UserID: u.ID, Lines: []cart.Line{}}
	} else if err != nil {
		writeError(w, r, err)
		return
	}
	if c.Lines == nil {
		c.Lines = []cart.Line{}
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	u := currentUser(r.Context())
	if err := h.carts.AddItem(r.Context(), u.ID, req.ProductID, req.Quantity); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	u := currentUser(r.Context())
	if err := h.carts.RemoveItem(r.Context(), u.ID, req.ProductID, req.Quantity); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r.Context())

	err := h.carts.Clear(r.Context(), u.ID)
	if err != nil && !errors.Is(err, cart.ErrCartNotFound) {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
