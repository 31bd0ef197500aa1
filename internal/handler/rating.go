package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ecostore/backend/internal/domain/rating"
)

type ratingRequest struct {
	Value decimal.Decimal `json:"rating"`
}

func (h *Handler) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	u := currentUser(r.Context())
	rt, err := h.ratings.Submit(r.Context(), u.ID, r.PathValue("id"), req.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rt)
}

func (h *Handler) handleDeleteRating(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r.Context())
	if err := h.ratings.Delete(r.Context(), u.ID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleProductRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.ratings.ForProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ratings == nil {
		ratings = []rating.Rating{}
	}
	writeJSON(w, http.StatusOK, ratings)
}

func (h *Handler) handleMyRatings(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r.Context())

	ratings, err := h.ratings.ForUser(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ratings == nil {
		ratings = []rating.Rating{}
	}
	writeJSON(w, http.StatusOK, ratings)
}
