package handler

import (
	"net/http"

	"github.com/ecostore/backend/internal/domain/dashboard"
	"github.com/ecostore/backend/internal/domain/order"
)

const recentOrdersLimit = 5

type userDashboardResponse struct {
	*dashboard.UserStats
	RecentOrders []order.Order `json:"recentOrders"`
}

// handleUserDashboard returns the authenticated user's rollup plus their most
// recent orders.
func (h *Handler) handleUserDashboard(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r.Context())

	stats, err := h.dashboards.UserStats(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	recent, err := h.dashboards.RecentOrders(r.Context(), u.ID, recentOrdersLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if recent == nil {
		recent = []order.Order{}
	}
	writeJSON(w, http.StatusOK, userDashboardResponse{UserStats: stats, RecentOrders: recent})
}

func (h *Handler) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboards.AdminStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
