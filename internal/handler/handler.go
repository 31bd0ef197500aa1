package handler

import (
	"github.com/ecostore/backend/internal/auth"
	"github.com/ecostore/backend/internal/domain/cart"
	"github.com/ecostore/backend/internal/domain/catalog"
	"github.com/ecostore/backend/internal/domain/dashboard"
	"github.com/ecostore/backend/internal/domain/loyalty"
	"github.com/ecostore/backend/internal/domain/order"
	"github.com/ecostore/backend/internal/domain/rating"
	"github.com/ecostore/backend/internal/domain/recommend"
	"github.com/ecostore/backend/internal/domain/user"
	"github.com/ecostore/backend/internal/payment"
)

// Handler bundles the domain services behind the HTTP API.
type Handler struct {
	users       *user.Service
	tokens      *auth.TokenManager
	products    *catalog.Service
	carts       *cart.Service
	orders      *order.Service
	ratings     *rating.Service
	loyalty     *loyalty.Service
	dashboards  *dashboard.Service
	recommender *recommend.Gateway
	payments    *payment.Gateway
}

// New creates a Handler.
func New(
	users *user.Service,
	tokens *auth.TokenManager,
	products *catalog.Service,
	carts *cart.Service,
	orders *order.Service,
	ratings *rating.Service,
	loyaltySvc *loyalty.Service,
	dashboards *dashboard.Service,
	recommender *recommend.Gateway,
	payments *payment.Gateway,
) *Handler {
	return &Handler{
		users:       users,
		tokens:      tokens,
		products:    products,
		carts:       carts,
		orders:      orders,
		ratings:     ratings,
		loyalty:     loyaltySvc,
		dashboards:  dashboards,
		recommender: recommender,
		payments:    payments,
	}
}
