package handler

import (
	"net/http"
)

// Router builds the API route table. All paths are relative to the /api
// mount point. Public routes: auth and catalog reads. Everything else
// requires a Bearer token; /admin/ additionally requires the ADMIN role.
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// Public.
	mux.HandleFunc("POST /api/auth/signup", h.handleSignUp)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("GET /api/products", h.handleListProducts)
	mux.HandleFunc("GET /api/products/search", h.handleSearchProducts)
	mux.HandleFunc("GET /api/products/{id}", h.handleGetProduct)
	mux.HandleFunc("GET /api/products/{id}/ratings", h.handleProductRatings)
	mux.HandleFunc("GET /api/products/{id}/recommendations", h.handleRecommendations)

	// Authenticated.
	authed := http.NewServeMux()
	authed.HandleFunc("GET /api/users/me", h.handleGetProfile)
	authed.HandleFunc("PUT /api/users/me", h.handleUpdateProfile)
	authed.HandleFunc("GET /api/users/me/ratings", h.handleMyRatings)

	authed.HandleFunc("GET /api/cart", h.handleGetCart)
	authed.HandleFunc("POST /api/cart/items", h.handleAddCartItem)
	authed.HandleFunc("DELETE /api/cart/items", h.handleRemoveCartItem)
	authed.HandleFunc("DELETE /api/cart", h.handleClearCart)

	authed.HandleFunc("POST /api/orders", h.handlePlaceOrder)
	authed.HandleFunc("GET /api/orders", h.handleOrderHistory)
	authed.HandleFunc("GET /api/orders/{id}", h.handleGetOrder)

	authed.HandleFunc("POST /api/products/{id}/ratings", h.handleSubmitRating)
	authed.HandleFunc("DELETE /api/products/{id}/ratings", h.handleDeleteRating)

	authed.HandleFunc("GET /api/ecocoins/balance", h.handleEcoCoinBalance)
	authed.HandleFunc("POST /api/ecocoins/redeem", h.handleRedeemEcoCoins)

	authed.HandleFunc("POST /api/payments/order", h.handleCreatePaymentOrder)
	authed.HandleFunc("GET /api/dashboard", h.handleUserDashboard)

	// Admin.
	admin := http.NewServeMux()
	admin.HandleFunc("POST /api/admin/products", h.handleCreateProduct)
	admin.HandleFunc("PUT /api/admin/products/{id}", h.handleUpdateProduct)
	admin.HandleFunc("DELETE /api/admin/products/{id}", h.handleDeleteProduct)

	admin.HandleFunc("GET /api/admin/orders", h.handleListAllOrders)
	admin.HandleFunc("PUT /api/admin/orders/{id}/status", h.handleUpdateOrderStatus)
	admin.HandleFunc("PUT /api/admin/orders/{id}/payment", h.handleUpdateOrderPayment)
	admin.HandleFunc("POST /api/admin/orders/{id}/cod-paid", h.handleMarkCodPaid)
	admin.HandleFunc("DELETE /api/admin/orders/{id}", h.handleDeleteOrder)

	admin.HandleFunc("GET /api/admin/dashboard", h.handleAdminDashboard)

	authed.Handle("/api/admin/", h.RequireAdmin(admin))
	mux.Handle("/api/", h.RequireAuth(authed))

	return mux
}
