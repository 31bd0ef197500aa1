package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/ecostore/backend/internal/auth"
	"github.com/ecostore/backend/internal/domain/user"
)

type userKey struct{}

// currentUser returns the authenticated user stored by RequireAuth.
func currentUser(ctx context.Context) *user.User {
	u, _ := ctx.Value(userKey{}).(*user.User)
	return u
}

// RequireAuth verifies the Bearer token, loads the account and stores it in
// the request context. Requests without a valid token get 401.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		claims, err := h.tokens.Verify(token)
		if err != nil {
			writeError(w, r, auth.ErrInvalidToken)
			return
		}

		u, err := h.users.Get(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, r, auth.ErrInvalidToken)
			return
		}

		ctx := context.WithValue(r.Context(), userKey{}, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects authenticated non-admin users with 403. Must run
// inside RequireAuth.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r.Context())
		if u == nil || u.Role != user.RoleAdmin {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
