package handler

import (
	"net/http"

	"github.com/ecostore/backend/internal/domain/user"
)

// authResponse is the login/signup reply: the token plus the account.
type authResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// handleSignUp creates an account and immediately issues a token.
func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req user.SignUpRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	u, err := h.users.SignUp(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(u)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: u})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(u)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: u})
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r.Context()))
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd user.ProfileUpdate
	if err := decodeJSON(r, &upd); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), currentUser(r.Context()).ID, upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
