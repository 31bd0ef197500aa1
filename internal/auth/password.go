// Package auth provides password hashing and JWT issuance/verification for
// the HTTP layer.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/ecostore/backend/internal/domain/user"
)

var _ user.PasswordHasher = (*BcryptHasher)(nil)

// BcryptHasher implements user.PasswordHasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher. A non-positive cost falls back to the
// bcrypt default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt hash of the password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Compare reports whether the password matches the stored hash. A mismatch is
// returned as an error.
func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
