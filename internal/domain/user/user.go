// Package user holds user accounts: signup, authentication and profile
// management. Password hashing and token issuance are external collaborators.
package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Role enumerates account roles. The role is fixed at creation.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Sentinel errors for user operations.
var (
	ErrNotFound           = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("username, email and password are required")
)

// User is an account record. EcoCoinBalance is owned by the loyalty ledger
// and only mutated through it.
type User struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	Phone          string     `json:"phoneNumber,omitempty"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	Role           Role       `json:"role"`
	EcoCoinBalance int        `json:"ecocoinBalance"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Repository defines persistence operations for users. Username and email
// carry uniqueness constraints.
type Repository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// PasswordHasher is the one-way hash collaborator.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
