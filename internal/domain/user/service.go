package user

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// SignUpRequest holds the input for account creation.
type SignUpRequest struct {
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	Phone       string     `json:"phoneNumber,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
}

// ProfileUpdate holds the optional profile fields a user may change.
type ProfileUpdate struct {
	Username    string     `json:"username,omitempty"`
	Phone       string     `json:"phoneNumber,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
}

// Service implements account operations.
type Service struct {
	users  Repository
	hasher PasswordHasher
}

// NewService creates a user Service.
func NewService(users Repository, hasher PasswordHasher) *Service {
	return &Service{users: users, hasher: hasher}
}

// SignUp creates a new account with role USER and a zero EcoCoin balance.
// Duplicate usernames and emails are rejected.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	if taken, err := s.users.ExistsByUsername(ctx, username); err != nil {
		return nil, errors.Wrap(err, "check username")
	} else if taken {
		return nil, ErrUsernameTaken
	}
	if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return nil, errors.Wrap(err, "check email")
	} else if taken {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	u := &User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Phone:        req.Phone,
		DateOfBirth:  req.DateOfBirth,
		Role:         RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	return u, nil
}

// Authenticate verifies an email/password pair. Both an unknown email and a
// wrong password yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "get user")
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// GetByEmail returns a user by email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.users.GetByEmail(ctx, email)
}

// UpdateProfile applies the non-empty fields of upd to the user's profile.
// A changed username must still be unique.
func (s *Service) UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if username := strings.TrimSpace(upd.Username); username != "" && username != u.Username {
		taken, err := s.users.ExistsByUsername(ctx, username)
		if err != nil {
			return nil, errors.Wrap(err, "check username")
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		u.Username = username
	}
	if upd.Phone != "" {
		u.Phone = upd.Phone
	}
	if upd.DateOfBirth != nil {
		u.DateOfBirth = upd.DateOfBirth
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, errors.Wrap(err, "update user")
	}
	return u, nil
}
