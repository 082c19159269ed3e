// ABOUTME: Login and registration orchestration over the user store
// ABOUTME: Normalizes identifiers, hashes credentials, and issues tokens

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/farmchainx/farmchainx/internal/store"
)

// ErrInvalidCredentials is returned for any failed login attempt. Unknown
// email and wrong password deliberately share one error so responses cannot
// be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrInvalidRole is returned when registering with an unknown role.
var ErrInvalidRole = errors.New("invalid role")

// ErrMissingFields is returned when a registration field is empty.
var ErrMissingFields = errors.New("name, email, and password are required")

// UserStore is the credential store contract the service consumes.
type UserStore interface {
	CreateUser(ctx context.Context, user *store.User) error
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
}

// Service orchestrates registration and login.
type Service struct {
	users  UserStore
	hasher *Hasher
	codec  *TokenCodec
	logger *slog.Logger
}

// NewService creates an auth service. A nil logger falls back to slog.Default.
func NewService(users UserStore, hasher *Hasher, codec *TokenCodec, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:  users,
		hasher: hasher,
		codec:  codec,
		logger: logger.With("component", "auth"),
	}
}

// NormalizeEmail lowercases and trims an email identifier. All storage and
// lookups go through this, so "Admin@Farm.com" and "admin@farm.com" are the
// same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account with a hashed credential. Returns
// store.ErrDuplicateEmail if the normalized email is already registered.
// The plaintext password is not retained past this call.
func (s *Service) Register(ctx context.Context, name, email, password string, role store.Role) (*store.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &store.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	// The store's unique index is the arbiter for concurrent registrations
	// of the same email; exactly one writer wins.
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, store.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Login verifies a credential and issues a signed token bound to the
// account's email. Unknown email and wrong password both return
// ErrInvalidCredentials; a dummy hash comparison keeps the two paths at the
// same cost. Store failures are surfaced distinctly so callers can report a
// transient error instead of rejecting the credential.
func (s *Service) Login(ctx context.Context, email, password string) (string, *store.User, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.hasher.CompareDummy(password)
			s.logger.Warn("login failed", "reason", "unknown_email")
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("looking up user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Warn("login failed", "reason", "bad_password", "user_id", user.ID)
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return token, user, nil
}
