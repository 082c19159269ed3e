// ABOUTME: HTTP handlers for registration, login, and the current-user endpoint
// ABOUTME: Maps auth service errors onto HTTP status codes

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/farmchainx/farmchainx/internal/auth"
	"github.com/farmchainx/farmchainx/internal/store"
)

// RegisterRequest is the JSON request body for POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest is the JSON request body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the JSON shape of an account. The password hash never
// leaves the server.
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// LoginResponse is the JSON response for POST /api/auth/login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func toUserResponse(u *store.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// handleRegister handles POST /api/auth/register requests.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	role, err := store.ParseRole(req.Role)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid role")
		return
	}

	user, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields), errors.Is(err, auth.ErrInvalidRole):
			s.sendJSONError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrDuplicateEmail):
			s.sendJSONError(w, http.StatusConflict, "email already registered")
		default:
			s.logger.Error("registration failed", "error", err)
			s.sendJSONError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	s.recordActivity(r, &store.Activity{
		Type:     store.ActivityRegistration,
		UserName: user.Name,
		Role:     string(user.Role),
		Action:   "registered",
		Status:   "active",
	})

	s.sendJSON(w, http.StatusCreated, toUserResponse(user))
}

// handleLogin handles POST /api/auth/login requests.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	token, user, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.sendJSONError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		// Store trouble is not a credential rejection
		s.logger.Error("login failed", "error", err)
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	s.sendJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

// handleMe handles GET /api/users/me requests.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustFromContext(r.Context())

	user, err := s.store.GetUser(r.Context(), authCtx.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.sendJSONError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	s.sendJSON(w, http.StatusOK, toUserResponse(user))
}
