// ABOUTME: HTTP middleware for JWT authentication on API endpoints
// ABOUTME: Extracts bearer tokens and attaches the resolved user to context

package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/farmchainx/farmchainx/internal/store"
)

// UserLookup resolves a token subject to a live account. The store is
// consulted on every request; there is no caching, so a deleted account
// fails authentication on its next request even with a valid token.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
}

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// writeAuthError writes the uniform JSON error payload used by the auth gate.
func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}

// logAuthFailure logs an authentication failure with structured context.
// The detailed reason stays in the log; clients get a uniform message.
func logAuthFailure(logger *slog.Logger, r *http.Request, reason string, attrs ...any) {
	if logger == nil {
		return
	}
	baseAttrs := []any{"reason", reason, "remote_addr", r.RemoteAddr, "path", r.URL.Path}
	baseAttrs = append(baseAttrs, attrs...)
	logger.Warn("auth failure", baseAttrs...)
}

// Middleware returns an HTTP middleware that authenticates requests.
// The flow per request: extract bearer token, verify signature and expiry,
// resolve the subject against the user store, attach an AuthContext.
// Every failure short-circuits before the wrapped handler runs. Clients see
// one generic message for malformed, tampered, expired, and stale-subject
// tokens; only a store outage is reported differently (503) so callers know
// a retry may help.
func Middleware(users UserLookup, verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				logAuthFailure(logger, r, "missing_token")
				writeAuthError(w, http.StatusUnauthorized, errMsg)
				return
			}

			subject, err := verifier.Verify(token)
			if err != nil {
				logAuthFailure(logger, r, "token_rejected", "error", err.Error())
				writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			user, err := users.GetUserByEmail(r.Context(), subject)
			if err != nil {
				if errors.Is(err, store.ErrUserNotFound) {
					logAuthFailure(logger, r, "subject_not_found")
					writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
					return
				}
				logAuthFailure(logger, r, "store_unavailable", "error", err.Error())
				writeAuthError(w, http.StatusServiceUnavailable, "service unavailable")
				return
			}

			authCtx := &AuthContext{
				UserID: user.ID,
				Email:  user.Email,
				Role:   user.Role,
			}
			next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), authCtx)))
		})
	}
}

// OptionalMiddleware attempts bearer authentication but lets unauthenticated
// requests through anonymously. Useful for endpoints that respond differently
// for authenticated vs anonymous users.
func OptionalMiddleware(users UserLookup, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				next.ServeHTTP(w, r) // Continue as anonymous
				return
			}

			subject, err := verifier.Verify(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByEmail(r.Context(), subject)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			authCtx := &AuthContext{
				UserID: user.ID,
				Email:  user.Email,
				Role:   user.Role,
			}
			next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), authCtx)))
		})
	}
}

// RequireOperation returns an HTTP middleware enforcing the access policy for
// one operation category. Must be used after Middleware.
func RequireOperation(policy *Policy, op Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx := FromContext(r.Context())
			if authCtx == nil {
				writeAuthError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			if !policy.Allowed(authCtx.Role, op) {
				writeAuthError(w, http.StatusForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
