// ABOUTME: Unit tests for the bearer-token HTTP middleware
// ABOUTME: Tests the full authentication state machine including store outages

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/farmchainx/farmchainx/internal/store"
)

func newMiddlewareFixture(t *testing.T) (*TokenCodec, *fakeUserStore, func(http.Handler) http.Handler) {
	t.Helper()
	codec := newTestCodec(t, time.Hour)
	users := newFakeUserStore()
	return codec, users, Middleware(users, codec, nil)
}

// echoHandler records the AuthContext it sees.
func echoHandler(seen **AuthContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func registerFakeUser(t *testing.T, users *fakeUserStore, email string, role store.Role) *store.User {
	t.Helper()
	user := &store.User{Name: "Test", Email: email, PasswordHash: "x", Role: role}
	if err := users.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	return user
}

func TestMiddleware_ValidToken(t *testing.T) {
	codec, users, mw := newMiddlewareFixture(t)
	user := registerFakeUser(t, users, "farmer@farmchainx.com", store.RoleFarmer)

	token, err := codec.Issue(user.Email)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	var seen *AuthContext
	req := httptest.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw(echoHandler(&seen)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if seen == nil {
		t.Fatal("handler saw no AuthContext")
	}
	if seen.UserID != user.ID || seen.Email != user.Email || seen.Role != store.RoleFarmer {
		t.Errorf("AuthContext = %+v, want user %s", seen, user.ID)
	}
}

func TestMiddleware_MissingAndMalformedHeaders(t *testing.T) {
	_, _, mw := newMiddlewareFixture(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not bearer", header: "Basic dXNlcjpwdw=="},
		{name: "bearer empty", header: "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *AuthContext
			req := httptest.NewRequest("GET", "/api/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			mw(echoHandler(&seen)).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if seen != nil {
				t.Error("handler ran despite rejected request")
			}
		})
	}
}

func TestMiddleware_RejectedTokensShareOneMessage(t *testing.T) {
	codec, users, mw := newMiddlewareFixture(t)
	registerFakeUser(t, users, "farmer@farmchainx.com", store.RoleFarmer)

	expiredCodec := newTestCodec(t, time.Hour)
	issued := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	expiredCodec.now = func() time.Time { return issued }
	expired, err := expiredCodec.IssueWithTTL("farmer@farmchainx.com", 0)
	if err != nil {
		t.Fatalf("IssueWithTTL() error = %v", err)
	}

	otherCodec, err := NewTokenCodec([]byte("another-signing-secret-for-forged-tokens"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec() error = %v", err)
	}
	forged, err := otherCodec.Issue("farmer@farmchainx.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	stale, err := codec.Issue("deleted@farmchainx.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tokens := map[string]string{
		"garbage":       "not-a-token",
		"expired":       expired,
		"wrong secret":  forged,
		"stale subject": stale,
	}

	for name, token := range tokens {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/users/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			var seen *AuthContext
			mw(echoHandler(&seen)).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			// One generic message for every rejection kind
			if !strings.Contains(rec.Body.String(), "invalid or expired token") {
				t.Errorf("body = %q, want the generic rejection message", rec.Body.String())
			}
		})
	}
}

func TestMiddleware_StoreUnavailable(t *testing.T) {
	codec, users, mw := newMiddlewareFixture(t)
	registerFakeUser(t, users, "farmer@farmchainx.com", store.RoleFarmer)

	token, err := codec.Issue("farmer@farmchainx.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	users.nextErr = errors.New("database is locked")

	req := httptest.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	var seen *AuthContext
	mw(echoHandler(&seen)).ServeHTTP(rec, req)

	// An outage is not a credential rejection
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if seen != nil {
		t.Error("handler ran despite store failure")
	}
}

func TestOptionalMiddleware(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	users := newFakeUserStore()
	user := registerFakeUser(t, users, "customer@farmchainx.com", store.RoleCustomer)
	mw := OptionalMiddleware(users, codec)

	t.Run("anonymous passes through", func(t *testing.T) {
		var seen *AuthContext
		req := httptest.NewRequest("GET", "/api/products", nil)
		rec := httptest.NewRecorder()
		mw(echoHandler(&seen)).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if seen != nil {
			t.Errorf("anonymous request got AuthContext %+v", seen)
		}
	})

	t.Run("bad token passes through anonymously", func(t *testing.T) {
		var seen *AuthContext
		req := httptest.NewRequest("GET", "/api/products", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		mw(echoHandler(&seen)).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if seen != nil {
			t.Error("invalid token should not yield an AuthContext")
		}
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		token, err := codec.Issue(user.Email)
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		var seen *AuthContext
		req := httptest.NewRequest("GET", "/api/products", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		mw(echoHandler(&seen)).ServeHTTP(rec, req)

		if seen == nil || seen.UserID != user.ID {
			t.Errorf("AuthContext = %+v, want user %s", seen, user.ID)
		}
	})
}

func TestRequireOperation(t *testing.T) {
	policy := NewPolicy()
	gate := RequireOperation(policy, OpManageProducts)

	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("no auth context", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/products", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("role denied", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/products", nil)
		ctx := WithAuth(req.Context(), &AuthContext{UserID: "u1", Role: store.RoleCustomer})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("role granted", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/products", nil)
		ctx := WithAuth(req.Context(), &AuthContext{UserID: "u2", Role: store.RoleFarmer})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}
