// ABOUTME: Tests for the register, login, and current-user endpoints
// ABOUTME: Covers duplicate emails, bad credentials, and stale tokens

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ts := newTestServer(t)

	user := ts.register(t, "Asha Patel", "asha@farmchainx.com", "harvest-2026", "FARMER")
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Asha Patel", user.Name)
	assert.Equal(t, "asha@farmchainx.com", user.Email)
	assert.Equal(t, "FARMER", user.Role)
}

func TestRegister_NormalizesEmail(t *testing.T) {
	ts := newTestServer(t)

	user := ts.register(t, "Admin", "  Admin@Farm.com ", "sekret-pw", "ADMIN")
	assert.Equal(t, "admin@farm.com", user.Email)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "First", "taken@farmchainx.com", "pw-first", "CUSTOMER")

	rec := ts.do(t, "POST", "/api/auth/register", "", RegisterRequest{
		Name: "Second", Email: "TAKEN@farmchainx.com", Password: "pw-second", Role: "FARMER",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already registered")
}

func TestRegister_Validation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing name", RegisterRequest{Email: "a@b.com", Password: "pw", Role: "FARMER"}},
		{"missing password", RegisterRequest{Name: "A", Email: "a@b.com", Role: "FARMER"}},
		{"bad role", RegisterRequest{Name: "A", Email: "a@b.com", Password: "pw", Role: "WIZARD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, "POST", "/api/auth/register", "", tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin_CaseInsensitiveEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Ravi", "Ravi@FarmChainX.com", "pw-123", "RETAILER")

	token := ts.login(t, "RAVI@farmchainx.com", "pw-123")

	rec := ts.do(t, "GET", "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "ravi@farmchainx.com", me.Email)
	assert.Equal(t, "RETAILER", me.Role)
}

func TestLogin_BadCredentialsUniform(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Known", "known@farmchainx.com", "right-pw", "CUSTOMER")

	unknown := ts.do(t, "POST", "/api/auth/login", "", LoginRequest{Email: "nobody@farmchainx.com", Password: "right-pw"})
	wrongPw := ts.do(t, "POST", "/api/auth/login", "", LoginRequest{Email: "known@farmchainx.com", Password: "wrong-pw"})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	// Identical bodies: no account enumeration through the login endpoint
	assert.Equal(t, unknown.Body.String(), wrongPw.Body.String())
}

func TestMe_DeletedUserTokenRejected(t *testing.T) {
	ts := newTestServer(t)
	user := ts.register(t, "Gone", "gone@farmchainx.com", "pw-gone", "CUSTOMER")
	token := ts.login(t, "gone@farmchainx.com", "pw-gone")

	require.NoError(t, ts.store.DeleteUser(context.Background(), user.ID))

	// The token still has a valid signature, but its subject no longer exists
	rec := ts.do(t, "GET", "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired token")
}
