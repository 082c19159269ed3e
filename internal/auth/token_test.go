// ABOUTME: Unit tests for JWT token issuance and verification
// ABOUTME: Tests round-trips, tampering, expiry, and algorithm confusion

package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-key-for-jwt-signing-0123456789"

func newTestCodec(t *testing.T, ttl time.Duration) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec([]byte(testSecret), ttl)
	if err != nil {
		t.Fatalf("NewTokenCodec() error = %v", err)
	}
	return codec
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	subject := "farmer@farmchainx.com"
	token, err := codec.Issue(subject)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	got, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got != subject {
		t.Errorf("Verify() = %q, want %q", got, subject)
	}
}

func TestTokenCodec_SecretTooShort(t *testing.T) {
	_, err := NewTokenCodec([]byte("short"), time.Hour)
	if !errors.Is(err, ErrSecretTooShort) {
		t.Errorf("NewTokenCodec() error = %v, want ErrSecretTooShort", err)
	}
}

func TestTokenCodec_MalformedTokens(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "garbage token", token: "not-a-jwt-token"},
		{name: "two segments", token: "header.payload"},
		{name: "non-base64 segments", token: "!!!.???.***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(tt.token)
			if !errors.Is(err, ErrTokenMalformed) {
				t.Errorf("Verify(%q) error = %v, want ErrTokenMalformed", tt.token, err)
			}
		})
	}
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	other, err := NewTokenCodec([]byte("a-completely-different-secret-value-here"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec() error = %v", err)
	}
	token, err := other.Issue("farmer@farmchainx.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = codec.Verify(token)
	if !errors.Is(err, ErrTokenTampered) {
		t.Errorf("Verify() error = %v, want ErrTokenTampered", err)
	}
}

func TestTokenCodec_TamperedPayload(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	token, err := codec.Issue("customer@farmchainx.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Rewrite the subject claim without re-signing
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	altered := strings.Replace(string(payload), "customer@farmchainx.com", "admin@farmchainx.com", 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(altered))

	_, err = codec.Verify(strings.Join(parts, "."))
	if !errors.Is(err, ErrTokenTampered) {
		t.Errorf("Verify() error = %v, want ErrTokenTampered", err)
	}
}

func TestTokenCodec_BitFlips(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	token, err := codec.Issue("farmer@farmchainx.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Flipping any single character must not yield a valid token for the
	// same subject. Most mutations break the signature; a few corrupt the
	// base64 framing instead, which is also a rejection.
	for i := 0; i < len(token); i++ {
		mutated := []byte(token)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		if string(mutated) == token {
			continue
		}

		got, err := codec.Verify(string(mutated))
		if err == nil && got == "farmer@farmchainx.com" {
			t.Fatalf("mutation at offset %d verified as the original subject", i)
		}
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	// Pin the clock, issue, then move past the expiry
	issued := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	codec.now = func() time.Time { return issued }

	token, err := codec.Issue("farmer@farmchainx.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	codec.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = codec.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify() error = %v, want ErrTokenExpired", err)
	}
}

func TestTokenCodec_ZeroTTLExpiresImmediately(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	issued := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	codec.now = func() time.Time { return issued }

	token, err := codec.IssueWithTTL("farmer@farmchainx.com", 0)
	if err != nil {
		t.Fatalf("IssueWithTTL() error = %v", err)
	}

	// The validity window is [iat, exp), so exp == iat is already outside it
	_, err = codec.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify() error = %v, want ErrTokenExpired", err)
	}
}

func TestTokenCodec_ValidWithinWindow(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	issued := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	codec.now = func() time.Time { return issued }

	token, err := codec.Issue("farmer@farmchainx.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	codec.now = func() time.Time { return issued.Add(59 * time.Minute) }
	got, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got != "farmer@farmchainx.com" {
		t.Errorf("Verify() = %q, want %q", got, "farmer@farmchainx.com")
	}
}

func TestTokenCodec_AlgNoneRejected(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	// Hand-built unsigned token with alg "none"
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"admin@farmchainx.com","exp":99999999999}`))
	token := header + "." + payload + "."

	_, err := codec.Verify(token)
	if err == nil {
		t.Fatal("Verify() accepted an unsigned token")
	}
}

func TestTokenCodec_MissingSubject(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	token, err := codec.Issue("")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = codec.Verify(token)
	if !errors.Is(err, ErrTokenMissingSubject) {
		t.Errorf("Verify() error = %v, want ErrTokenMissingSubject", err)
	}
}
