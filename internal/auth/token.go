// ABOUTME: JWT token issuance and verification for authenticating API requests
// ABOUTME: Uses HS256 signing with an injected secret and clock

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the minimum allowed signing secret length in bytes.
// HS256 secrets shorter than the hash output are vulnerable to brute force.
const MinSecretLength = 32

// Token errors
var (
	ErrSecretTooShort      = fmt.Errorf("signing secret must be at least %d bytes", MinSecretLength)
	ErrTokenMalformed      = errors.New("malformed token")
	ErrTokenTampered       = errors.New("token signature invalid")
	ErrTokenExpired        = errors.New("token expired")
	ErrTokenMissingSubject = errors.New("token missing subject claim")
)

// TokenVerifier defines the interface for token verification.
type TokenVerifier interface {
	Verify(tokenString string) (subject string, err error)
}

// TokenCodec issues and verifies HS256 signed JWTs binding a subject
// identifier to a validity window. The signing secret and clock are injected
// so the codec holds no hidden global state.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec creates a codec with the given secret and default token TTL.
// Returns ErrSecretTooShort if the secret is shorter than MinSecretLength.
func NewTokenCodec(secret []byte, ttl time.Duration) (*TokenCodec, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	return &TokenCodec{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue creates a signed token for the given subject using the default TTL.
func (c *TokenCodec) Issue(subject string) (string, error) {
	return c.IssueWithTTL(subject, c.ttl)
}

// IssueWithTTL creates a signed token for the given subject with an explicit
// TTL. A zero or negative TTL produces a token that is already expired.
func (c *TokenCodec) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	now := c.now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify validates the token and extracts the subject from the "sub" claim.
// A token is accepted only when its signature matches and the current time is
// within [iat, exp). Failure kinds:
//
//   - ErrTokenMalformed: the string cannot be decoded as a JWT
//   - ErrTokenTampered: payload or signature was modified, or the header
//     names a non-HMAC algorithm
//   - ErrTokenExpired: signature valid but the validity window has passed
//   - ErrTokenMissingSubject: valid token without a usable "sub" claim
func (c *TokenCodec) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString,
		func(token *jwt.Token) (interface{}, error) {
			// Accept HMAC only; any other method means a forged header
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return c.secret, nil
		},
		jwt.WithTimeFunc(c.now),
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		default:
			return "", fmt.Errorf("%w: %v", ErrTokenTampered, err)
		}
	}

	if !token.Valid {
		return "", ErrTokenTampered
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenMalformed
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrTokenMissingSubject
	}

	return sub, nil
}
