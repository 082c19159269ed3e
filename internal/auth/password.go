// ABOUTME: bcrypt password hashing and verification
// ABOUTME: Includes a dummy comparison to keep login timing uniform

package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor used when none is configured.
const DefaultHashCost = bcrypt.DefaultCost

// dummyHash is a bcrypt hash of an unused password. It is compared when no
// credential exists for a login attempt so that lookups for unknown and known
// identifiers take the same time.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Hasher hashes and verifies passwords with bcrypt. Each hash embeds its own
// random salt, so hashing the same password twice yields different outputs.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given bcrypt cost. A cost outside
// bcrypt's supported range falls back to DefaultHashCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of the plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether the plaintext matches the stored hash. Malformed
// stored hashes verify as false rather than erroring.
func (h *Hasher) Verify(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}

// CompareDummy burns one bcrypt comparison against a throwaway hash. Called
// on login attempts for unknown identifiers to prevent timing-based account
// enumeration.
func (h *Hasher) CompareDummy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plaintext))
}
