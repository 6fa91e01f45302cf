// Package auth provides the credential hasher, the session token service
// and the HTTP middleware that together implement "is logged in".
//
// The session holds nothing but a signed, opaque user id; the live user
// record is re-fetched per request. Storing whole records in the session is
// not supported.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor for production use.
// Roughly 250ms of hashing per login on current server hardware.
const defaultCost = 12

// PasswordService is the credential hasher: hash on registration, verify on
// login. Plaintext passwords never travel further than this type.
//
// The cost is injectable so tests can run at bcrypt's minimum cost instead
// of paying ~250ms per hash.
type PasswordService struct {
	cost int
}

// NewPasswordService returns a hasher with the production cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceWithCost returns a hasher with a custom cost. Intended
// for tests (bcrypt.MinCost); do not lower the cost in production.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash returns the bcrypt digest of plaintext. The digest embeds its own
// salt and cost, so it is the only thing that needs storing.
//
// Plaintexts over 72 bytes are rejected: bcrypt would silently truncate
// them, and a silent truncation is worse than an error.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored digest. Returns nil
// on a match. The comparison is constant-time inside bcrypt.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
