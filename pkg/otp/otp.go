package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

const (
	CodeLength  = 6
	DefaultTTL  = 5 * time.Minute
	MaxAttempts = 5
)

// Challenge is one pending email verification. Only the sha256 of the
// code is stored; the plain code exists in the outgoing mail alone.
type Challenge struct {
	CodeHash  string    `json:"code_hash"`
	Email     string    `json:"email"`
	TenantID  uint64    `json:"tenant_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
}

// Expired reports whether the challenge has lapsed at the given instant.
func (c Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Exhausted reports whether the challenge has burned its attempt budget.
func (c Challenge) Exhausted() bool {
	return c.Attempts >= MaxAttempts
}

// NewCode draws a zero-padded six digit verification code.
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("could not draw otp entropy: %w", err)
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}

// HashCode fingerprints a code for storage and comparison.
func HashCode(code string) string {
	return portal.Sha256Hex([]byte(code))
}

// MakeChallenge draws a fresh code and returns it alongside the challenge
// to store. The code never touches storage.
func MakeChallenge(email string, tenantID uint64, ttl time.Duration, now time.Time) (string, Challenge, error) {
	code, err := NewCode()
	if err != nil {
		return "", Challenge{}, err
	}

	challenge := Challenge{
		CodeHash:  HashCode(code),
		Email:     email,
		TenantID:  tenantID,
		ExpiresAt: now.Add(ttl),
	}

	return code, challenge, nil
}
