package portal

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type Password struct {
	hash string
}

func NewPassword(plain string) (*Password, error) {
	plain = strings.TrimSpace(plain)

	if plain == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	return &Password{hash: string(hash)}, nil
}

// MakePasswordFromHash wraps an already-hashed credential, such as a tenant
// passphrase hash loaded from storage.
func MakePasswordFromHash(hash string) *Password {
	return &Password{hash: strings.TrimSpace(hash)}
}

func (p *Password) Is(plain string) bool {
	if p == nil || p.hash == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(p.hash), []byte(plain)) == nil
}

func (p *Password) GetHash() string {
	if p == nil {
		return ""
	}

	return p.hash
}
