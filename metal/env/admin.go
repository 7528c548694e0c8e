package env

import "strings"

// AdminEnvironment carries the single operator credential used by the admin
// dashboard. The password is stored as a bcrypt hash, never in clear text.
type AdminEnvironment struct {
	Account      string `validate:"required,min=4"`
	PasswordHash string `validate:"required,min=32"`
}

func (a AdminEnvironment) GetAccount() string {
	return strings.TrimSpace(a.Account)
}
