package env

type SessionEnvironment struct {
	Secret       string `validate:"required,min=32"`
	CookieDomain string `validate:"omitempty,hostname"`
}
