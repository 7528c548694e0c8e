package env

type SentryEnvironment struct {
	DSN string `validate:"required,min=10"`
}
