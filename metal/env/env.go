package env

import (
	"os"
	"path/filepath"
	"strings"
)

// Environment aggregates every configuration section. Tracing, Redis, SMTP
// and Geo stay untagged: they are legitimately zero when the feature is off
// or the deployment is local, and the kernel factory validates them only
// when they apply.
type Environment struct {
	App     AppEnvironment     `validate:"required"`
	DB      DBEnvironment      `validate:"required"`
	Logs    LogsEnvironment    `validate:"required"`
	Network NetEnvironment     `validate:"required"`
	Sentry  SentryEnvironment  `validate:"required"`
	Ping    PingEnvironment    `validate:"required"`
	Tracing TracingEnvironment
	Redis   RedisEnvironment
	SMTP    SMTPEnvironment
	Session SessionEnvironment `validate:"required"`
	Admin   AdminEnvironment   `validate:"required"`
	Viewer  ViewerEnvironment  `validate:"required"`
	Geo     GeoEnvironment
}

// SecretsDir defines where secret files are read from. It can be overridden in
// tests.
var SecretsDir = "/run/secrets"

func GetEnvVar(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetSecretOrEnv(secretName string, envVarName string) string {
	secretPath := filepath.Join(SecretsDir, secretName)

	// Try to read the secret file first.
	content, err := os.ReadFile(secretPath)
	if err == nil {
		return strings.TrimSpace(string(content))
	}

	// If the file does not exist, fall back to the environment variable.
	if os.IsNotExist(err) {
		return GetEnvVar(envVarName) // Use your existing function here
	}

	return GetEnvVar(envVarName)
}
