package kernel

import (
	"log"
	"strconv"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/redis/go-redis/v9"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/env"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/geo"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/llogs"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/mailer"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/otp"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/session"
)

func MakeSentry(env *env.Environment) *portal.Sentry {
	cOptions := sentry.ClientOptions{
		Dsn:   env.Sentry.DSN,
		Debug: !env.App.IsProduction(),
	}

	if err := sentry.Init(cOptions); err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}

	options := sentryhttp.Options{}
	handler := sentryhttp.New(options)

	return &portal.Sentry{
		Handler: handler,
		Options: &options,
		Env:     env,
	}
}

func MakeDbConnection(env *env.Environment) *database.Connection {
	dbConn, err := database.MakeConnection(env)

	if err != nil {
		panic("Sql: error connecting to PostgresSQL: " + err.Error())
	}

	return dbConn
}

func MakeLogs(env *env.Environment) llogs.Driver {
	lDriver, err := llogs.MakeFilesLogs(env)

	if err != nil {
		panic("logs: error opening logs file: " + err.Error())
	}

	return lDriver
}

func MakeTracing(environment *env.Environment) *portal.TracerProvider {
	provider, err := portal.NewTracerProvider(environment)

	if err != nil {
		panic("tracing: error starting the tracer provider: " + err.Error())
	}

	return provider
}

// MakeRedis builds the client without dialling; go-redis connects on the
// first command, so boot does not depend on redis being up yet.
func MakeRedis(environment *env.Environment) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     environment.Redis.GetAddr(),
		Password: environment.Redis.Password,
		DB:       environment.Redis.DB,
	})
}

func MakeSessions(environment *env.Environment) *session.Manager {
	return session.MakeManager(&environment.Session, environment.App.IsProduction())
}

// MakeMailer picks the delivery driver by environment: a real SMTP relay in
// production, the slog driver everywhere else so verification codes can be
// read from the console.
func MakeMailer(environment *env.Environment) mailer.Mailer {
	if environment.App.IsProduction() {
		return mailer.MakeSMTP(&environment.SMTP)
	}

	return mailer.MakeLog()
}

// MakeChallengeStore keeps pending codes in redis for shared deployments and
// in process memory for local work, where redis may not be running.
func MakeChallengeStore(environment *env.Environment, client *redis.Client) otp.ChallengeStore {
	if environment.App.IsLocal() {
		return otp.MakeMemoryChallengeStore()
	}

	return otp.MakeRedisChallengeStore(client)
}

// MakeGeoGate returns nil when the country gate is disabled; the auth gate
// middleware treats a nil gate as pass-through.
func MakeGeoGate(environment *env.Environment) *geo.Gate {
	if !environment.Geo.Enabled {
		return nil
	}

	resolver := geo.MakeHTTPResolver(&environment.Geo, portal.NewDefaultClient(nil))

	return geo.MakeGate(&environment.Geo, resolver)
}

func MakeEnv(validate *portal.Validator) *env.Environment {
	errorSuffix := "Environment: "

	app := env.AppEnvironment{
		Name:      env.GetEnvVar("ENV_APP_NAME"),
		URL:       env.GetEnvVar("ENV_APP_URL"),
		Type:      env.GetEnvVar("ENV_APP_ENV_TYPE"),
		MasterKey: env.GetSecretOrEnv("app_master_key", "ENV_APP_MASTER_KEY"),
	}

	db := env.DBEnvironment{
		UserName:     env.GetSecretOrEnv("pg_username", "ENV_DB_USER_NAME"),
		UserPassword: env.GetSecretOrEnv("pg_password", "ENV_DB_USER_PASSWORD"),
		DatabaseName: env.GetSecretOrEnv("pg_dbname", "ENV_DB_DATABASE_NAME"),
		Port:         readInt("ENV_DB_PORT", 0),
		Host:         env.GetEnvVar("ENV_DB_HOST"),
		DriverName:   database.DriverName,
		SSLMode:      env.GetEnvVar("ENV_DB_SSL_MODE"),
		TimeZone:     env.GetEnvVar("ENV_DB_TIMEZONE"),
	}

	logsEnv := env.LogsEnvironment{
		Level:      env.GetEnvVar("ENV_APP_LOG_LEVEL"),
		Dir:        env.GetEnvVar("ENV_APP_LOGS_DIR"),
		DateFormat: env.GetEnvVar("ENV_APP_LOGS_DATE_FORMAT"),
	}

	netEnv := env.NetEnvironment{
		HttpHost:        env.GetEnvVar("ENV_HTTP_HOST"),
		HttpPort:        env.GetEnvVar("ENV_HTTP_PORT"),
		PublicAllowedIP: env.GetEnvVar("ENV_PUBLIC_ALLOWED_IP"),
		IsProduction:    app.IsProduction(), // --- only needed for validation purposes
	}

	sentryEnv := env.SentryEnvironment{
		DSN: env.GetEnvVar("ENV_SENTRY_DSN"),
	}

	pingEnv := env.PingEnvironment{
		Username: env.GetEnvVar("ENV_PING_USERNAME"),
		Password: env.GetEnvVar("ENV_PING_PASSWORD"),
	}

	redisEnv := env.RedisEnvironment{
		Host:     env.GetEnvVar("ENV_REDIS_HOST"),
		Port:     env.GetEnvVar("ENV_REDIS_PORT"),
		Password: env.GetSecretOrEnv("redis_password", "ENV_REDIS_PASSWORD"),
		DB:       readInt("ENV_REDIS_DB", 0),
	}

	smtpEnv := env.SMTPEnvironment{
		Host:     env.GetEnvVar("ENV_SMTP_HOST"),
		Port:     env.GetEnvVar("ENV_SMTP_PORT"),
		Username: env.GetSecretOrEnv("smtp_username", "ENV_SMTP_USERNAME"),
		Password: env.GetSecretOrEnv("smtp_password", "ENV_SMTP_PASSWORD"),
		From:     env.GetEnvVar("ENV_SMTP_FROM"),
	}

	sessionEnv := env.SessionEnvironment{
		Secret:       env.GetSecretOrEnv("session_secret", "ENV_SESSION_SECRET"),
		CookieDomain: env.GetEnvVar("ENV_SESSION_COOKIE_DOMAIN"),
	}

	adminEnv := env.AdminEnvironment{
		Account:      env.GetEnvVar("ENV_ADMIN_ACCOUNT"),
		PasswordHash: env.GetSecretOrEnv("admin_password_hash", "ENV_ADMIN_PASSWORD_HASH"),
	}

	viewerEnv := env.ViewerEnvironment{
		BaseURL:      env.GetEnvVar("ENV_VIEWER_BASE_URL"),
		TokenSecret:  env.GetSecretOrEnv("viewer_token_secret", "ENV_VIEWER_TOKEN_SECRET"),
		TokenMinutes: readInt("ENV_VIEWER_TOKEN_MINUTES", 10),
	}

	geoEnv := env.GeoEnvironment{
		Enabled:          env.GetEnvVar("ENV_GEO_ENABLED") == "true",
		LookupURL:        env.GetEnvVar("ENV_GEO_LOOKUP_URL"),
		DeniedCountries:  env.GetEnvVar("ENV_GEO_DENIED_COUNTRIES"),
		CacheTTLMinutes:  readInt("ENV_GEO_CACHE_TTL_MINUTES", 0),
		LookupTimeoutSec: readInt("ENV_GEO_LOOKUP_TIMEOUT_SECONDS", 0),
	}

	if _, err := validate.Rejects(app); err != nil {
		panic(errorSuffix + "invalid [APP] model: " + validate.GetErrorsAsJson())
	}

	if _, err := validate.Rejects(db); err != nil {
		panic(errorSuffix + "invalid [Sql] model: " + validate.GetErrorsAsJson())
	}

	if _, err := validate.Rejects(logsEnv); err != nil {
		panic(errorSuffix + "invalid [logs Credentials] model: " + validate.GetErrorsAsJson())
	}

	if _, err := validate.Rejects(netEnv); err != nil {
		panic(errorSuffix + "invalid [NETWORK] model: " + validate.GetErrorsAsJson())
	}

	if _, err := validate.Rejects(sentryEnv); err != nil {
		panic(errorSuffix + "invalid [SENTRY] model: " + validate.GetErrorsAsJson())
	}

	if _, err := validate.Rejects(pingEnv); err != nil {
		panic(errorSuffix + "invalid [ping] model: " + validate.GetErrorsAsJson())
	}

	// Redis backs sessions-adjacent state on shared deployments only; local
	// work runs on the in-memory stores.
	if !app.IsLocal() {
		if _, err := validate.Rejects(redisEnv); err != nil {
			panic(errorSuffix + "invalid [REDIS] model: " + validate.GetErrorsAsJson())
		}
	}

	// Only production delivers real mail.
	if app.IsProduction() {
		if _, err := validate.Rejects(smtpEnv); err != nil {
			panic(errorSuffix + "invalid [SMTP] model: " + validate.GetErrorsAsJson())
		}
	}

	if _, err := validate.Rejects(sessionEnv); err != nil {
		panic(errorSuffix + "invalid [SESSION] model: " + validate.GetErrorsAsJson())
	}

	if _, err := validate.Rejects(adminEnv); err != nil {
		panic(errorSuffix + "invalid [ADMIN] model: " + validate.GetErrorsAsJson())
	}

	if _, err := validate.Rejects(viewerEnv); err != nil {
		panic(errorSuffix + "invalid [VIEWER] model: " + validate.GetErrorsAsJson())
	}

	if _, err := validate.Rejects(geoEnv); err != nil {
		panic(errorSuffix + "invalid [GEO] model: " + validate.GetErrorsAsJson())
	}

	tracingEnv := env.NewTracingEnvironment()

	if _, err := validate.Rejects(*tracingEnv); err != nil {
		panic(errorSuffix + "invalid [TRACING] model: " + validate.GetErrorsAsJson())
	}

	return &env.Environment{
		App:     app,
		DB:      db,
		Logs:    logsEnv,
		Network: netEnv,
		Sentry:  sentryEnv,
		Ping:    pingEnv,
		Tracing: *tracingEnv,
		Redis:   redisEnv,
		SMTP:    smtpEnv,
		Session: sessionEnv,
		Admin:   adminEnv,
		Viewer:  viewerEnv,
		Geo:     geoEnv,
	}
}

// readInt parses an integer env var, keeping the fallback when the variable
// is unset. A set-but-garbled value panics so typos never boot silently.
func readInt(key string, fallback int) int {
	raw := env.GetEnvVar(key)

	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)

	if err != nil {
		panic("Environment: invalid value for " + key + ": " + err.Error())
	}

	return value
}
