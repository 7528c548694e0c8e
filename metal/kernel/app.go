package kernel

import (
	"fmt"
	baseHttp "net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/env"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/auth"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/guard"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/limiter"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/llogs"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/middleware"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/otp"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

// In-memory burst budgets in front of the credential endpoints. These trip
// before any database work; the durable threshold that opens block
// incidents lives in pkg/guard and is configured through settings.
const (
	authBurstWindow   = time.Minute
	authBurstAttempts = 30

	adminThrottleWindow   = 15 * time.Minute
	adminThrottleAttempts = 10
)

// policyCacheTTL bounds how stale the settings-backed lockout policy may be.
const policyCacheTTL = time.Minute

type App struct {
	router    *Router
	sentry    *portal.Sentry
	logs      llogs.Driver
	tracing   *portal.TracerProvider
	validator *portal.Validator
	env       *env.Environment
	db        *database.Connection
	redis     *redis.Client
}

func MakeApp(environment *env.Environment, validator *portal.Validator) (*App, error) {
	viewerTokens, err := auth.MakeViewerTokens(&environment.Viewer)

	if err != nil {
		return nil, fmt.Errorf("bootstrapping error > could not create viewer tokens: %w", err)
	}

	db := MakeDbConnection(environment)
	redisClient := MakeRedis(environment)
	sessions := MakeSessions(environment)

	settings := repository.Settings{DB: db}
	failures := repository.AuthFailures{DB: db}
	incidents := repository.Incidents{DB: db}

	policy := guard.MakeSettingsPolicy(settings, guard.DefaultPolicy(), policyCacheTTL)
	guardLimiter := guard.MakeLimiter(failures, incidents, policy)

	challenges := MakeChallengeStore(environment, redisClient)
	authBurst := limiter.NewMemoryLimiter(authBurstWindow, authBurstAttempts)

	app := App{
		env:       environment,
		validator: validator,
		logs:      MakeLogs(environment),
		sentry:    MakeSentry(environment),
		tracing:   MakeTracing(environment),
		db:        db,
		redis:     redisClient,
	}

	router := Router{
		Env: environment,
		Db:  db,
		Mux: baseHttp.NewServeMux(),
		Pipeline: middleware.Pipeline{
			Env:      environment,
			Admin:    middleware.MakeAdminSessionMiddleware(sessions),
			Viewer:   middleware.MakeViewerSessionMiddleware(sessions),
			AuthGate: middleware.MakeAuthGateMiddleware(guardLimiter, MakeGeoGate(environment), authBurst),
		},
		validator:     validator,
		sessions:      sessions,
		guardLimiter:  guardLimiter,
		search:        guard.MakeSearch(incidents),
		challenges:    challenges,
		verifier:      otp.MakeVerifier(challenges),
		postman:       MakeMailer(environment),
		authBurst:     authBurst,
		adminThrottle: limiter.NewMemoryLimiter(adminThrottleWindow, adminThrottleAttempts),
		tokens:        viewerTokens,
	}

	app.SetRouter(router)

	return &app, nil
}

func (a *App) Boot() {
	if a == nil || a.router == nil {
		panic("bootstrapping error > Invalid setup")
	}

	router := *a.router

	router.Auth()
	router.Documents()
	router.Viewer()
	router.AdminAuth()
	router.Incidents()
	router.Settings()
	router.Security()
	router.Ping()
	router.KeepAlive()
	router.KeepAliveDB()
	router.Metrics()
}
