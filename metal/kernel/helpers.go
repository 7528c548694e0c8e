package kernel

import (
	"log/slog"
	baseHttp "net/http"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/env"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/endpoint"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

// RecoverWithSentry reports a panic to sentry before re-raising it, so the
// one-shot commands still reach the error tracker when they crash.
func RecoverWithSentry(s *portal.Sentry) {
	r := recover()

	if r == nil {
		return
	}

	if s != nil {
		sentry.CurrentHub().Recover(r)
		sentry.Flush(2 * time.Second)
	}

	panic(r)
}

func (a *App) SetRouter(router Router) {
	a.router = &router
}

func (a *App) CloseLogs() {
	if a.logs == nil {
		return
	}

	a.logs.Close()
}

func (a *App) CloseDB() {
	if a.db == nil {
		return
	}

	a.db.Close()
}

func (a *App) CloseRedis() {
	if a.redis == nil {
		return
	}

	if err := a.redis.Close(); err != nil {
		slog.Error("could not close the redis client", "error", err)
	}
}

func (a *App) CloseTracing() {
	if a.tracing == nil {
		return
	}

	if err := a.tracing.Shutdown(); err != nil {
		slog.Error("could not shut down the tracer provider", "error", err)
	}
}

func (a *App) IsLocal() bool {
	return a.env.App.IsLocal()
}

func (a *App) IsProduction() bool {
	return a.env.App.IsProduction()
}

func (a *App) GetEnv() *env.Environment {
	return a.env
}

func (a *App) GetDB() *database.Connection {
	return a.db
}

func (a *App) GetMux() *baseHttp.ServeMux {
	if a.router == nil {
		return nil
	}

	return a.router.Mux
}

// Handler wraps the routed mux with the outer layers every request crosses:
// permissive CORS outside production and the sentry instrumentation.
func (a *App) Handler() baseHttp.Handler {
	var wrap func(baseHttp.Handler) baseHttp.Handler

	if a.sentry != nil {
		wrap = a.sentry.WrapHandler
	}

	var mux baseHttp.Handler
	if routed := a.GetMux(); routed != nil {
		mux = routed
	}

	return endpoint.NewServerHandler(endpoint.ServerHandlerConfig{
		Mux:          mux,
		IsProduction: a.IsProduction(),
		DevHost:      a.env.App.URL,
		Wrap:         wrap,
	})
}
