package kernel

import (
	baseHttp "net/http"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/handler"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/env"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/auth"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/endpoint"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/guard"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/limiter"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/mailer"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/middleware"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/otp"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/session"
)

type Router struct {
	Env      *env.Environment
	Mux      *baseHttp.ServeMux
	Pipeline middleware.Pipeline
	Db       *database.Connection

	validator     *portal.Validator
	sessions      *session.Manager
	guardLimiter  *guard.Limiter
	search        *guard.Search
	challenges    otp.ChallengeStore
	verifier      *otp.Verifier
	postman       mailer.Mailer
	authBurst     *limiter.MemoryLimiter
	adminThrottle *limiter.MemoryLimiter
	tokens        auth.ViewerTokens
}

func (r *Router) PublicPipelineFor(apiHandler endpoint.ApiHandler) baseHttp.HandlerFunc {
	return endpoint.NewApiHandler(
		r.Pipeline.Chain(apiHandler),
	)
}

// GatedPipelineFor fronts credential endpoints with the block-incident
// check, the burst limiter and the country gate.
func (r *Router) GatedPipelineFor(apiHandler endpoint.ApiHandler) baseHttp.HandlerFunc {
	return endpoint.NewApiHandler(
		r.Pipeline.Chain(
			apiHandler,
			r.Pipeline.AuthGate.Handle,
		),
	)
}

func (r *Router) ViewerPipelineFor(apiHandler endpoint.ApiHandler) baseHttp.HandlerFunc {
	return endpoint.NewApiHandler(
		r.Pipeline.Chain(
			apiHandler,
			r.Pipeline.Viewer.Handle,
		),
	)
}

func (r *Router) AdminPipelineFor(apiHandler endpoint.ApiHandler) baseHttp.HandlerFunc {
	return endpoint.NewApiHandler(
		r.Pipeline.Chain(
			apiHandler,
			r.Pipeline.Admin.Handle,
		),
	)
}

func (r *Router) Auth() {
	tenants := repository.Tenants{DB: r.Db}

	abstract := handler.MakeAuthHandler(
		tenants,
		r.guardLimiter,
		r.challenges,
		r.verifier,
		r.postman,
		r.sessions,
		r.authBurst,
		r.validator,
	)

	passphrase := r.GatedPipelineFor(abstract.Passphrase)
	code := r.GatedPipelineFor(abstract.OTP)
	logout := r.PublicPipelineFor(abstract.Logout)

	r.Mux.HandleFunc("POST /auth/passphrase", passphrase)
	r.Mux.HandleFunc("POST /auth/otp", code)
	r.Mux.HandleFunc("POST /auth/logout", logout)
}

func (r *Router) Documents() {
	documents := repository.Documents{DB: r.Db}
	tenants := repository.Tenants{DB: r.Db}

	abstract := handler.MakeDocumentsHandler(documents, tenants)

	index := r.ViewerPipelineFor(abstract.Index)

	r.Mux.HandleFunc("GET /documents", index)
}

func (r *Router) Viewer() {
	documents := repository.Documents{DB: r.Db}
	tenants := repository.Tenants{DB: r.Db}

	abstract := handler.MakeViewerHandler(
		documents,
		tenants,
		r.tokens,
		r.Env.Viewer.BaseURL,
		r.Env.App.MasterKey,
	)

	link := r.ViewerPipelineFor(abstract.Link)
	view := r.PublicPipelineFor(abstract.View)

	r.Mux.HandleFunc("POST /documents/{slug}/link", link)

	// The signed token carries the viewer's authorisation, so the renderer
	// boundary takes no session.
	r.Mux.HandleFunc("GET /viewer/view", view)
}

func (r *Router) AdminAuth() {
	abstract := handler.MakeAdminAuthHandler(
		&r.Env.Admin,
		r.sessions,
		r.adminThrottle,
		r.validator,
	)

	login := r.PublicPipelineFor(abstract.Login)
	logout := r.AdminPipelineFor(abstract.Logout)

	r.Mux.HandleFunc("POST /admin/api/login", login)
	r.Mux.HandleFunc("POST /admin/api/logout", logout)
}

func (r *Router) Incidents() {
	incidents := repository.Incidents{DB: r.Db}

	abstract := handler.MakeIncidentsHandler(r.search, incidents)

	show := r.AdminPipelineFor(abstract.Show)
	resolve := r.AdminPipelineFor(abstract.Resolve)
	index := r.AdminPipelineFor(abstract.Index)

	r.Mux.HandleFunc("GET /admin/api/incident-search", show)
	r.Mux.HandleFunc("POST /admin/api/incident-resolve", resolve)
	r.Mux.HandleFunc("GET /admin/api/incidents", index)
}

func (r *Router) Settings() {
	settings := repository.Settings{DB: r.Db}

	abstract := handler.MakeSettingsHandler(settings, r.validator)

	show := r.AdminPipelineFor(abstract.Show)
	update := r.AdminPipelineFor(abstract.Update)
	history := r.AdminPipelineFor(abstract.History)

	r.Mux.HandleFunc("GET /admin/api/settings", show)
	r.Mux.HandleFunc("PUT /admin/api/settings", update)
	r.Mux.HandleFunc("GET /admin/api/settings/history", history)
}

func (r *Router) Security() {
	failures := repository.AuthFailures{DB: r.Db}
	incidents := repository.Incidents{DB: r.Db}

	abstract := handler.MakeSecurityHandler(failures, incidents)

	overview := r.AdminPipelineFor(abstract.Overview)

	r.Mux.HandleFunc("GET /admin/api/security-overview", overview)
}

func (r *Router) Ping() {
	abstract := handler.MakePingHandler()

	r.Mux.HandleFunc("GET /ping", r.PublicPipelineFor(abstract.Handle))
}

func (r *Router) KeepAlive() {
	abstract := handler.MakeKeepAliveHandler(&r.Env.Ping)

	apiHandler := endpoint.NewApiHandler(
		r.Pipeline.Chain(abstract.Handle),
	)

	r.Mux.HandleFunc("GET /keep-alive", apiHandler)
}

func (r *Router) KeepAliveDB() {
	abstract := handler.MakeKeepAliveDBHandler(&r.Env.Ping, r.Db)

	apiHandler := endpoint.NewApiHandler(
		r.Pipeline.Chain(abstract.Handle),
	)

	r.Mux.HandleFunc("GET /keep-alive-db", apiHandler)
}

// Metrics mounts the prometheus scrape endpoint. Outside production it is
// open; in production only the configured monitoring host may read it, and
// everyone else sees the same 404 an unknown path would give.
func (r *Router) Metrics() {
	abstract := handler.NewMetricsHandler()

	r.Mux.Handle("GET /metrics", r.restrictToMonitoringHost(abstract))
}

func (r *Router) restrictToMonitoringHost(next baseHttp.Handler) baseHttp.Handler {
	return baseHttp.HandlerFunc(func(w baseHttp.ResponseWriter, req *baseHttp.Request) {
		if r.Env.App.IsProduction() && portal.ParseClientIP(req) != r.Env.Network.PublicAllowedIP {
			baseHttp.NotFound(w, req)

			return
		}

		next.ServeHTTP(w, req)
	})
}
