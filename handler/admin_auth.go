package handler

import (
	"log/slog"
	baseHttp "net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/handler/payload"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/env"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/endpoint"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/limiter"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/middleware/mwguards"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/session"
)

// AdminAuthHandler guards the operator console with the single bcrypt
// credential from the environment. Guessing is throttled in memory only;
// the database ledger and its incidents stay a viewer-facing concern.
type AdminAuthHandler struct {
	Environment *env.AdminEnvironment
	Sessions    *session.Manager
	Throttle    *limiter.MemoryLimiter
	Validator   *portal.Validator
}

func MakeAdminAuthHandler(
	environment *env.AdminEnvironment,
	sessions *session.Manager,
	throttle *limiter.MemoryLimiter,
	validator *portal.Validator,
) AdminAuthHandler {
	return AdminAuthHandler{
		Environment: environment,
		Sessions:    sessions,
		Throttle:    throttle,
		Validator:   validator,
	}
}

func (h *AdminAuthHandler) Login(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	request, closer, err := endpoint.ParseRequestBody[payload.AdminLoginRequest](r)
	defer closer()

	if err != nil {
		slog.Error("failed to parse admin login", "err", err)

		return endpoint.BadRequestError("invalid request body")
	}

	if rejected, _ := h.Validator.Rejects(request); rejected {
		return endpoint.UnprocessableEntity("invalid login request", asValidationData(h.Validator.GetErrors()))
	}

	ip := portal.ParseClientIP(r)

	if h.Throttle != nil && h.Throttle.TooMany(ip) {
		return mwguards.RateLimitedError(ip)
	}

	account := strings.TrimSpace(request.Account)

	// The hash comparison runs regardless of the account check so both
	// rejections take the same time.
	passwordMatches := bcrypt.CompareHashAndPassword(
		[]byte(h.Environment.PasswordHash),
		[]byte(request.Password),
	) == nil

	if account != h.Environment.GetAccount() || !passwordMatches {
		if h.Throttle != nil {
			h.Throttle.Fail(ip)
		}

		slog.Warn("rejected admin login", "ip", ip)

		return &endpoint.ApiError{Message: "invalid credentials", Status: baseHttp.StatusUnauthorized}
	}

	if err := h.Sessions.StartAdmin(w, r, account); err != nil {
		return endpoint.LogInternalError("could not open admin session", err)
	}

	return respondNoCache(w, r, payload.SessionResponse{Message: "authenticated"})
}

func (h *AdminAuthHandler) Logout(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	if err := h.Sessions.ClearAdmin(w, r); err != nil {
		return endpoint.LogInternalError("could not clear admin session", err)
	}

	return respondNoCache(w, r, payload.SessionResponse{Message: "signed out"})
}
