package middleware

import (
	"errors"
	baseHttp "net/http"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/endpoint"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/geo"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/guard"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/limiter"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/middleware/mwguards"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

// AuthGateMiddleware fronts the credential endpoints. Before any credential
// is evaluated it rejects request bursts, refuses IPs with an active block
// incident and applies the country gate. Burst is shared with the handlers
// so failed attempts feed back into it.
type AuthGateMiddleware struct {
	Limiter *guard.Limiter
	Gate    *geo.Gate
	Burst   *limiter.MemoryLimiter
}

func MakeAuthGateMiddleware(guardLimiter *guard.Limiter, gate *geo.Gate, burst *limiter.MemoryLimiter) AuthGateMiddleware {
	return AuthGateMiddleware{
		Limiter: guardLimiter,
		Gate:    gate,
		Burst:   burst,
	}
}

func (m AuthGateMiddleware) Handle(next endpoint.ApiHandler) endpoint.ApiHandler {
	return func(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
		if m.Limiter == nil {
			return endpoint.InternalError("auth gate middleware missing dependencies")
		}

		ip := portal.ParseClientIP(r)

		if m.Burst != nil && m.Burst.TooMany(ip) {
			return mwguards.RateLimitedError(ip)
		}

		incident, err := m.Limiter.IsBlocked(ip)

		if errors.Is(err, guard.ErrInvalidIP) {
			return mwguards.InvalidRequestError("invalid client address", ip)
		}

		if err != nil {
			return endpoint.LogInternalError("could not check block state", err)
		}

		if incident != nil {
			guard.CountBlockedRequest()

			return mwguards.BlockedError(ip, incident.BlockedUntil)
		}

		if m.Gate != nil && !m.Gate.Allow(r.Context(), ip) {
			return mwguards.GeoDeniedError(ip)
		}

		return next(w, r)
	}
}
