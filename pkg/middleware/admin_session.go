package middleware

import (
	"context"
	baseHttp "net/http"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/endpoint"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/middleware/mwguards"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/session"
)

// AdminSessionMiddleware lets requests through only when they carry a live
// admin session. The account name is placed on the request context so
// downstream handlers can stamp audit fields.
type AdminSessionMiddleware struct {
	Sessions *session.Manager
}

func MakeAdminSessionMiddleware(sessions *session.Manager) AdminSessionMiddleware {
	return AdminSessionMiddleware{Sessions: sessions}
}

func (m AdminSessionMiddleware) Handle(next endpoint.ApiHandler) endpoint.ApiHandler {
	return func(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
		if m.Sessions == nil {
			return endpoint.InternalError("admin session middleware missing dependencies")
		}

		account, ok := m.Sessions.Admin(r)
		if !ok {
			return mwguards.SessionRequiredError("admin session required", r.URL.Path)
		}

		ctx := context.WithValue(r.Context(), portal.AdminAccountKey, account)

		return next(w, r.WithContext(ctx))
	}
}
