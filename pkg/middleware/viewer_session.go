package middleware

import (
	"context"
	baseHttp "net/http"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/endpoint"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/middleware/mwguards"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/session"
)

// ViewerSessionMiddleware guards the document surface. It requires a viewer
// session and exposes the viewer's email and tenant on the request context.
type ViewerSessionMiddleware struct {
	Sessions *session.Manager
}

func MakeViewerSessionMiddleware(sessions *session.Manager) ViewerSessionMiddleware {
	return ViewerSessionMiddleware{Sessions: sessions}
}

func (m ViewerSessionMiddleware) Handle(next endpoint.ApiHandler) endpoint.ApiHandler {
	return func(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
		if m.Sessions == nil {
			return endpoint.InternalError("viewer session middleware missing dependencies")
		}

		email, tenantUUID, ok := m.Sessions.Viewer(r)
		if !ok {
			return mwguards.SessionRequiredError("viewer session required", r.URL.Path)
		}

		ctx := context.WithValue(r.Context(), portal.ViewerEmailKey, email)
		ctx = context.WithValue(ctx, portal.ViewerTenantKey, tenantUUID)

		return next(w, r.WithContext(ctx))
	}
}
