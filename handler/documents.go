package handler

import (
	baseHttp "net/http"
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/handler/payload"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/endpoint"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

// DocumentsHandler lists what an authenticated viewer may open right now.
// Publication windows are enforced at query time, so a listing taken a
// minute before a window closes never promises more than the link step
// will honour.
type DocumentsHandler struct {
	Documents repository.Documents
	Tenants   repository.Tenants

	now func() time.Time
}

func MakeDocumentsHandler(documents repository.Documents, tenants repository.Tenants) DocumentsHandler {
	return DocumentsHandler{
		Documents: documents,
		Tenants:   tenants,
		now:       time.Now,
	}
}

func (h *DocumentsHandler) Index(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	_, tenantUUID := viewerIdentityFrom(r)

	tenant := h.Tenants.FindByUUID(tenantUUID)
	if tenant == nil {
		return &endpoint.ApiError{Message: "session tenant no longer exists", Status: baseHttp.StatusUnauthorized}
	}

	documents, err := h.Documents.ListPublished(tenant.ID, h.now())
	if err != nil {
		return endpoint.LogInternalError("could not list documents", err)
	}

	return respondNoCache(w, r, payload.GetDocumentsResponse(documents))
}

func viewerIdentityFrom(r *baseHttp.Request) (email, tenantUUID string) {
	if value, ok := r.Context().Value(portal.ViewerEmailKey).(string); ok {
		email = value
	}

	if value, ok := r.Context().Value(portal.ViewerTenantKey).(string); ok {
		tenantUUID = value
	}

	return email, tenantUUID
}
