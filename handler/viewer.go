package handler

import (
	"fmt"
	"log/slog"
	baseHttp "net/http"
	"strings"
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/handler/payload"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/auth"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/endpoint"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

// ViewerHandler mints the signed links viewers stream documents through
// and validates them at the renderer boundary. Documents outside their
// publication window respond exactly like absent ones, so probing a slug
// reveals nothing about scheduling.
type ViewerHandler struct {
	Documents       repository.Documents
	Tenants         repository.Tenants
	Tokens          auth.ViewerTokens
	BaseURL         string
	WatermarkSecret string

	now func() time.Time
}

func MakeViewerHandler(
	documents repository.Documents,
	tenants repository.Tenants,
	tokens auth.ViewerTokens,
	baseURL string,
	watermarkSecret string,
) ViewerHandler {
	return ViewerHandler{
		Documents:       documents,
		Tenants:         tenants,
		Tokens:          tokens,
		BaseURL:         strings.TrimRight(baseURL, "/"),
		WatermarkSecret: watermarkSecret,
		now:             time.Now,
	}
}

// Link issues a signed short-lived URL for one published document,
// stamped with the viewer's watermark.
func (h *ViewerHandler) Link(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	slug := payload.GetSlugFrom(r)
	if slug == "" {
		return endpoint.BadRequestError("missing document slug")
	}

	email, tenantUUID := viewerIdentityFrom(r)

	tenant := h.Tenants.FindByUUID(tenantUUID)
	if tenant == nil {
		return &endpoint.ApiError{Message: "session tenant no longer exists", Status: baseHttp.StatusUnauthorized}
	}

	document := h.Documents.FindBySlug(tenant.ID, slug)

	now := h.now()
	if document == nil || !document.IsPublishedAt(now) {
		return endpoint.NotFound("document not found")
	}

	mark := auth.MakeWatermark(h.WatermarkSecret, email, portal.ParseClientIP(r), tenant.Slug, now)

	token, err := h.Tokens.Issue(auth.ViewerGrant{
		Email:     email,
		Tenant:    tenant.Slug,
		Document:  document.UUID,
		FilePath:  document.FilePath,
		Watermark: mark.Text(),
	})

	if err != nil {
		return endpoint.LogInternalError("could not issue viewer link", err)
	}

	data := payload.ViewerLinkResponse{
		URL:       fmt.Sprintf("%s/view?token=%s", h.BaseURL, token),
		Watermark: mark.Text(),
		ExpiresAt: now.Add(h.Tokens.TTL()).UTC().Format(time.RFC3339),
	}

	return respondNoCache(w, r, data)
}

// View validates a signed link and hands the renderer its descriptor. The
// actual page rendering happens outside this service; the unsealed file
// path only ever travels to the renderer, never into listings.
func (h *ViewerHandler) View(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		return &endpoint.ApiError{Message: "missing viewer token", Status: baseHttp.StatusUnauthorized}
	}

	claims, err := h.Tokens.Open(token)
	if err != nil {
		slog.Warn("rejected viewer token", "err", err)

		return &endpoint.ApiError{Message: "invalid or expired viewer link", Status: baseHttp.StatusUnauthorized}
	}

	data := payload.ViewerDescriptorResponse{
		Document:  claims.Document,
		Tenant:    claims.Tenant,
		FilePath:  claims.Path,
		Watermark: claims.Mark,
	}

	return respondNoCache(w, r, data)
}
