package handler

import (
	"errors"
	"log/slog"
	baseHttp "net/http"
	"strings"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository/pagination"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository/queries"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/handler/paginate"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/handler/payload"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/endpoint"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/guard"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

// Console strings for the incident endpoints. The admin front end shows
// the `error` field verbatim, so these are fixed copy, not log text.
const (
	incidentNotFoundMessage        = "インシデントが見つかりません"
	incidentIDMissingMessage       = "インシデントIDが指定されていません"
	incidentIDMalformedMessage     = "無効なインシデントID形式です"
	incidentSearchFailedMessage    = "検索処理中にエラーが発生しました"
	incidentAlreadyResolvedMessage = "このインシデントは既に解決済みです"
)

// IncidentsHandler serves the admin console's lockout views. The search
// and resolve endpoints always answer HTTP 200 and carry the outcome in
// the envelope: the console keys off `success`, never off the status code.
type IncidentsHandler struct {
	Search    *guard.Search
	Incidents repository.Incidents
}

func MakeIncidentsHandler(search *guard.Search, incidents repository.Incidents) IncidentsHandler {
	return IncidentsHandler{
		Search:    search,
		Incidents: incidents,
	}
}

// Show looks up one incident by its public identifier.
func (h *IncidentsHandler) Show(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	id := strings.TrimSpace(r.URL.Query().Get("incident_id"))
	if id == "" {
		return respondEnvelope(w, r, payload.IncidentFailure(incidentIDMissingMessage))
	}

	incident, err := h.Search.Find(id)
	if err != nil {
		return respondEnvelope(w, r, payload.IncidentFailure(consoleMessageFor("incident search failed", err)))
	}

	return respondEnvelope(w, r, payload.IncidentHit(*incident))
}

// Resolve closes an incident on behalf of the logged-in administrator.
func (h *IncidentsHandler) Resolve(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	request, closer, err := endpoint.ParseRequestBody[payload.ResolveIncidentRequest](r)
	defer closer()

	if err != nil {
		slog.Error("failed to parse resolve request", "err", err)

		return respondEnvelope(w, r, payload.IncidentFailure(incidentIDMissingMessage))
	}

	id := strings.TrimSpace(request.IncidentID)
	if id == "" {
		return respondEnvelope(w, r, payload.IncidentFailure(incidentIDMissingMessage))
	}

	incident, err := h.Search.Resolve(id, adminAccountFrom(r), request.Notes)
	if err != nil {
		return respondEnvelope(w, r, payload.IncidentFailure(consoleMessageFor("incident resolve failed", err)))
	}

	return respondEnvelope(w, r, payload.IncidentHit(*incident))
}

// Index pages through incidents for the console dashboard, newest first.
func (h *IncidentsHandler) Index(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	filters := incidentFiltersFrom(r)

	result, err := h.Incidents.GetAll(&filters, paginate.MakeIncidentsFrom(r.URL.Query()))
	if err != nil {
		return endpoint.LogInternalError("could not list incidents", err)
	}

	items := pagination.HydratePagination(result, payload.GetIncidentResponse)

	return respondNoCache(w, r, items)
}

func incidentFiltersFrom(r *baseHttp.Request) queries.IncidentFilters {
	query := r.URL.Query()

	filters := queries.IncidentFilters{
		IP:     query.Get("ip"),
		Reason: query.Get("reason"),
		Text:   query.Get("text"),
	}

	switch strings.ToLower(query.Get("resolved")) {
	case "true":
		resolved := true
		filters.Resolved = &resolved
	case "false":
		resolved := false
		filters.Resolved = &resolved
	}

	return filters
}

// consoleMessageFor folds guard sentinels into the fixed console strings.
// Anything else is a storage fault: logged here, answered with the fixed
// search-failure copy so internals never reach the console.
func consoleMessageFor(logMessage string, err error) string {
	switch {
	case errors.Is(err, guard.ErrInvalidIncidentID):
		return incidentIDMalformedMessage
	case errors.Is(err, guard.ErrIncidentNotFound):
		return incidentNotFoundMessage
	case errors.Is(err, guard.ErrAlreadyResolved):
		return incidentAlreadyResolvedMessage
	}

	slog.Error(logMessage, "err", err)

	return incidentSearchFailedMessage
}

func adminAccountFrom(r *baseHttp.Request) string {
	if account, ok := r.Context().Value(portal.AdminAccountKey).(string); ok {
		return account
	}

	return ""
}

func respondEnvelope(w baseHttp.ResponseWriter, r *baseHttp.Request, envelope payload.IncidentEnvelope) *endpoint.ApiError {
	resp := endpoint.MakeNoCacheResponse(w, r)

	if err := resp.RespondOk(envelope); err != nil {
		return endpoint.LogInternalError("could not encode incident envelope", err)
	}

	return nil
}
