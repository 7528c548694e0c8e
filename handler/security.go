package handler

import (
	baseHttp "net/http"
	"strings"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/handler/payload"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/endpoint"
)

const overviewLimit = 50

// SecurityHandler summarises recent authentication abuse for the admin
// dashboard: the freshest ledger rows next to the freshest incidents.
type SecurityHandler struct {
	Failures  repository.AuthFailures
	Incidents repository.Incidents
}

func MakeSecurityHandler(failures repository.AuthFailures, incidents repository.Incidents) SecurityHandler {
	return SecurityHandler{
		Failures:  failures,
		Incidents: incidents,
	}
}

// Overview returns recent failures and incidents. An optional `ip` query
// narrows the failure side to one address.
func (h *SecurityHandler) Overview(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	var failures []database.AuthFailure
	var err error

	if ip := strings.TrimSpace(r.URL.Query().Get("ip")); ip != "" {
		failures, err = h.Failures.LatestForIP(ip, overviewLimit)
	} else {
		failures, err = h.Failures.ListRecent(overviewLimit)
	}

	if err != nil {
		return endpoint.LogInternalError("could not list auth failures", err)
	}

	incidents, err := h.Incidents.ListRecent(overviewLimit)
	if err != nil {
		return endpoint.LogInternalError("could not list incidents", err)
	}

	return respondNoCache(w, r, payload.GetSecurityOverviewResponse(failures, incidents))
}
