package payload

import (
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

// FailureResponse is one ledger row on the security dashboard. Emails are
// masked before they leave the API.
type FailureResponse struct {
	IPAddress   string `json:"ip_address"`
	FailureType string `json:"failure_type"`
	Email       string `json:"email"`
	AttemptedAt string `json:"attempted_at"`
}

type SecurityOverviewResponse struct {
	RecentFailures  []FailureResponse  `json:"recent_failures"`
	RecentIncidents []IncidentResponse `json:"recent_incidents"`
}

func GetFailureResponse(failure database.AuthFailure) FailureResponse {
	email := ""
	if failure.AttemptedEmail != nil {
		email = portal.MaskEmail(*failure.AttemptedEmail)
	}

	return FailureResponse{
		IPAddress:   failure.IPAddress,
		FailureType: failure.FailureType,
		Email:       email,
		AttemptedAt: failure.AttemptedAt.UTC().Format(time.RFC3339),
	}
}

func GetSecurityOverviewResponse(failures []database.AuthFailure, incidents []database.BlockIncident) SecurityOverviewResponse {
	overview := SecurityOverviewResponse{
		RecentFailures:  make([]FailureResponse, 0, len(failures)),
		RecentIncidents: make([]IncidentResponse, 0, len(incidents)),
	}

	for _, failure := range failures {
		overview.RecentFailures = append(overview.RecentFailures, GetFailureResponse(failure))
	}

	for _, incident := range incidents {
		overview.RecentIncidents = append(overview.RecentIncidents, GetIncidentResponse(incident))
	}

	return overview
}
