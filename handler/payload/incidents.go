package payload

import (
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
)

// IncidentResponse mirrors the admin dashboard's incident JSON. Timestamps
// travel as RFC3339 UTC strings; resolution fields stay null until an
// operator closes the incident.
type IncidentResponse struct {
	IncidentID  string  `json:"incident_id"`
	IPAddress   string  `json:"ip_address"`
	BlockReason string  `json:"block_reason"`
	CreatedAt   string  `json:"created_at"`
	Resolved    bool    `json:"resolved"`
	ResolvedAt  *string `json:"resolved_at"`
	ResolvedBy  *string `json:"resolved_by"`
	AdminNotes  string  `json:"admin_notes"`
}

// IncidentEnvelope is the fixed admin API envelope: HTTP 200 always,
// success/error decided in the body.
type IncidentEnvelope struct {
	Success  bool              `json:"success"`
	Incident *IncidentResponse `json:"incident,omitempty"`
	Error    string            `json:"error,omitempty"`
}

type ResolveIncidentRequest struct {
	IncidentID string `json:"incident_id"`
	Notes      string `json:"notes"`
}

func GetIncidentResponse(incident database.BlockIncident) IncidentResponse {
	response := IncidentResponse{
		IncidentID:  incident.IncidentID,
		IPAddress:   incident.IPAddress,
		BlockReason: incident.BlockReason,
		CreatedAt:   incident.CreatedAt.UTC().Format(time.RFC3339),
		Resolved:    incident.Resolved,
		ResolvedBy:  incident.ResolvedBy,
		AdminNotes:  incident.AdminNotes,
	}

	if incident.ResolvedAt != nil {
		at := incident.ResolvedAt.UTC().Format(time.RFC3339)
		response.ResolvedAt = &at
	}

	return response
}

func IncidentHit(incident database.BlockIncident) IncidentEnvelope {
	response := GetIncidentResponse(incident)

	return IncidentEnvelope{Success: true, Incident: &response}
}

func IncidentFailure(message string) IncidentEnvelope {
	return IncidentEnvelope{Success: false, Error: message}
}
