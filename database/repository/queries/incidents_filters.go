package queries

import (
	"strings"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

// IncidentFilters narrows the admin incident listing. String fields perform
// case-insensitive partial matches; Resolved is tri-state, nil meaning both.
type IncidentFilters struct {
	IP       string
	Reason   string
	Text     string // matched against incident_id and admin_notes
	Resolved *bool
}

func (f IncidentFilters) GetIP() string {
	return f.sanitiseString(f.IP)
}

func (f IncidentFilters) GetReason() string {
	return f.sanitiseString(f.Reason)
}

func (f IncidentFilters) GetText() string {
	return f.sanitiseString(f.Text)
}

func (f IncidentFilters) sanitiseString(seed string) string {
	str := portal.NewStringable(seed)

	return strings.TrimSpace(str.ToLower())
}
