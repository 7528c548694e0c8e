package guard

import (
	"fmt"
	"strings"
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository"
)

// Search is the admin-facing read and resolve side of the lockout
// machinery. Identifiers are validated before any storage access.
type Search struct {
	incidents repository.Incidents

	now func() time.Time
}

func MakeSearch(incidents repository.Incidents) *Search {
	return &Search{
		incidents: incidents,
		now:       time.Now,
	}
}

// Find returns the incident behind a public identifier.
func (s *Search) Find(id string) (*database.BlockIncident, error) {
	trimmed := strings.TrimSpace(id)

	if !IsValidIncidentID(trimmed) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIncidentID, id)
	}

	incident, err := s.incidents.FindByIncidentID(trimmed)
	if err != nil {
		return nil, err
	}

	if incident == nil {
		return nil, fmt.Errorf("%w: %s", ErrIncidentNotFound, trimmed)
	}

	return incident, nil
}

// Resolve closes an incident on behalf of an administrator. When two
// administrators race, the conditional update lets exactly one win; the
// loser gets ErrAlreadyResolved.
func (s *Search) Resolve(id, resolvedBy, notes string) (*database.BlockIncident, error) {
	incident, err := s.Find(id)
	if err != nil {
		return nil, err
	}

	if incident.Resolved {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyResolved, incident.IncidentID)
	}

	affected, err := s.incidents.MarkResolved(database.ResolveIncidentAttrs{
		IncidentID: incident.IncidentID,
		ResolvedBy: resolvedBy,
		AdminNotes: notes,
		ResolvedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}

	if affected == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyResolved, incident.IncidentID)
	}

	incidentsResolved.Inc()

	resolved, err := s.incidents.FindByIncidentID(incident.IncidentID)
	if err != nil {
		return nil, err
	}

	return resolved, nil
}
