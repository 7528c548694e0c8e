package repository

import (
	"fmt"
	"time"

	baseGorm "gorm.io/gorm"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository/pagination"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository/queries"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/gorm"
)

// Incidents persists lockout decisions. Expiry is never written back: a row
// is considered active only when it is unresolved and blocked_until lies in
// the future at read time.
type Incidents struct {
	DB *database.Connection
	tx *baseGorm.DB
}

// WithTx returns a copy of the repository whose queries run on the given
// transaction handle.
func (i Incidents) WithTx(tx *baseGorm.DB) Incidents {
	i.tx = tx

	return i
}

func (i Incidents) sql() *baseGorm.DB {
	if i.tx != nil {
		return i.tx
	}

	return i.DB.Sql()
}

// Create inserts a new incident row. Unique-index violations on incident_id
// bubble up wrapped so callers can detect collisions with
// gorm.IsDuplicatedKey and regenerate.
func (i Incidents) Create(attrs database.BlockIncidentAttrs) (*database.BlockIncident, error) {
	incident := database.BlockIncident{
		IncidentID:   attrs.IncidentID,
		IPAddress:    attrs.IPAddress,
		BlockReason:  attrs.BlockReason,
		BlockedUntil: attrs.BlockedUntil,
		CreatedAt:    attrs.CreatedAt,
	}

	if result := i.sql().Create(&incident); gorm.HasDbIssues(result.Error) {
		return nil, fmt.Errorf("issue creating incident [%s] for [%s]: %w", attrs.IncidentID, attrs.IPAddress, result.Error)
	}

	return &incident, nil
}

// FindActive returns the incident currently blocking the given IP, or nil
// when none is active at the given instant.
func (i Incidents) FindActive(ip string, now time.Time) (*database.BlockIncident, error) {
	incident := database.BlockIncident{}

	result := i.sql().
		Where("ip_address = ?", ip).
		Where("resolved = ?", false).
		Where("blocked_until > ?", now).
		Order("blocked_until DESC").
		First(&incident)

	if gorm.IsNotFound(result.Error) {
		return nil, nil
	}

	if gorm.HasDbIssues(result.Error) {
		return nil, fmt.Errorf("issue finding active incident for [%s]: %w", ip, result.Error)
	}

	return &incident, nil
}

// FindByIncidentID returns the incident carrying the given public identifier,
// or nil when it does not exist. Identifiers are globally unique, so at most
// one row can match.
func (i Incidents) FindByIncidentID(incidentID string) (*database.BlockIncident, error) {
	incident := database.BlockIncident{}

	result := i.sql().
		Where("incident_id = ?", incidentID).
		First(&incident)

	if gorm.IsNotFound(result.Error) {
		return nil, nil
	}

	if gorm.HasDbIssues(result.Error) {
		return nil, fmt.Errorf("issue finding incident [%s]: %w", incidentID, result.Error)
	}

	return &incident, nil
}

// MarkResolved closes an incident with a single conditional update. The
// `resolved = false` predicate makes concurrent resolvers race-safe: exactly
// one update wins and the loser observes zero affected rows.
func (i Incidents) MarkResolved(attrs database.ResolveIncidentAttrs) (int64, error) {
	result := i.sql().
		Model(&database.BlockIncident{}).
		Where("incident_id = ?", attrs.IncidentID).
		Where("resolved = ?", false).
		Updates(map[string]any{
			"resolved":    true,
			"resolved_at": attrs.ResolvedAt,
			"resolved_by": attrs.ResolvedBy,
			"admin_notes": attrs.AdminNotes,
		})

	if gorm.HasDbIssues(result.Error) {
		return 0, fmt.Errorf("issue resolving incident [%s]: %w", attrs.IncidentID, result.Error)
	}

	return result.RowsAffected, nil
}

// ListRecent returns the newest incidents, regardless of state.
func (i Incidents) ListRecent(limit int) ([]database.BlockIncident, error) {
	var incidents []database.BlockIncident

	result := i.sql().
		Order("created_at DESC").
		Limit(limit).
		Find(&incidents)

	if gorm.HasDbIssues(result.Error) {
		return nil, fmt.Errorf("issue listing recent incidents: %w", result.Error)
	}

	return incidents, nil
}

// GetAll pages through incidents for the admin dashboard, newest first.
func (i Incidents) GetAll(filters *queries.IncidentFilters, paginate pagination.Paginate) (*pagination.Pagination[database.BlockIncident], error) {
	var numItems int64
	var incidents []database.BlockIncident

	query := i.sql().
		Model(&database.BlockIncident{}).
		Order("block_incidents.created_at DESC")

	queries.ApplyIncidentFilters(filters, query)

	if err := pagination.Count[*int64](&numItems, query, i.DB.GetSession(), "block_incidents.id"); err != nil {
		return nil, fmt.Errorf("issue counting incidents: %w", err)
	}

	offset := (paginate.Page - 1) * paginate.Limit

	err := query.
		Limit(paginate.Limit).
		Offset(offset).
		Find(&incidents).Error

	if err != nil {
		return nil, fmt.Errorf("issue paging incidents: %w", err)
	}

	paginate.SetNumItems(numItems)
	result := pagination.MakePagination[database.BlockIncident](incidents, paginate)

	return result, nil
}
