package repository

import (
	"fmt"
	"time"

	baseGorm "gorm.io/gorm"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/gorm"
)

// AuthFailures is the append-only ledger of failed authentication attempts.
type AuthFailures struct {
	DB *database.Connection
	tx *baseGorm.DB
}

// WithTx returns a copy of the repository whose queries run on the given
// transaction handle.
func (a AuthFailures) WithTx(tx *baseGorm.DB) AuthFailures {
	a.tx = tx

	return a
}

func (a AuthFailures) sql() *baseGorm.DB {
	if a.tx != nil {
		return a.tx
	}

	return a.DB.Sql()
}

func (a AuthFailures) Record(attrs database.AuthFailureAttrs) (*database.AuthFailure, error) {
	failure := database.AuthFailure{
		IPAddress:      attrs.IPAddress,
		FailureType:    attrs.FailureType,
		AttemptedEmail: attrs.AttemptedEmail,
		TenantID:       attrs.TenantID,
		AttemptedAt:    attrs.AttemptedAt,
	}

	if result := a.sql().Create(&failure); gorm.HasDbIssues(result.Error) {
		return nil, fmt.Errorf("issue recording auth failure for [%s]: %w", attrs.IPAddress, result.Error)
	}

	return &failure, nil
}

// CountForIPSince counts ledger rows for one IP inside the half-open window
// (since, until].
func (a AuthFailures) CountForIPSince(ip string, since, until time.Time) (int64, error) {
	var count int64

	result := a.sql().
		Model(&database.AuthFailure{}).
		Where("ip_address = ?", ip).
		Where("attempted_at > ?", since).
		Where("attempted_at <= ?", until).
		Count(&count)

	if gorm.HasDbIssues(result.Error) {
		return 0, fmt.Errorf("issue counting auth failures for [%s]: %w", ip, result.Error)
	}

	return count, nil
}

// LatestForIP returns the most recent ledger rows for one IP, newest first.
func (a AuthFailures) LatestForIP(ip string, limit int) ([]database.AuthFailure, error) {
	var failures []database.AuthFailure

	result := a.sql().
		Where("ip_address = ?", ip).
		Order("attempted_at DESC").
		Limit(limit).
		Find(&failures)

	if gorm.HasDbIssues(result.Error) {
		return nil, fmt.Errorf("issue listing auth failures for [%s]: %w", ip, result.Error)
	}

	return failures, nil
}

// ListRecent returns the newest ledger rows across all IPs.
func (a AuthFailures) ListRecent(limit int) ([]database.AuthFailure, error) {
	var failures []database.AuthFailure

	result := a.sql().
		Order("attempted_at DESC").
		Limit(limit).
		Find(&failures)

	if gorm.HasDbIssues(result.Error) {
		return nil, fmt.Errorf("issue listing recent auth failures: %w", result.Error)
	}

	return failures, nil
}
