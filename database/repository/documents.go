package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	baseGorm "gorm.io/gorm"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/gorm"
)

type Documents struct {
	DB *database.Connection
	tx *baseGorm.DB
}

func (d Documents) WithTx(tx *baseGorm.DB) Documents {
	d.tx = tx

	return d
}

func (d Documents) sql() *baseGorm.DB {
	if d.tx != nil {
		return d.tx
	}

	return d.DB.Sql()
}

func (d Documents) Create(attrs database.DocumentAttrs) (*database.Document, error) {
	document := database.Document{
		UUID:         uuid.NewString(),
		TenantID:     attrs.TenantID,
		Slug:         strings.ToLower(strings.TrimSpace(attrs.Slug)),
		Title:        attrs.Title,
		FilePath:     attrs.FilePath,
		PublishStart: attrs.PublishStart,
		PublishEnd:   attrs.PublishEnd,
	}

	if result := d.sql().Create(&document); gorm.HasDbIssues(result.Error) {
		return nil, fmt.Errorf("issue creating document [%s] for tenant [%d]: %w", attrs.Slug, attrs.TenantID, result.Error)
	}

	return &document, nil
}

// FindBySlug fetches a tenant's document regardless of its publication
// window. Callers decide visibility with IsPublishedAt.
func (d Documents) FindBySlug(tenantID uint64, slug string) *database.Document {
	document := database.Document{}

	result := d.sql().
		Where("tenant_id = ?", tenantID).
		Where("LOWER(slug) = ?", strings.ToLower(strings.TrimSpace(slug))).
		First(&document)

	if gorm.IsFoundButHasErrors(result.Error) || gorm.IsNotFound(result.Error) {
		return nil
	}

	return &document
}

// ListPublished returns the tenant's documents whose publication window
// contains the given instant. Open-ended windows (NULL bounds) match.
func (d Documents) ListPublished(tenantID uint64, now time.Time) ([]database.Document, error) {
	var documents []database.Document

	result := d.sql().
		Where("tenant_id = ?", tenantID).
		Where("publish_start IS NULL OR publish_start <= ?", now).
		Where("publish_end IS NULL OR publish_end > ?", now).
		Order("title ASC").
		Find(&documents)

	if gorm.HasDbIssues(result.Error) {
		return nil, fmt.Errorf("issue listing published documents for tenant [%d]: %w", tenantID, result.Error)
	}

	return documents, nil
}
