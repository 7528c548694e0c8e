package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	baseGorm "gorm.io/gorm"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/gorm"
)

type Tenants struct {
	DB *database.Connection
	tx *baseGorm.DB
}

func (t Tenants) WithTx(tx *baseGorm.DB) Tenants {
	t.tx = tx

	return t
}

func (t Tenants) sql() *baseGorm.DB {
	if t.tx != nil {
		return t.tx
	}

	return t.DB.Sql()
}

// Create registers a tenant. The passphrase is hashed before it ever
// touches the repository, so attrs carry the bcrypt hash only.
func (t Tenants) Create(attrs database.TenantAttrs) (*database.Tenant, error) {
	hash := strings.TrimSpace(attrs.PassphraseHash)
	if hash == "" {
		return nil, fmt.Errorf("invalid passphrase hash for tenant [%s]: hash cannot be empty", attrs.Slug)
	}

	tenant := database.Tenant{
		UUID:           uuid.NewString(),
		Slug:           strings.ToLower(strings.TrimSpace(attrs.Slug)),
		Name:           attrs.Name,
		PassphraseHash: hash,
		OTPRequired:    attrs.OTPRequired,
	}

	if result := t.sql().Create(&tenant); gorm.HasDbIssues(result.Error) {
		return nil, fmt.Errorf("issue creating tenant [%s]: %w", attrs.Slug, result.Error)
	}

	return &tenant, nil
}

// FindBySlug resolves a tenant by its URL slug, case-insensitively.
func (t Tenants) FindBySlug(slug string) *database.Tenant {
	tenant := database.Tenant{}

	result := t.sql().
		Where("LOWER(slug) = ?", strings.ToLower(strings.TrimSpace(slug))).
		First(&tenant)

	if gorm.IsFoundButHasErrors(result.Error) || gorm.IsNotFound(result.Error) {
		return nil
	}

	return &tenant
}

// FindByUUID resolves a tenant by its public identifier.
func (t Tenants) FindByUUID(id string) *database.Tenant {
	tenant := database.Tenant{}

	result := t.sql().
		Where("uuid = ?", strings.TrimSpace(id)).
		First(&tenant)

	if gorm.IsFoundButHasErrors(result.Error) || gorm.IsNotFound(result.Error) {
		return nil
	}

	return &tenant
}
