package database

import (
	"slices"
	"time"
)

const DriverName = "postgres"

// Failure types accepted by the auth failures ledger.
const (
	FailureBadPassphrase = "bad_passphrase"
	FailureBadOTP        = "bad_otp"
	FailureExpiredOTP    = "expired_otp"
	FailureOther         = "other"
)

func FailureTypes() []string {
	return []string{
		FailureBadPassphrase,
		FailureBadOTP,
		FailureExpiredOTP,
		FailureOther,
	}
}

// Tenant owns a set of gated documents behind a shared passphrase.
type Tenant struct {
	ID             uint64    `gorm:"primaryKey"`
	UUID           string    `gorm:"type:uuid;not null;uniqueIndex"`
	Slug           string    `gorm:"size:255;not null;uniqueIndex"`
	Name           string    `gorm:"size:255;not null"`
	PassphraseHash string    `gorm:"size:255;not null"`
	OTPRequired    bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`

	Documents []Document `gorm:"foreignKey:TenantID"`
}

// Document is a gated PDF. It is visible to viewers only inside its
// publication window; nil bounds leave the window open on that side.
type Document struct {
	ID           uint64     `gorm:"primaryKey"`
	UUID         string     `gorm:"type:uuid;not null;uniqueIndex"`
	TenantID     uint64     `gorm:"not null;index;uniqueIndex:idx_documents_tenant_slug,priority:1"`
	Slug         string     `gorm:"size:255;not null;uniqueIndex:idx_documents_tenant_slug,priority:2"`
	Title        string     `gorm:"size:255;not null"`
	FilePath     string     `gorm:"size:1024;not null"`
	PublishStart *time.Time `gorm:"index"`
	PublishEnd   *time.Time `gorm:"index"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`

	Tenant Tenant `gorm:"foreignKey:TenantID"`
}

// IsPublishedAt reports whether the document sits inside its publication
// window at the given instant.
func (d Document) IsPublishedAt(now time.Time) bool {
	if d.PublishStart != nil && now.Before(*d.PublishStart) {
		return false
	}

	if d.PublishEnd != nil && !now.Before(*d.PublishEnd) {
		return false
	}

	return true
}

// AuthFailure is an append-only ledger row recording one failed
// authentication attempt.
type AuthFailure struct {
	ID             uint64    `gorm:"primaryKey"`
	IPAddress      string    `gorm:"size:45;not null;index:idx_auth_failures_window,priority:1"`
	FailureType    string    `gorm:"size:32;not null"`
	AttemptedEmail *string   `gorm:"size:255"`
	TenantID       *uint64   `gorm:"index"`
	AttemptedAt    time.Time `gorm:"not null;index:idx_auth_failures_window,priority:2"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// BlockIncident records one lockout decision. A row is active while it is
// unresolved and its blocked_until lies in the future; expiry is derived at
// read time and never mutates the row.
type BlockIncident struct {
	ID           uint64     `gorm:"primaryKey"`
	IncidentID   string     `gorm:"size:25;not null;uniqueIndex"`
	IPAddress    string     `gorm:"size:45;not null;index:idx_block_incidents_active,priority:1"`
	BlockReason  string     `gorm:"size:255;not null"`
	BlockedUntil time.Time  `gorm:"not null;index:idx_block_incidents_active,priority:3"`
	Resolved     bool       `gorm:"not null;default:false;index:idx_block_incidents_active,priority:2"`
	ResolvedAt   *time.Time `gorm:""`
	ResolvedBy   *string    `gorm:"size:255"`
	AdminNotes   string     `gorm:"type:text"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

// IsActiveAt reports whether the incident still blocks its IP at the given
// instant.
func (b BlockIncident) IsActiveAt(now time.Time) bool {
	return !b.Resolved && now.Before(b.BlockedUntil)
}

// Setting is one key of the versioned runtime configuration store.
type Setting struct {
	ID        uint64    `gorm:"primaryKey"`
	Key       string    `gorm:"size:128;not null;uniqueIndex"`
	Value     string    `gorm:"size:1024;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// SettingChange is the immutable history trail behind Setting.
type SettingChange struct {
	ID        uint64    `gorm:"primaryKey"`
	Key       string    `gorm:"size:128;not null;index"`
	OldValue  *string   `gorm:"size:1024"`
	NewValue  string    `gorm:"size:1024;not null"`
	ChangedBy string    `gorm:"size:255;not null"`
	ChangedAt time.Time `gorm:"not null;index"`
}

func GetSchemaModels() []any {
	return []any{
		&Tenant{},
		&Document{},
		&AuthFailure{},
		&BlockIncident{},
		&Setting{},
		&SettingChange{},
	}
}

func GetSchemaTables() []string {
	return []string{
		"tenants",
		"documents",
		"auth_failures",
		"block_incidents",
		"settings",
		"setting_changes",
	}
}

func isValidTable(name string) bool {
	return slices.Contains(GetSchemaTables(), name)
}
