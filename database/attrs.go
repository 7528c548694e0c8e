package database

import (
	"time"
)

type TenantAttrs struct {
	Slug           string
	Name           string
	PassphraseHash string
	OTPRequired    bool
}

type DocumentAttrs struct {
	TenantID     uint64
	Slug         string
	Title        string
	FilePath     string
	PublishStart *time.Time
	PublishEnd   *time.Time
}

type AuthFailureAttrs struct {
	IPAddress      string
	FailureType    string
	AttemptedEmail *string
	TenantID       *uint64
	AttemptedAt    time.Time
}

type BlockIncidentAttrs struct {
	IncidentID   string
	IPAddress    string
	BlockReason  string
	BlockedUntil time.Time
	CreatedAt    time.Time
}

type ResolveIncidentAttrs struct {
	IncidentID string
	ResolvedBy string
	AdminNotes string
	ResolvedAt time.Time
}

type SettingAttrs struct {
	Key       string
	Value     string
	ChangedBy string
}
