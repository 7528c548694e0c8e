package repository_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
)

func newSQLiteConnection(t *testing.T) (*database.Connection, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database.NewConnectionFromGorm(db), db
}

func seedTenant(t *testing.T, conn *database.Connection, slug, passphrase string) database.Tenant {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash passphrase: %v", err)
	}

	tenant := database.Tenant{
		UUID:           uuid.NewString(),
		Slug:           slug,
		Name:           slug + " Inc",
		PassphraseHash: string(hash),
		OTPRequired:    true,
	}

	if err := conn.Sql().Create(&tenant).Error; err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	return tenant
}

func seedDocument(t *testing.T, conn *database.Connection, tenant database.Tenant, slug string, start, end *time.Time) database.Document {
	t.Helper()

	document := database.Document{
		UUID:         uuid.NewString(),
		TenantID:     tenant.ID,
		Slug:         slug,
		Title:        slug + " title",
		FilePath:     "docs/" + slug + ".pdf",
		PublishStart: start,
		PublishEnd:   end,
	}

	if err := conn.Sql().Create(&document).Error; err != nil {
		t.Fatalf("create document: %v", err)
	}

	return document
}

func seedFailure(t *testing.T, conn *database.Connection, ip, failureType string, attemptedAt time.Time) database.AuthFailure {
	t.Helper()

	failure := database.AuthFailure{
		IPAddress:   ip,
		FailureType: failureType,
		AttemptedAt: attemptedAt,
	}

	if err := conn.Sql().Create(&failure).Error; err != nil {
		t.Fatalf("create auth failure: %v", err)
	}

	return failure
}

func seedIncident(t *testing.T, conn *database.Connection, incidentID, ip string, blockedUntil time.Time, resolved bool) database.BlockIncident {
	t.Helper()

	incident := database.BlockIncident{
		IncidentID:   incidentID,
		IPAddress:    ip,
		BlockReason:  "authentication failure threshold exceeded",
		BlockedUntil: blockedUntil,
		Resolved:     resolved,
		CreatedAt:    time.Now().UTC(),
	}

	if err := conn.Sql().Create(&incident).Error; err != nil {
		t.Fatalf("create incident: %v", err)
	}

	return incident
}
