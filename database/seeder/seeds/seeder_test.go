package seeds

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/env"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

func setupSeeder(t *testing.T) (*Seeder, *database.Connection, *gorm.DB) {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})

	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()

	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := db.AutoMigrate(database.GetSchemaModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	conn := database.NewConnectionFromGorm(db)
	e := &env.Environment{App: env.AppEnvironment{Type: "local"}}

	return MakeSeeder(conn, e), conn, db
}

func TestSeederWorkflow(t *testing.T) {
	seeder, conn, db := setupSeeder(t)

	demo, acme := seeder.SeedTenants()

	if demo.Slug != "demo" || acme.Slug != "acme" {
		t.Fatalf("unexpected tenant slugs: %s, %s", demo.Slug, acme.Slug)
	}

	if !demo.OTPRequired || acme.OTPRequired {
		t.Fatalf("wrong otp requirements")
	}

	if !portal.MakePasswordFromHash(demo.PassphraseHash).Is("rosebud-motel-1962") {
		t.Fatalf("demo passphrase hash does not verify")
	}

	documents := seeder.SeedDocuments(demo, acme)

	if len(documents) != 8 {
		t.Fatalf("expected 8 documents, got %d", len(documents))
	}

	if err := seeder.SeedSettings(); err != nil {
		t.Fatalf("settings err: %v", err)
	}

	var count int64
	db.Model(&database.Setting{}).Count(&count)

	if count != 3 {
		t.Fatalf("expected 3 settings, got %d", count)
	}

	repo := repository.Documents{DB: conn}
	published, err := repo.ListPublished(demo.ID, time.Now().UTC())

	if err != nil {
		t.Fatalf("list published: %v", err)
	}

	if len(published) != 2 {
		t.Fatalf("expected 2 visible documents, got %d", len(published))
	}
}

func TestSeedDocumentsWindows(t *testing.T) {
	seeder, _, _ := setupSeeder(t)

	demo, _ := seeder.SeedTenants()
	documents := seeder.SeedDocuments(demo)

	now := time.Now().UTC()
	visible := map[string]bool{}

	for _, document := range documents {
		visible[document.Slug] = document.IsPublishedAt(now)
	}

	if !visible["annual-report"] || !visible["welcome-pack"] {
		t.Fatalf("open-window documents should be visible: %v", visible)
	}

	if visible["board-deck"] || visible["archived-terms"] {
		t.Fatalf("closed-window documents should be hidden: %v", visible)
	}
}
