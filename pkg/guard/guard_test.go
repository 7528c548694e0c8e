package guard

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	baseGorm "gorm.io/gorm"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository"
)

func newTestConnection(t *testing.T) *database.Connection {
	t.Helper()

	db, err := baseGorm.Open(sqlite.Open("file::memory:?cache=shared"), &baseGorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}

	// one connection keeps sqlite happy under goroutine pressure
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}

	if err := db.AutoMigrate(
		&database.AuthFailure{},
		&database.BlockIncident{},
		&database.Setting{},
		&database.SettingChange{},
	); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database.NewConnectionFromGorm(db)
}

func makeTestLimiter(conn *database.Connection, policy Policy, at time.Time) *Limiter {
	limiter := MakeLimiter(
		repository.AuthFailures{DB: conn},
		repository.Incidents{DB: conn},
		StaticPolicy{Policy: policy},
	)

	limiter.now = func() time.Time { return at }

	return limiter
}

func makeTestSearch(conn *database.Connection, at time.Time) *Search {
	search := MakeSearch(repository.Incidents{DB: conn})
	search.now = func() time.Time { return at }

	return search
}
