package repository_test

import (
	"testing"
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository"
)

func TestSettingsGetReturnsNilWhenUnset(t *testing.T) {
	conn, db := newSQLiteConnection(t)

	if err := db.AutoMigrate(&database.Setting{}, &database.SettingChange{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	repo := repository.Settings{DB: conn}

	if repo.Get("rate_limit_threshold") != nil {
		t.Fatalf("expected nil for unset key")
	}
}

func TestSettingsUpsertRecordsHistory(t *testing.T) {
	conn, db := newSQLiteConnection(t)

	if err := db.AutoMigrate(&database.Setting{}, &database.SettingChange{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	repo := repository.Settings{DB: conn}

	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	created, err := repo.Upsert(database.SettingAttrs{
		Key:       "rate_limit_threshold",
		Value:     "5",
		ChangedBy: "admin@example.test",
	}, first)
	if err != nil {
		t.Fatalf("upsert setting: %v", err)
	}

	if created.Value != "5" {
		t.Fatalf("expected stored value, got %q", created.Value)
	}

	updated, err := repo.Upsert(database.SettingAttrs{
		Key:       "rate_limit_threshold",
		Value:     "8",
		ChangedBy: "admin@example.test",
	}, first.Add(time.Minute))
	if err != nil {
		t.Fatalf("upsert setting again: %v", err)
	}

	if updated.Value != "8" {
		t.Fatalf("expected updated value, got %q", updated.Value)
	}

	stored := repo.Get("rate_limit_threshold")
	if stored == nil || stored.Value != "8" {
		t.Fatalf("expected latest value to persist")
	}

	history, err := repo.History("rate_limit_threshold", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	if len(history) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(history))
	}

	if history[0].OldValue == nil || *history[0].OldValue != "5" {
		t.Fatalf("expected newest change to carry old value 5")
	}
	if history[0].NewValue != "8" {
		t.Fatalf("expected newest change to carry new value 8")
	}
	if history[1].OldValue != nil {
		t.Fatalf("expected first change to have nil old value")
	}
}

func TestSettingsHistoryIsolatesKeys(t *testing.T) {
	conn, db := newSQLiteConnection(t)

	if err := db.AutoMigrate(&database.Setting{}, &database.SettingChange{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	repo := repository.Settings{DB: conn}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, err := repo.Upsert(database.SettingAttrs{Key: "lockout_minutes", Value: "30", ChangedBy: "ops"}, now); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := repo.Upsert(database.SettingAttrs{Key: "window_minutes", Value: "10", ChangedBy: "ops"}, now); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	history, err := repo.History("lockout_minutes", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	if len(history) != 1 || history[0].NewValue != "30" {
		t.Fatalf("expected isolated history per key")
	}
}
