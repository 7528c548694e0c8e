package repository_test

import (
	"testing"
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/gorm"
)

func TestIncidentsUniqueIndexPostgres(t *testing.T) {
	conn := newPostgresConnection(t, &database.BlockIncident{})

	repo := repository.Incidents{DB: conn}

	now := time.Now().UTC()
	attrs := database.BlockIncidentAttrs{
		IncidentID:   "BLOCK-20260301120000-PQ01",
		IPAddress:    "198.51.100.100",
		BlockReason:  "authentication failure threshold exceeded",
		BlockedUntil: now.Add(30 * time.Minute),
		CreatedAt:    now,
	}

	if _, err := repo.Create(attrs); err != nil {
		t.Fatalf("create incident: %v", err)
	}

	_, err := repo.Create(attrs)
	if err == nil {
		t.Fatalf("expected unique violation")
	}

	if !gorm.IsDuplicatedKey(err) {
		t.Fatalf("expected duplicated key detection, got %v", err)
	}
}

func TestIncidentsResolveRacePostgres(t *testing.T) {
	conn := newPostgresConnection(t, &database.BlockIncident{})

	repo := repository.Incidents{DB: conn}

	now := time.Now().UTC()

	if _, err := repo.Create(database.BlockIncidentAttrs{
		IncidentID:   "BLOCK-20260301120000-PQ02",
		IPAddress:    "198.51.100.101",
		BlockReason:  "authentication failure threshold exceeded",
		BlockedUntil: now.Add(30 * time.Minute),
		CreatedAt:    now,
	}); err != nil {
		t.Fatalf("create incident: %v", err)
	}

	attrs := database.ResolveIncidentAttrs{
		IncidentID: "BLOCK-20260301120000-PQ02",
		ResolvedBy: "admin@example.test",
		AdminNotes: "first responder",
		ResolvedAt: now,
	}

	type outcome struct {
		affected int64
		err      error
	}

	results := make(chan outcome, 2)

	for i := 0; i < 2; i++ {
		go func() {
			affected, err := repo.MarkResolved(attrs)
			results <- outcome{affected: affected, err: err}
		}()
	}

	var winners int64
	for i := 0; i < 2; i++ {
		r := <-results
		if r.err != nil {
			t.Fatalf("mark resolved: %v", r.err)
		}
		winners += r.affected
	}

	if winners != 1 {
		t.Fatalf("expected exactly one winning resolve, got %d", winners)
	}
}
