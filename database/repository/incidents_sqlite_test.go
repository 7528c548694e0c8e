package repository_test

import (
	"testing"
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository/pagination"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository/queries"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/gorm"
)

func TestIncidentsCreateDetectsDuplicateIDs(t *testing.T) {
	conn, db := newSQLiteConnection(t)

	if err := db.AutoMigrate(&database.BlockIncident{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	repo := repository.Incidents{DB: conn}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	attrs := database.BlockIncidentAttrs{
		IncidentID:   "BLOCK-20260301120000-AB12",
		IPAddress:    "198.51.100.50",
		BlockReason:  "authentication failure threshold exceeded",
		BlockedUntil: now.Add(30 * time.Minute),
		CreatedAt:    now,
	}

	if _, err := repo.Create(attrs); err != nil {
		t.Fatalf("create incident: %v", err)
	}

	attrs.IPAddress = "198.51.100.51"

	_, err := repo.Create(attrs)
	if err == nil {
		t.Fatalf("expected duplicate id error")
	}

	if !gorm.IsDuplicatedKey(err) {
		t.Fatalf("expected duplicated key detection, got %v", err)
	}
}

func TestIncidentsFindActiveSkipsResolvedAndExpired(t *testing.T) {
	conn, db := newSQLiteConnection(t)

	if err := db.AutoMigrate(&database.BlockIncident{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	repo := repository.Incidents{DB: conn}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seedIncident(t, conn, "BLOCK-20260301100000-EX01", "198.51.100.60", now.Add(-time.Minute), false) // expired
	seedIncident(t, conn, "BLOCK-20260301110000-RS01", "198.51.100.60", now.Add(time.Hour), true)     // resolved
	active := seedIncident(t, conn, "BLOCK-20260301115500-AC01", "198.51.100.60", now.Add(25*time.Minute), false)

	found, err := repo.FindActive("198.51.100.60", now)
	if err != nil {
		t.Fatalf("find active: %v", err)
	}

	if found == nil || found.IncidentID != active.IncidentID {
		t.Fatalf("expected the unexpired unresolved incident")
	}

	none, err := repo.FindActive("198.51.100.61", now)
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil for ip without incidents")
	}

	later := now.Add(26 * time.Minute)

	gone, err := repo.FindActive("198.51.100.60", later)
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if gone != nil {
		t.Fatalf("expected incident to lapse once blocked_until passes")
	}
}

func TestIncidentsFindByIncidentID(t *testing.T) {
	conn, db := newSQLiteConnection(t)

	if err := db.AutoMigrate(&database.BlockIncident{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	repo := repository.Incidents{DB: conn}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seeded := seedIncident(t, conn, "BLOCK-20260301120000-FB01", "198.51.100.70", now.Add(30*time.Minute), false)

	found, err := repo.FindByIncidentID(seeded.IncidentID)
	if err != nil {
		t.Fatalf("find by incident id: %v", err)
	}
	if found == nil || found.ID != seeded.ID {
		t.Fatalf("expected to find seeded incident")
	}

	missing, err := repo.FindByIncidentID("BLOCK-20260301120000-ZZ99")
	if err != nil {
		t.Fatalf("find by incident id: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown incident id")
	}
}

func TestIncidentsMarkResolvedWinsExactlyOnce(t *testing.T) {
	conn, db := newSQLiteConnection(t)

	if err := db.AutoMigrate(&database.BlockIncident{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	repo := repository.Incidents{DB: conn}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seeded := seedIncident(t, conn, "BLOCK-20260301120000-RS02", "198.51.100.80", now.Add(30*time.Minute), false)

	attrs := database.ResolveIncidentAttrs{
		IncidentID: seeded.IncidentID,
		ResolvedBy: "admin@example.test",
		AdminNotes: "verified with the customer",
		ResolvedAt: now.Add(5 * time.Minute),
	}

	affected, err := repo.MarkResolved(attrs)
	if err != nil {
		t.Fatalf("mark resolved: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected one affected row, got %d", affected)
	}

	again, err := repo.MarkResolved(attrs)
	if err != nil {
		t.Fatalf("mark resolved twice: %v", err)
	}
	if again != 0 {
		t.Fatalf("expected zero affected rows on second resolve, got %d", again)
	}

	stored, err := repo.FindByIncidentID(seeded.IncidentID)
	if err != nil {
		t.Fatalf("reload incident: %v", err)
	}

	if !stored.Resolved {
		t.Fatalf("expected incident to be resolved")
	}
	if stored.ResolvedBy == nil || *stored.ResolvedBy != "admin@example.test" {
		t.Fatalf("resolved_by mismatch")
	}
	if stored.ResolvedAt == nil {
		t.Fatalf("expected resolved_at to be set")
	}
	if stored.AdminNotes != "verified with the customer" {
		t.Fatalf("admin notes mismatch")
	}
}

func TestIncidentsGetAllFiltersAndPages(t *testing.T) {
	conn, db := newSQLiteConnection(t)

	if err := db.AutoMigrate(&database.BlockIncident{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	repo := repository.Incidents{DB: conn}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seedIncident(t, conn, "BLOCK-20260301120000-PG01", "198.51.100.90", now.Add(30*time.Minute), false)
	seedIncident(t, conn, "BLOCK-20260301120100-PG02", "198.51.100.90", now.Add(40*time.Minute), true)
	seedIncident(t, conn, "BLOCK-20260301120200-PG03", "203.0.113.90", now.Add(50*time.Minute), false)

	unresolved := false
	filters := &queries.IncidentFilters{
		IP:       "198.51.100.90",
		Resolved: &unresolved,
	}

	page, err := repo.GetAll(filters, pagination.Paginate{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("get all: %v", err)
	}

	if page.Total != 1 || len(page.Data) != 1 {
		t.Fatalf("expected one filtered incident, got %d", page.Total)
	}
	if page.Data[0].IncidentID != "BLOCK-20260301120000-PG01" {
		t.Fatalf("unexpected incident %s", page.Data[0].IncidentID)
	}

	paged, err := repo.GetAll(nil, pagination.Paginate{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("get all paged: %v", err)
	}

	if paged.Total != 3 || len(paged.Data) != 2 {
		t.Fatalf("expected 3 total over 2 per page, got %d/%d", paged.Total, len(paged.Data))
	}
	if paged.NextPage == nil || *paged.NextPage != 2 {
		t.Fatalf("expected next page 2")
	}
	if paged.Data[0].IncidentID != "BLOCK-20260301120200-PG03" {
		t.Fatalf("expected newest incident first, got %s", paged.Data[0].IncidentID)
	}
}
