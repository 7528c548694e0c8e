package seeds

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/gorm"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

type DocumentsSeed struct {
	db *database.Connection
}

func MakeDocumentsSeed(db *database.Connection) *DocumentsSeed {
	return &DocumentsSeed{
		db: db,
	}
}

// Create seeds one document per publication state for the tenant: one
// currently visible, one fully open, one not yet published and one whose
// window has already closed.
func (s DocumentsSeed) Create(tenant database.Tenant) ([]database.Document, error) {
	now := time.Now().UTC()

	yesterday := now.Add(-24 * time.Hour)
	nextWeek := now.Add(7 * 24 * time.Hour)
	nextMonth := now.Add(30 * 24 * time.Hour)
	lastHour := now.Add(-time.Hour)

	seedRows := []struct {
		Slug  string
		Title string
		Start *time.Time
		End   *time.Time
	}{
		{"annual-report", "Annual Report", &yesterday, &nextMonth},
		{"welcome-pack", "Welcome Pack", nil, nil},
		{"board-deck", "Board Deck", &nextWeek, nil},
		{"archived-terms", "Archived Terms", nil, &lastHour},
	}

	var documents []database.Document

	for _, row := range seedRows {
		slug := portal.NewStringable(row.Slug).ToLower()

		documents = append(documents, database.Document{
			UUID:         uuid.NewString(),
			TenantID:     tenant.ID,
			Slug:         slug,
			Title:        row.Title,
			FilePath:     fmt.Sprintf("pdfs/%s/%s.pdf", tenant.Slug, slug),
			PublishStart: row.Start,
			PublishEnd:   row.End,
		})
	}

	result := s.db.Sql().Create(&documents)

	if gorm.HasDbIssues(result.Error) {
		return nil, fmt.Errorf("error seeding documents: %s", result.Error)
	}

	return documents, nil
}
