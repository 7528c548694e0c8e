package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	baseGorm "gorm.io/gorm"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/env"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/guard"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/session"
)

func newHandlerDB(t *testing.T, models ...interface{}) *database.Connection {
	t.Helper()

	db, err := baseGorm.Open(sqlite.Open("file::memory:?cache=shared"), &baseGorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}

	sqlDB.SetMaxOpenConns(1)

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("migrate schema: %v", err)
		}
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database.NewConnectionFromGorm(db)
}

func newHandlerSessions(t *testing.T) *session.Manager {
	t.Helper()

	environment := &env.SessionEnvironment{
		Secret: strings.Repeat("s", 64),
	}

	return session.MakeManager(environment, false)
}

func newHandlerLimiter(t *testing.T, conn *database.Connection) *guard.Limiter {
	t.Helper()

	return guard.MakeLimiter(
		repository.AuthFailures{DB: conn},
		repository.Incidents{DB: conn},
		guard.StaticPolicy{Policy: guard.DefaultPolicy()},
	)
}

func seedHandlerTenant(t *testing.T, conn *database.Connection, slug, passphrase string, otpRequired bool) database.Tenant {
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
		OTPRequired:    otpRequired,
	}

	if err := conn.Sql().Create(&tenant).Error; err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	return tenant
}

func seedHandlerDocument(t *testing.T, conn *database.Connection, tenant database.Tenant, slug string, start, end *time.Time) database.Document {
	t.Helper()

	document := database.Document{
		UUID:         uuid.NewString(),
		TenantID:     tenant.ID,
		Slug:         slug,
		Title:        slug + " title",
		FilePath:     "vault/" + tenant.Slug + "/" + slug + ".pdf",
		PublishStart: start,
		PublishEnd:   end,
	}

	if err := conn.Sql().Create(&document).Error; err != nil {
		t.Fatalf("create document: %v", err)
	}

	return document
}

// replayCookies copies the cookies a previous response set onto the next
// request, the way a browser would between the auth steps.
func replayCookies(t *testing.T, from *httptest.ResponseRecorder, to *http.Request) {
	t.Helper()

	response := http.Response{Header: from.Header()}

	for _, cookie := range response.Cookies() {
		if cookie.MaxAge < 0 {
			continue
		}

		to.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}
}

type stubMailer struct {
	to      string
	subject string
	body    string
	fail    bool
}

func (m *stubMailer) Send(to, subject, body string) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}

	m.to, m.subject, m.body = to, subject, body

	return nil
}
