package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/env"
)

// Cookie names for the three session kinds the app issues.
const (
	PendingSession = "pdfv_pending"
	ViewerSession  = "pdfv_viewer"
	AdminSession   = "pdfv_admin"
)

// Value keys inside the session payloads.
const (
	keyChallengeID = "challenge_id"
	keyTenantUUID  = "tenant_uuid"
	keyEmail       = "email"
	keyAccount     = "account"
)

// Lifetimes per session kind. The pending window matches the otp TTL
// with headroom for typing; viewer and admin sessions outlive it.
const (
	PendingTTL = 10 * time.Minute
	ViewerTTL  = 12 * time.Hour
	AdminTTL   = 8 * time.Hour
)

// Manager wraps one cookie store for the pending, viewer and admin
// sessions. All cookies are http-only and same-site strict; Secure is
// driven by the environment so local http development keeps working.
type Manager struct {
	store *sessions.CookieStore
}

func MakeManager(environment *env.SessionEnvironment, secure bool) *Manager {
	store := sessions.NewCookieStore([]byte(environment.Secret))

	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   environment.CookieDomain,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}

	return &Manager{store: store}
}

// StartPending remembers the otp challenge between the passphrase step
// and the code step.
func (m *Manager) StartPending(w http.ResponseWriter, r *http.Request, challengeID, tenantUUID string) error {
	session, _ := m.store.Get(r, PendingSession)

	session.Options.MaxAge = int(PendingTTL.Seconds())
	session.Values[keyChallengeID] = challengeID
	session.Values[keyTenantUUID] = tenantUUID

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("could not save pending session: %w", err)
	}

	return nil
}

// Pending returns the challenge reference, if a pending session exists.
func (m *Manager) Pending(r *http.Request) (challengeID, tenantUUID string, ok bool) {
	session, err := m.store.Get(r, PendingSession)
	if err != nil {
		return "", "", false
	}

	challengeID, tenantUUID = readString(session, keyChallengeID), readString(session, keyTenantUUID)

	return challengeID, tenantUUID, challengeID != "" && tenantUUID != ""
}

func (m *Manager) ClearPending(w http.ResponseWriter, r *http.Request) error {
	return m.clear(w, r, PendingSession)
}

// StartViewer opens the authenticated viewer session after a verified
// code. It also drops the pending session cookie.
func (m *Manager) StartViewer(w http.ResponseWriter, r *http.Request, email, tenantUUID string) error {
	if err := m.ClearPending(w, r); err != nil {
		return err
	}

	session, _ := m.store.Get(r, ViewerSession)

	session.Options.MaxAge = int(ViewerTTL.Seconds())
	session.Values[keyEmail] = email
	session.Values[keyTenantUUID] = tenantUUID

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("could not save viewer session: %w", err)
	}

	return nil
}

// Viewer returns the authenticated viewer identity, if any.
func (m *Manager) Viewer(r *http.Request) (email, tenantUUID string, ok bool) {
	session, err := m.store.Get(r, ViewerSession)
	if err != nil {
		return "", "", false
	}

	email, tenantUUID = readString(session, keyEmail), readString(session, keyTenantUUID)

	return email, tenantUUID, email != "" && tenantUUID != ""
}

func (m *Manager) ClearViewer(w http.ResponseWriter, r *http.Request) error {
	return m.clear(w, r, ViewerSession)
}

// StartAdmin opens the console session for a logged-in administrator.
func (m *Manager) StartAdmin(w http.ResponseWriter, r *http.Request, account string) error {
	session, _ := m.store.Get(r, AdminSession)

	session.Options.MaxAge = int(AdminTTL.Seconds())
	session.Values[keyAccount] = account

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("could not save admin session: %w", err)
	}

	return nil
}

// Admin returns the logged-in administrator account, if any.
func (m *Manager) Admin(r *http.Request) (account string, ok bool) {
	session, err := m.store.Get(r, AdminSession)
	if err != nil {
		return "", false
	}

	account = readString(session, keyAccount)

	return account, account != ""
}

func (m *Manager) ClearAdmin(w http.ResponseWriter, r *http.Request) error {
	return m.clear(w, r, AdminSession)
}

func (m *Manager) clear(w http.ResponseWriter, r *http.Request, name string) error {
	session, _ := m.store.Get(r, name)

	session.Options.MaxAge = -1
	session.Values = make(map[any]any)

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("could not clear session [%s]: %w", name, err)
	}

	return nil
}

func readString(session *sessions.Session, key string) string {
	if value, ok := session.Values[key].(string); ok {
		return value
	}

	return ""
}
