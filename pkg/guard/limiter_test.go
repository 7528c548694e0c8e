package guard

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository"
)

func TestRecordFailureRejectsBadInput(t *testing.T) {
	conn := newTestConnection(t)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := makeTestLimiter(conn, DefaultPolicy(), start)

	_, err := limiter.RecordFailure(FailureAttrs{IP: "not-an-ip", FailureType: database.FailureBadPassphrase})
	if !errors.Is(err, ErrInvalidIP) {
		t.Fatalf("expected invalid ip error, got %v", err)
	}

	_, err = limiter.RecordFailure(FailureAttrs{IP: "203.0.113.7", FailureType: "tantrum"})
	if !errors.Is(err, ErrInvalidFailureType) {
		t.Fatalf("expected invalid failure type error, got %v", err)
	}

	var count int64
	if err := conn.Sql().Model(&database.AuthFailure{}).Count(&count).Error; err != nil {
		t.Fatalf("count failures: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected input must not reach the ledger, found %d rows", count)
	}
}

func TestThresholdOpensIncident(t *testing.T) {
	conn := newTestConnection(t)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := makeTestLimiter(conn, DefaultPolicy(), start)

	ip := "203.0.113.40"

	for i := 0; i < DefaultThreshold-1; i++ {
		outcome, err := limiter.RecordFailure(FailureAttrs{IP: ip, FailureType: database.FailureBadPassphrase})
		if err != nil {
			t.Fatalf("record failure %d: %v", i+1, err)
		}

		if outcome.Blocked() {
			t.Fatalf("expected no incident after %d failures", i+1)
		}
		if outcome.WindowCount != int64(i+1) {
			t.Fatalf("expected window count %d, got %d", i+1, outcome.WindowCount)
		}
	}

	outcome, err := limiter.RecordFailure(FailureAttrs{IP: ip, FailureType: database.FailureBadPassphrase})
	if err != nil {
		t.Fatalf("record threshold failure: %v", err)
	}

	if !outcome.Blocked() || !outcome.Created {
		t.Fatalf("expected the threshold failure to open an incident")
	}

	incident := outcome.Incident

	if !IsValidIncidentID(incident.IncidentID) {
		t.Fatalf("unexpected incident id %q", incident.IncidentID)
	}
	if incident.BlockReason != BlockReasonThreshold {
		t.Fatalf("unexpected block reason %q", incident.BlockReason)
	}
	if !incident.BlockedUntil.Equal(start.Add(DefaultLockout)) {
		t.Fatalf("expected lockout until %v, got %v", start.Add(DefaultLockout), incident.BlockedUntil)
	}
}

func TestSlidingWindowForgetsOldFailures(t *testing.T) {
	conn := newTestConnection(t)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := makeTestLimiter(conn, DefaultPolicy(), start)

	ip := "203.0.113.41"

	for i := 0; i < DefaultThreshold-1; i++ {
		if _, err := limiter.RecordFailure(FailureAttrs{IP: ip, FailureType: database.FailureBadPassphrase}); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}

	// the earlier burst has aged out of the window
	later := start.Add(DefaultWindow + time.Minute)
	limiter.now = func() time.Time { return later }

	outcome, err := limiter.RecordFailure(FailureAttrs{IP: ip, FailureType: database.FailureBadPassphrase})
	if err != nil {
		t.Fatalf("record failure: %v", err)
	}

	if outcome.Blocked() {
		t.Fatalf("expected aged failures to be forgotten")
	}
	if outcome.WindowCount != 1 {
		t.Fatalf("expected window count 1, got %d", outcome.WindowCount)
	}
}

func TestActiveIncidentAbsorbsFurtherFailures(t *testing.T) {
	conn := newTestConnection(t)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := makeTestLimiter(conn, DefaultPolicy(), start)

	ip := "203.0.113.42"

	var opened *database.BlockIncident
	for i := 0; i < DefaultThreshold; i++ {
		outcome, err := limiter.RecordFailure(FailureAttrs{IP: ip, FailureType: database.FailureBadPassphrase})
		if err != nil {
			t.Fatalf("record failure: %v", err)
		}
		opened = outcome.Incident
	}

	if opened == nil {
		t.Fatalf("expected an incident after the threshold")
	}

	// further failures while blocked are ledgered but change nothing
	later := start.Add(5 * time.Minute)
	limiter.now = func() time.Time { return later }

	outcome, err := limiter.RecordFailure(FailureAttrs{IP: ip, FailureType: database.FailureBadOTP})
	if err != nil {
		t.Fatalf("record failure during block: %v", err)
	}

	if outcome.Created {
		t.Fatalf("expected no new incident during an active block")
	}
	if outcome.Incident == nil || outcome.Incident.IncidentID != opened.IncidentID {
		t.Fatalf("expected the running incident to absorb the failure")
	}
	if !outcome.Incident.BlockedUntil.Equal(opened.BlockedUntil) {
		t.Fatalf("blocked_until must not be extended")
	}

	var failures int64
	if err := conn.Sql().Model(&database.AuthFailure{}).Where("ip_address = ?", ip).Count(&failures).Error; err != nil {
		t.Fatalf("count failures: %v", err)
	}
	if failures != int64(DefaultThreshold+1) {
		t.Fatalf("expected the extra failure in the ledger, got %d rows", failures)
	}

	var incidents int64
	if err := conn.Sql().Model(&database.BlockIncident{}).Where("ip_address = ?", ip).Count(&incidents).Error; err != nil {
		t.Fatalf("count incidents: %v", err)
	}
	if incidents != 1 {
		t.Fatalf("expected a single incident, got %d", incidents)
	}
}

func TestConcurrentThresholdOpensSingleIncident(t *testing.T) {
	conn := newTestConnection(t)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := makeTestLimiter(conn, DefaultPolicy(), start)

	ip := "203.0.113.43"

	for i := 0; i < DefaultThreshold-1; i++ {
		if _, err := limiter.RecordFailure(FailureAttrs{IP: ip, FailureType: database.FailureBadPassphrase}); err != nil {
			t.Fatalf("seed failure: %v", err)
		}
	}

	const workers = 8

	var wg sync.WaitGroup
	outcomes := make(chan *Outcome, workers)
	failures := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			outcome, err := limiter.RecordFailure(FailureAttrs{IP: ip, FailureType: database.FailureBadPassphrase})
			if err != nil {
				failures <- err

				return
			}

			outcomes <- outcome
		}()
	}

	wg.Wait()
	close(outcomes)
	close(failures)

	for err := range failures {
		t.Fatalf("concurrent record failure: %v", err)
	}

	var created int
	for outcome := range outcomes {
		if !outcome.Blocked() {
			t.Fatalf("every concurrent failure should end up blocked")
		}
		if outcome.Created {
			created++
		}
	}

	if created != 1 {
		t.Fatalf("expected exactly one creation, got %d", created)
	}

	var incidents int64
	if err := conn.Sql().Model(&database.BlockIncident{}).Where("ip_address = ?", ip).Count(&incidents).Error; err != nil {
		t.Fatalf("count incidents: %v", err)
	}
	if incidents != 1 {
		t.Fatalf("expected a single incident row, got %d", incidents)
	}
}

func TestIsBlockedExpiresLazily(t *testing.T) {
	conn := newTestConnection(t)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := makeTestLimiter(conn, DefaultPolicy(), start)

	ip := "203.0.113.44"

	var incidentID string
	for i := 0; i < DefaultThreshold; i++ {
		outcome, err := limiter.RecordFailure(FailureAttrs{IP: ip, FailureType: database.FailureBadPassphrase})
		if err != nil {
			t.Fatalf("record failure: %v", err)
		}
		if outcome.Incident != nil {
			incidentID = outcome.Incident.IncidentID
		}
	}

	blocked, err := limiter.IsBlocked(ip)
	if err != nil {
		t.Fatalf("is blocked: %v", err)
	}
	if blocked == nil {
		t.Fatalf("expected the ip to be blocked")
	}

	// past the lockout the block lapses without anyone touching the row
	afterLockout := start.Add(DefaultLockout + time.Second)
	limiter.now = func() time.Time { return afterLockout }

	clear, err := limiter.IsBlocked(ip)
	if err != nil {
		t.Fatalf("is blocked after lockout: %v", err)
	}
	if clear != nil {
		t.Fatalf("expected the block to lapse after blocked_until")
	}

	stored, err := repository.Incidents{DB: conn}.FindByIncidentID(incidentID)
	if err != nil {
		t.Fatalf("reload incident: %v", err)
	}
	if stored == nil || stored.Resolved {
		t.Fatalf("expiry must not mutate the incident row")
	}
}

func TestIsBlockedRejectsBadIP(t *testing.T) {
	conn := newTestConnection(t)

	limiter := makeTestLimiter(conn, DefaultPolicy(), time.Now().UTC())

	if _, err := limiter.IsBlocked("localhost"); !errors.Is(err, ErrInvalidIP) {
		t.Fatalf("expected invalid ip error, got %v", err)
	}
}

func TestIncidentIDCollisionRetriesThenExhausts(t *testing.T) {
	conn := newTestConnection(t)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := makeTestLimiter(conn, DefaultPolicy(), start)

	taken := "BLOCK-20260301115900-TAKN"

	seed := database.BlockIncident{
		IncidentID:   taken,
		IPAddress:    "203.0.113.45",
		BlockReason:  BlockReasonThreshold,
		BlockedUntil: start.Add(30 * time.Minute),
		Resolved:     true,
		CreatedAt:    start.Add(-time.Hour),
	}
	if err := conn.Sql().Create(&seed).Error; err != nil {
		t.Fatalf("seed incident: %v", err)
	}

	// a generator stuck on a taken id must give up after bounded retries
	limiter.newID = func(time.Time) (string, error) {
		return taken, nil
	}

	ip := "203.0.113.46"

	var lastErr error
	for i := 0; i < DefaultThreshold; i++ {
		_, lastErr = limiter.RecordFailure(FailureAttrs{IP: ip, FailureType: database.FailureBadPassphrase})
	}

	if !errors.Is(lastErr, ErrIncidentIDExhausted) {
		t.Fatalf("expected id exhaustion, got %v", lastErr)
	}

	// once the generator recovers, a single collision is retried away
	calls := 0
	limiter.newID = func(at time.Time) (string, error) {
		calls++
		if calls == 1 {
			return taken, nil
		}

		return fmt.Sprintf("BLOCK-%s-RT%02d", at.UTC().Format("20060102150405"), calls), nil
	}

	outcome, err := limiter.RecordFailure(FailureAttrs{IP: ip, FailureType: database.FailureBadPassphrase})
	if err != nil {
		t.Fatalf("record failure with retry: %v", err)
	}

	if !outcome.Created {
		t.Fatalf("expected the collision to be retried into a fresh incident")
	}
	if outcome.Incident.IncidentID == taken {
		t.Fatalf("expected a regenerated id")
	}
	if calls != 2 {
		t.Fatalf("expected exactly one retry, got %d generator calls", calls)
	}
}
