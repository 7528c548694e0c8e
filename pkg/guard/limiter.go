package guard

import (
	"fmt"
	"net"
	"slices"
	"strings"
	"time"

	baseGorm "gorm.io/gorm"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/gorm"
)

// BlockReasonThreshold is stamped on incidents the limiter opens itself.
const BlockReasonThreshold = "authentication failure threshold exceeded"

// FailureAttrs describes one failed authentication attempt.
type FailureAttrs struct {
	IP          string
	FailureType string
	Email       *string
	TenantID    *uint64
}

// Outcome reports what recording a failure did: the ledger row, the
// number of failures inside the current window, and the incident now
// covering the IP, if any. Created is true only for the request whose
// failure opened the incident.
type Outcome struct {
	Failure     *database.AuthFailure
	Incident    *database.BlockIncident
	WindowCount int64
	Created     bool
}

// Blocked reports whether the IP is under an active block after this
// failure.
func (o Outcome) Blocked() bool {
	return o.Incident != nil
}

// Limiter is the write side of the lockout machinery. Every failed
// attempt lands in the ledger; once an IP accumulates Policy.Threshold
// failures inside Policy.Window, the limiter opens a block incident for
// Policy.Lockout. Expiry is read-derived: nothing here, or anywhere
// else, sweeps or mutates expired incidents.
type Limiter struct {
	failures  repository.AuthFailures
	incidents repository.Incidents
	policy    PolicyProvider
	locks     *ipLocks

	now   func() time.Time
	newID func(time.Time) (string, error)
}

func MakeLimiter(failures repository.AuthFailures, incidents repository.Incidents, policy PolicyProvider) *Limiter {
	return &Limiter{
		failures:  failures,
		incidents: incidents,
		policy:    policy,
		locks:     newIPLocks(),
		now:       time.Now,
		newID:     NewIncidentID,
	}
}

// RecordFailure appends the attempt to the ledger and opens an incident
// when the IP crosses the policy threshold. Failures arriving while an
// incident is already active are ledgered but never open a duplicate nor
// extend the running block.
func (l *Limiter) RecordFailure(attrs FailureAttrs) (*Outcome, error) {
	ip := strings.TrimSpace(attrs.IP)
	if net.ParseIP(ip) == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIP, attrs.IP)
	}

	if !slices.Contains(database.FailureTypes(), attrs.FailureType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFailureType, attrs.FailureType)
	}

	now := l.now()

	failure, err := l.failures.Record(database.AuthFailureAttrs{
		IPAddress:      ip,
		FailureType:    attrs.FailureType,
		AttemptedEmail: attrs.Email,
		TenantID:       attrs.TenantID,
		AttemptedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	failuresRecorded.WithLabelValues(attrs.FailureType).Inc()

	outcome := &Outcome{Failure: failure}

	active, err := l.incidents.FindActive(ip, now)
	if err != nil {
		return nil, err
	}

	if active != nil {
		outcome.Incident = active

		return outcome, nil
	}

	policy := l.policy.Current()

	count, err := l.failures.CountForIPSince(ip, now.Add(-policy.Window), now)
	if err != nil {
		return nil, err
	}

	outcome.WindowCount = count

	if count < int64(policy.Threshold) {
		return outcome, nil
	}

	incident, created, err := l.openIncident(ip, policy, now)
	if err != nil {
		return nil, err
	}

	outcome.Incident = incident
	outcome.Created = created

	return outcome, nil
}

// IsBlocked returns the incident actively blocking the IP right now, or
// nil when the address is clear.
func (l *Limiter) IsBlocked(ip string) (*database.BlockIncident, error) {
	clean := strings.TrimSpace(ip)
	if net.ParseIP(clean) == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}

	return l.incidents.FindActive(clean, l.now())
}

// openIncident serialises creation per IP and re-checks for an active
// incident inside the transaction, so concurrent threshold hits collapse
// onto a single row. Each identifier collision retries on a fresh
// transaction; postgres aborts the current one after a unique violation.
func (l *Limiter) openIncident(ip string, policy Policy, now time.Time) (*database.BlockIncident, bool, error) {
	unlock := l.locks.lock(ip)
	defer unlock()

	for attempt := 0; attempt < maxIncidentIDAttempts; attempt++ {
		incident, created, err := l.tryOpenIncident(ip, policy, now)

		if err == nil {
			if created {
				incidentsOpened.Inc()
			}

			return incident, created, nil
		}

		if !gorm.IsDuplicatedKey(err) {
			return nil, false, err
		}
	}

	return nil, false, fmt.Errorf("%w for [%s]", ErrIncidentIDExhausted, ip)
}

func (l *Limiter) tryOpenIncident(ip string, policy Policy, now time.Time) (*database.BlockIncident, bool, error) {
	var incident *database.BlockIncident
	var created bool

	err := l.incidents.DB.Transaction(func(tx *baseGorm.DB) error {
		incidents := l.incidents.WithTx(tx)

		active, err := incidents.FindActive(ip, now)
		if err != nil {
			return err
		}

		if active != nil {
			incident = active

			return nil
		}

		id, err := l.newID(now)
		if err != nil {
			return err
		}

		fresh, err := incidents.Create(database.BlockIncidentAttrs{
			IncidentID:   id,
			IPAddress:    ip,
			BlockReason:  BlockReasonThreshold,
			BlockedUntil: now.Add(policy.Lockout),
			CreatedAt:    now,
		})
		if err != nil {
			return err
		}

		incident = fresh
		created = true

		return nil
	})

	if err != nil {
		return nil, false, err
	}

	return incident, created, nil
}
