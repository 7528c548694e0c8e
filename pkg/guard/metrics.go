package guard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	failuresRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guard_auth_failures_total",
		Help: "Failed authentication attempts recorded in the ledger, by failure type.",
	}, []string{"type"})

	incidentsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guard_incidents_opened_total",
		Help: "Block incidents opened after an IP exceeded the failure threshold.",
	})

	incidentsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guard_incidents_resolved_total",
		Help: "Block incidents resolved by an administrator.",
	})

	blockedRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guard_blocked_requests_total",
		Help: "Requests rejected because their source IP was under an active block.",
	})
)

// CountBlockedRequest records one request turned away at the gate.
func CountBlockedRequest() {
	blockedRequests.Inc()
}
