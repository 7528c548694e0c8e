package guard

import "errors"

var (
	// ErrInvalidIP rejects failure reports whose source address does not
	// parse as an IPv4 or IPv6 address.
	ErrInvalidIP = errors.New("invalid ip address")

	// ErrInvalidFailureType rejects failure reports outside the accepted
	// ledger vocabulary.
	ErrInvalidFailureType = errors.New("invalid failure type")

	// ErrInvalidIncidentID rejects malformed public incident identifiers
	// before they reach storage.
	ErrInvalidIncidentID = errors.New("invalid incident id format")

	// ErrIncidentNotFound reports a well-formed identifier with no row
	// behind it.
	ErrIncidentNotFound = errors.New("incident not found")

	// ErrAlreadyResolved reports a resolve attempt on an incident another
	// administrator closed first.
	ErrAlreadyResolved = errors.New("incident already resolved")

	// ErrIncidentIDExhausted reports repeated identifier collisions; in
	// practice it only surfaces when the clock or the entropy source is
	// broken.
	ErrIncidentIDExhausted = errors.New("incident id attempts exhausted")
)
