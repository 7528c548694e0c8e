package guard

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"time"
)

// Public incident identifiers look like BLOCK-20260301120000-7G4K: a UTC
// second timestamp plus a random suffix. The timestamp keeps identifiers
// sortable and human-datable; the suffix disambiguates incidents opened
// within the same second.
const (
	incidentIDPrefix     = "BLOCK-"
	incidentIDTimeLayout = "20060102150405"
	incidentIDAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	incidentIDSuffixLen  = 4

	// maxIncidentIDAttempts bounds identifier regeneration on unique
	// index collisions.
	maxIncidentIDAttempts = 5
)

var incidentIDPattern = regexp.MustCompile(`^BLOCK-\d{14}-[A-Z0-9]{4}$`)

// NewIncidentID draws a fresh identifier for an incident opened at the
// given instant.
func NewIncidentID(now time.Time) (string, error) {
	random := make([]byte, incidentIDSuffixLen)

	if _, err := rand.Read(random); err != nil {
		return "", fmt.Errorf("could not draw incident id entropy: %w", err)
	}

	suffix := make([]byte, incidentIDSuffixLen)
	for i, b := range random {
		suffix[i] = incidentIDAlphabet[int(b)%len(incidentIDAlphabet)]
	}

	return incidentIDPrefix + now.UTC().Format(incidentIDTimeLayout) + "-" + string(suffix), nil
}

// IsValidIncidentID reports whether id matches the public identifier
// format exactly. Anything else is rejected before it can reach storage.
func IsValidIncidentID(id string) bool {
	return incidentIDPattern.MatchString(id)
}
