package guard

import (
	"strconv"
	"sync"
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository"
)

// Defaults applied when no runtime override is stored.
const (
	DefaultThreshold = 5
	DefaultWindow    = 10 * time.Minute
	DefaultLockout   = 30 * time.Minute
)

// Setting keys recognised by SettingsPolicy.
const (
	SettingThreshold      = "rate_limit_threshold"
	SettingWindowMinutes  = "rate_limit_window_minutes"
	SettingLockoutMinutes = "rate_limit_lockout_minutes"
)

// Policy holds the failure budget applied to one source IP: how many
// ledgered failures inside the sliding window open an incident, and how
// long the resulting block lasts.
type Policy struct {
	Threshold int
	Window    time.Duration
	Lockout   time.Duration
}

type PolicyProvider interface {
	Current() Policy
}

func DefaultPolicy() Policy {
	return Policy{
		Threshold: DefaultThreshold,
		Window:    DefaultWindow,
		Lockout:   DefaultLockout,
	}
}

// StaticPolicy serves a fixed policy. Useful for tests and for
// deployments that do not use the settings store.
type StaticPolicy struct {
	Policy Policy
}

func (s StaticPolicy) Current() Policy {
	return s.Policy
}

// SettingsPolicy layers operator overrides from the settings store on top
// of a fallback policy. Reads are cached for TTL so the hot path does not
// hit storage on every failure.
type SettingsPolicy struct {
	settings repository.Settings
	fallback Policy
	ttl      time.Duration

	mu      sync.Mutex
	cached  Policy
	expires time.Time
	now     func() time.Time
}

func MakeSettingsPolicy(settings repository.Settings, fallback Policy, ttl time.Duration) *SettingsPolicy {
	return &SettingsPolicy{
		settings: settings,
		fallback: fallback,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *SettingsPolicy) Current() Policy {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if now.Before(s.expires) {
		return s.cached
	}

	s.cached = s.load()
	s.expires = now.Add(s.ttl)

	return s.cached
}

// load reads the override keys best-effort: unset or unparsable values
// fall back field by field.
func (s *SettingsPolicy) load() Policy {
	policy := s.fallback

	if threshold, ok := s.readInt(SettingThreshold); ok && threshold > 0 {
		policy.Threshold = threshold
	}

	if minutes, ok := s.readInt(SettingWindowMinutes); ok && minutes > 0 {
		policy.Window = time.Duration(minutes) * time.Minute
	}

	if minutes, ok := s.readInt(SettingLockoutMinutes); ok && minutes > 0 {
		policy.Lockout = time.Duration(minutes) * time.Minute
	}

	return policy
}

func (s *SettingsPolicy) readInt(key string) (int, bool) {
	setting := s.settings.Get(key)
	if setting == nil {
		return 0, false
	}

	value, err := strconv.Atoi(setting.Value)
	if err != nil {
		return 0, false
	}

	return value, true
}
