package otp

import (
	"context"
	"sync"
	"time"
)

// MemoryChallengeStore is the process-local fallback for local
// development and tests. Entries expire lazily on access.
type MemoryChallengeStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	now func() time.Time
}

type memoryEntry struct {
	challenge Challenge
	expires   time.Time
}

func MakeMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryChallengeStore) Save(_ context.Context, key string, challenge Challenge, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{
		challenge: challenge,
		expires:   s.now().Add(ttl),
	}

	return nil
}

func (s *MemoryChallengeStore) Get(_ context.Context, key string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}

	if s.now().After(entry.expires) {
		delete(s.entries, key)

		return nil, nil
	}

	challenge := entry.challenge

	return &challenge, nil
}

func (s *MemoryChallengeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)

	return nil
}
