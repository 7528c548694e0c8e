package otp

import (
	"context"
	"fmt"
	"time"
)

// Verifier applies the challenge lifecycle rules: bounded attempts, hard
// expiry, and single use on success.
type Verifier struct {
	store ChallengeStore

	now func() time.Time
}

func MakeVerifier(store ChallengeStore) *Verifier {
	return &Verifier{
		store: store,
		now:   time.Now,
	}
}

// Verify checks the submitted code against the pending challenge. A
// correct code consumes the challenge; a wrong one burns an attempt. The
// sentinel errors let callers map outcomes onto ledger failure types.
func (v *Verifier) Verify(ctx context.Context, key, code string) (*Challenge, error) {
	challenge, err := v.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if challenge == nil {
		return nil, ErrChallengeNotFound
	}

	now := v.now()

	if challenge.Expired(now) {
		_ = v.store.Delete(ctx, key)

		return nil, ErrCodeExpired
	}

	if challenge.Exhausted() {
		_ = v.store.Delete(ctx, key)

		return nil, ErrTooManyAttempts
	}

	if HashCode(code) != challenge.CodeHash {
		challenge.Attempts++

		remaining := challenge.ExpiresAt.Sub(now)
		if err := v.store.Save(ctx, key, *challenge, remaining); err != nil {
			return nil, fmt.Errorf("could not burn otp attempt: %w", err)
		}

		if challenge.Exhausted() {
			_ = v.store.Delete(ctx, key)

			return nil, ErrTooManyAttempts
		}

		return nil, ErrCodeMismatch
	}

	if err := v.store.Delete(ctx, key); err != nil {
		return nil, fmt.Errorf("could not consume otp challenge: %w", err)
	}

	return challenge, nil
}
