package otp

import "errors"

var (
	// ErrChallengeNotFound reports a verification attempt with no pending
	// challenge behind it, typically a stale or tampered cookie.
	ErrChallengeNotFound = errors.New("otp challenge not found")

	// ErrCodeMismatch reports a wrong code; the challenge survives until
	// its attempt budget runs out.
	ErrCodeMismatch = errors.New("otp code mismatch")

	// ErrCodeExpired reports a correct-or-not code arriving after the
	// challenge lapsed.
	ErrCodeExpired = errors.New("otp code expired")

	// ErrTooManyAttempts reports a challenge burned by repeated wrong
	// codes.
	ErrTooManyAttempts = errors.New("otp attempts exhausted")
)
