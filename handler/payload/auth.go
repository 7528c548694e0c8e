package payload

// PassphraseRequest is the first authentication step: the shared tenant
// passphrase plus the email the one-time code should reach.
type PassphraseRequest struct {
	Tenant     string `json:"tenant" validate:"required"`
	Passphrase string `json:"passphrase" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
}

// OTPRequest carries the emailed code back for the second step.
type OTPRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}

// ChallengeResponse acknowledges the passphrase step. Email comes back
// masked; ExpiresIn tells the client how long the code stays valid.
type ChallengeResponse struct {
	Message   string `json:"message"`
	Email     string `json:"email"`
	ExpiresIn int    `json:"expires_in"`
}

type SessionResponse struct {
	Message string `json:"message"`
}

type AdminLoginRequest struct {
	Account  string `json:"account" validate:"required"`
	Password string `json:"password" validate:"required"`
}
