package handler

import (
	"log/slog"
	baseHttp "net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/repository"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/handler/payload"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/endpoint"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/guard"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/limiter"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/mailer"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/middleware/mwguards"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/otp"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/session"
)

const invalidCredentialsMessage = "invalid tenant or passphrase"

// AuthHandler drives the two-step viewer authentication: shared tenant
// passphrase first, emailed one-time code second. Every rejected credential
// lands in the failure ledger; the block middleware in front of these
// routes stops IPs that crossed the threshold.
type AuthHandler struct {
	Tenants    repository.Tenants
	Limiter    *guard.Limiter
	Challenges otp.ChallengeStore
	Verifier   *otp.Verifier
	Mailer     mailer.Mailer
	Sessions   *session.Manager
	Burst      *limiter.MemoryLimiter
	Validator  *portal.Validator

	now func() time.Time
}

func MakeAuthHandler(
	tenants repository.Tenants,
	guardLimiter *guard.Limiter,
	challenges otp.ChallengeStore,
	verifier *otp.Verifier,
	postman mailer.Mailer,
	sessions *session.Manager,
	burst *limiter.MemoryLimiter,
	validator *portal.Validator,
) AuthHandler {
	return AuthHandler{
		Tenants:    tenants,
		Limiter:    guardLimiter,
		Challenges: challenges,
		Verifier:   verifier,
		Mailer:     postman,
		Sessions:   sessions,
		Burst:      burst,
		Validator:  validator,
		now:        time.Now,
	}
}

// Passphrase checks the shared tenant passphrase and, when it matches,
// mails a one-time code and opens the pending session for the code step.
func (h *AuthHandler) Passphrase(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	request, closer, err := endpoint.ParseRequestBody[payload.PassphraseRequest](r)
	defer closer()

	if err != nil {
		slog.Error("failed to parse passphrase request", "err", err)

		return endpoint.BadRequestError("invalid request body")
	}

	if rejected, _ := h.Validator.Rejects(request); rejected {
		return endpoint.UnprocessableEntity("invalid passphrase request", asValidationData(h.Validator.GetErrors()))
	}

	ip := portal.ParseClientIP(r)
	email := strings.ToLower(strings.TrimSpace(request.Email))

	tenant := h.Tenants.FindBySlug(request.Tenant)
	if tenant == nil {
		return h.rejectCredentials(ip, email, nil)
	}

	if bcrypt.CompareHashAndPassword([]byte(tenant.PassphraseHash), []byte(request.Passphrase)) != nil {
		return h.rejectCredentials(ip, email, &tenant.ID)
	}

	if !tenant.OTPRequired {
		if err := h.Sessions.StartViewer(w, r, email, tenant.UUID); err != nil {
			return endpoint.LogInternalError("could not open viewer session", err)
		}

		return respondNoCache(w, r, payload.SessionResponse{Message: "authenticated"})
	}

	challengeID := uuid.NewString()

	code, challenge, err := otp.MakeChallenge(email, tenant.ID, otp.DefaultTTL, h.now())
	if err != nil {
		return endpoint.LogInternalError("could not create verification challenge", err)
	}

	if err := h.Challenges.Save(r.Context(), challengeID, challenge, otp.DefaultTTL); err != nil {
		return endpoint.LogInternalError("could not store verification challenge", err)
	}

	subject, body := mailer.ComposeOTP(code, otp.DefaultTTL)
	if err := h.Mailer.Send(email, subject, body); err != nil {
		return endpoint.LogInternalError("could not send verification mail", err)
	}

	if err := h.Sessions.StartPending(w, r, challengeID, tenant.UUID); err != nil {
		return endpoint.LogInternalError("could not open pending session", err)
	}

	data := payload.ChallengeResponse{
		Message:   "verification code sent",
		Email:     portal.MaskEmail(email),
		ExpiresIn: int(otp.DefaultTTL.Seconds()),
	}

	return respondNoCache(w, r, data)
}

// OTP closes the second step: a valid code upgrades the pending session to
// a viewer session.
func (h *AuthHandler) OTP(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	challengeID, tenantUUID, ok := h.Sessions.Pending(r)
	if !ok {
		return &endpoint.ApiError{Message: "authentication flow expired, start over", Status: baseHttp.StatusUnauthorized}
	}

	request, closer, err := endpoint.ParseRequestBody[payload.OTPRequest](r)
	defer closer()

	if err != nil {
		slog.Error("failed to parse otp request", "err", err)

		return endpoint.BadRequestError("invalid request body")
	}

	if rejected, _ := h.Validator.Rejects(request); rejected {
		return endpoint.UnprocessableEntity("invalid verification code", asValidationData(h.Validator.GetErrors()))
	}

	ip := portal.ParseClientIP(r)

	challenge, err := h.Verifier.Verify(r.Context(), challengeID, request.Code)
	if err != nil {
		return h.rejectCode(ip, err, tenantUUID)
	}

	if err := h.Sessions.StartViewer(w, r, challenge.Email, tenantUUID); err != nil {
		return endpoint.LogInternalError("could not open viewer session", err)
	}

	return respondNoCache(w, r, payload.SessionResponse{Message: "authenticated"})
}

// Logout drops the viewer session.
func (h *AuthHandler) Logout(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	if err := h.Sessions.ClearViewer(w, r); err != nil {
		return endpoint.LogInternalError("could not clear viewer session", err)
	}

	return respondNoCache(w, r, payload.SessionResponse{Message: "signed out"})
}

// rejectCredentials ledgers the failed attempt and answers with the same
// body for unknown tenants and wrong passphrases, so the surface does not
// confirm which tenants exist.
func (h *AuthHandler) rejectCredentials(ip, email string, tenantID *uint64) *endpoint.ApiError {
	outcome := h.recordFailure(ip, database.FailureBadPassphrase, email, tenantID)

	if outcome != nil && outcome.Blocked() {
		return mwguards.BlockedError(ip, outcome.Incident.BlockedUntil)
	}

	return &endpoint.ApiError{Message: invalidCredentialsMessage, Status: baseHttp.StatusUnauthorized}
}

func (h *AuthHandler) rejectCode(ip string, verifyErr error, tenantUUID string) *endpoint.ApiError {
	var failureType, message string

	switch verifyErr {
	case otp.ErrCodeMismatch:
		failureType = database.FailureBadOTP
		message = "invalid verification code"
	case otp.ErrTooManyAttempts:
		failureType = database.FailureBadOTP
		message = "too many wrong codes, start over"
	case otp.ErrCodeExpired:
		failureType = database.FailureExpiredOTP
		message = "verification code expired, start over"
	case otp.ErrChallengeNotFound:
		failureType = database.FailureOther
		message = "authentication flow expired, start over"
	default:
		return endpoint.LogInternalError("could not verify code", verifyErr)
	}

	var tenantID *uint64
	if tenant := h.Tenants.FindByUUID(tenantUUID); tenant != nil {
		tenantID = &tenant.ID
	}

	outcome := h.recordFailure(ip, failureType, "", tenantID)

	if outcome != nil && outcome.Blocked() {
		return mwguards.BlockedError(ip, outcome.Incident.BlockedUntil)
	}

	return &endpoint.ApiError{Message: message, Status: baseHttp.StatusUnauthorized}
}

// recordFailure writes the ledger row and feeds the in-memory burst
// limiter. Ledger write errors are logged, never surfaced: the caller is
// already rejecting the attempt.
func (h *AuthHandler) recordFailure(ip, failureType, email string, tenantID *uint64) *guard.Outcome {
	attrs := guard.FailureAttrs{
		IP:          ip,
		FailureType: failureType,
		TenantID:    tenantID,
	}

	if email != "" {
		attrs.Email = &email
	}

	outcome, err := h.Limiter.RecordFailure(attrs)
	if err != nil {
		slog.Error("could not record auth failure", "ip", ip, "type", failureType, "err", err)

		return nil
	}

	if h.Burst != nil {
		h.Burst.Fail(ip)
	}

	return outcome
}

func asValidationData(errors map[string]string) map[string]any {
	data := make(map[string]any, len(errors))

	for field, message := range errors {
		data[field] = message
	}

	return data
}

func respondNoCache(w baseHttp.ResponseWriter, r *baseHttp.Request, data any) *endpoint.ApiError {
	resp := endpoint.MakeNoCacheResponse(w, r)

	if err := resp.RespondOk(data); err != nil {
		return endpoint.LogInternalError("could not encode response", err)
	}

	return nil
}
