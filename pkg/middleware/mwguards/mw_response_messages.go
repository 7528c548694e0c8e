package mwguards

import (
	"log/slog"
	baseHttp "net/http"
	"strings"
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/endpoint"
)

func normaliseMessage(message string) string {
	return strings.TrimSpace(message)
}

// SessionRequiredError rejects a request that reached a guarded surface
// without the matching session cookie.
func SessionRequiredError(message, path string) *endpoint.ApiError {
	message = normaliseMessage(message)

	slog.Warn(message, "path", path)

	return &endpoint.ApiError{
		Message: message,
		Status:  baseHttp.StatusUnauthorized,
	}
}

func InvalidRequestError(message, ip string) *endpoint.ApiError {
	message = normaliseMessage(message)

	slog.Warn(message, "ip", ip)

	return &endpoint.ApiError{
		Message: message,
		Status:  baseHttp.StatusBadRequest,
	}
}

func RateLimitedError(ip string) *endpoint.ApiError {
	slog.Warn("request burst rejected", "ip", ip)

	return &endpoint.ApiError{
		Message: "Too many requests",
		Status:  baseHttp.StatusTooManyRequests,
	}
}

// BlockedError is the fixed rejection for IPs sitting behind an active block
// incident. The body never names the incident; blocked_until tells callers
// when to try again.
func BlockedError(ip string, blockedUntil time.Time) *endpoint.ApiError {
	until := blockedUntil.UTC().Format(time.RFC3339)

	slog.Warn("blocked request rejected", "ip", ip, "blocked_until", until)

	return &endpoint.ApiError{
		Message: "Too many failed attempts. Access from this address is temporarily blocked.",
		Status:  baseHttp.StatusTooManyRequests,
		Data:    map[string]any{"blocked_until": until},
	}
}

func GeoDeniedError(ip string) *endpoint.ApiError {
	slog.Warn("request denied by country gate", "ip", ip)

	return &endpoint.ApiError{
		Message: "Access from your region is not available.",
		Status:  baseHttp.StatusForbidden,
	}
}
