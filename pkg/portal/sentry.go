package portal

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/env"
)

type Sentry struct {
	Handler *sentryhttp.Handler
	Options *sentryhttp.Options
	Env     *env.Environment
}

// WrapHandler attaches the Sentry middleware so handlers can pull the request
// hub from the context.
func (s *Sentry) WrapHandler(next http.Handler) http.Handler {
	if s == nil || s.Handler == nil {
		return next
	}

	return s.Handler.Handle(next)
}
