package middleware

import (
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/env"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/endpoint"
)

// Pipeline carries the guards the router chains in front of handlers.
type Pipeline struct {
	Env      *env.Environment
	Admin    AdminSessionMiddleware
	Viewer   ViewerSessionMiddleware
	AuthGate AuthGateMiddleware
}

func (m Pipeline) Chain(h endpoint.ApiHandler, handlers ...endpoint.Middleware) endpoint.ApiHandler {
	for i := len(handlers) - 1; i >= 0; i-- {
		h = handlers[i](h)
	}

	return h
}
