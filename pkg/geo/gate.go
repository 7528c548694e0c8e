package geo

import (
	"context"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/env"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/cache"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

const defaultDecisionTTL = time.Hour

// Gate screens authentication traffic by origin country. Decisions are
// cached per IP, and lookups fail open: when the resolver cannot answer,
// the request passes. Loopback, private and link-local addresses always
// pass, so internal traffic never depends on the lookup service.
type Gate struct {
	resolver Resolver
	cache    *cache.TTLCache
	denied   map[string]struct{}
	enabled  bool
	ttl      time.Duration
}

func MakeGate(environment *env.GeoEnvironment, resolver Resolver) *Gate {
	denied := make(map[string]struct{})

	for _, code := range portal.SplitList(environment.DeniedCountries) {
		denied[code] = struct{}{}
	}

	ttl := time.Duration(environment.CacheTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = defaultDecisionTTL
	}

	return &Gate{
		resolver: resolver,
		cache:    cache.NewTTLCache(),
		denied:   denied,
		enabled:  environment.Enabled,
		ttl:      ttl,
	}
}

// Allow reports whether the given IP may reach the authentication surface.
func (g *Gate) Allow(ctx context.Context, ip string) bool {
	if !g.enabled || len(g.denied) == 0 {
		return true
	}

	ip = strings.TrimSpace(ip)

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return true
	}

	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast() {
		return true
	}

	if g.cache.Used(deniedKey(ip)) {
		return false
	}

	if g.cache.Used(allowedKey(ip)) {
		return true
	}

	country, err := g.resolver.Country(ctx, ip)
	if err != nil {
		slog.Warn("country lookup failed, letting request through", "ip", ip, "err", err)

		return true
	}

	if _, blocked := g.denied[country]; blocked {
		g.cache.Mark(deniedKey(ip), g.ttl)

		return false
	}

	g.cache.Mark(allowedKey(ip), g.ttl)

	return true
}

func deniedKey(ip string) string {
	return "geo:denied:" + ip
}

func allowedKey(ip string) string {
	return "geo:allowed:" + ip
}
