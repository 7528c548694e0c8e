package geo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/env"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

const defaultLookupTimeout = 3 * time.Second

// Resolver reports the ISO country code an IP is served from.
type Resolver interface {
	Country(ctx context.Context, ip string) (string, error)
}

type lookupResponse struct {
	CountryCode string `json:"country_code"`
	Country     string `json:"country"`
}

// HTTPResolver asks an external lookup service for the country behind an IP.
// The configured URL carries an {ip} placeholder.
type HTTPResolver struct {
	client    *portal.Client
	lookupURL string
	timeout   time.Duration
}

func MakeHTTPResolver(environment *env.GeoEnvironment, client *portal.Client) HTTPResolver {
	timeout := time.Duration(environment.LookupTimeoutSec) * time.Second

	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}

	return HTTPResolver{
		client:    client,
		lookupURL: strings.TrimSpace(environment.LookupURL),
		timeout:   timeout,
	}
}

func (r HTTPResolver) Country(ctx context.Context, ip string) (string, error) {
	if r.lookupURL == "" {
		return "", fmt.Errorf("no lookup url configured")
	}

	endpoint := strings.ReplaceAll(r.lookupURL, "{ip}", url.QueryEscape(ip))

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var payload lookupResponse
	if err := r.client.GetJSON(ctx, endpoint, &payload); err != nil {
		return "", fmt.Errorf("country lookup for [%s] failed: %w", ip, err)
	}

	country := payload.CountryCode
	if country == "" {
		country = payload.Country
	}

	country = strings.ToUpper(strings.TrimSpace(country))
	if country == "" {
		return "", fmt.Errorf("country lookup for [%s] returned no country", ip)
	}

	return country, nil
}
