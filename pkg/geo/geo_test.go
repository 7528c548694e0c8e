package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/env"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

func newLookupServer(t *testing.T, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))

	t.Cleanup(server.Close)

	return server
}

func newHTTPResolver(server *httptest.Server) HTTPResolver {
	environment := env.GeoEnvironment{
		Enabled:          true,
		LookupURL:        server.URL + "/{ip}",
		LookupTimeoutSec: 2,
	}

	return MakeHTTPResolver(&environment, portal.NewDefaultClient(nil))
}

func TestHTTPResolverReadsCountryCode(t *testing.T) {
	server := newLookupServer(t, `{"country_code":"jp"}`)
	resolver := newHTTPResolver(server)

	country, err := resolver.Country(context.Background(), "203.0.113.7")
	if err != nil {
		t.Fatalf("lookup err: %v", err)
	}

	if country != "JP" {
		t.Fatalf("expected JP got %q", country)
	}
}

func TestHTTPResolverFallsBackToCountryField(t *testing.T) {
	server := newLookupServer(t, `{"country":"de"}`)
	resolver := newHTTPResolver(server)

	country, err := resolver.Country(context.Background(), "203.0.113.7")
	if err != nil {
		t.Fatalf("lookup err: %v", err)
	}

	if country != "DE" {
		t.Fatalf("expected DE got %q", country)
	}
}

func TestHTTPResolverRejectsEmptyAnswers(t *testing.T) {
	server := newLookupServer(t, `{}`)
	resolver := newHTTPResolver(server)

	if _, err := resolver.Country(context.Background(), "203.0.113.7"); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestHTTPResolverRequiresLookupURL(t *testing.T) {
	environment := env.GeoEnvironment{Enabled: true}
	resolver := MakeHTTPResolver(&environment, portal.NewDefaultClient(nil))

	if _, err := resolver.Country(context.Background(), "203.0.113.7"); err == nil {
		t.Fatalf("expected error without a lookup url")
	}
}
