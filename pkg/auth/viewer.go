package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/env"
)

// ViewerGrant names the document a signed link unlocks and the viewer it was
// minted for. FilePath holds the storage path in clear text on the way into
// Issue and comes back decrypted from Open. Watermark is the overlay line
// rendered across the served pages.
type ViewerGrant struct {
	Email     string
	Tenant    string
	Document  string
	FilePath  string
	Watermark string
}

// ViewerTokens mints and opens the short-lived links viewers stream
// documents through. The file path travels inside the token sealed with
// AES-GCM, so a captured link never exposes the storage layout.
type ViewerTokens struct {
	handler JWTHandler
	pathKey []byte
}

// MakeViewerTokens derives the signing handler and the path sealing key from
// the viewer token secret.
func MakeViewerTokens(environment *env.ViewerEnvironment) (ViewerTokens, error) {
	handler, err := MakeJWTHandler([]byte(environment.TokenSecret), environment.TokenTTL())

	if err != nil {
		return ViewerTokens{}, fmt.Errorf("invalid viewer token secret: %w", err)
	}

	key := sha256.Sum256([]byte(environment.TokenSecret))

	return ViewerTokens{
		handler: handler,
		pathKey: key[:],
	}, nil
}

// TTL reports how long issued links stay valid.
func (v ViewerTokens) TTL() time.Duration {
	return v.handler.TTL
}

// Issue signs a link for the given grant, sealing its file path first.
func (v ViewerTokens) Issue(grant ViewerGrant) (string, error) {
	path := strings.TrimSpace(grant.FilePath)

	if path == "" {
		return "", fmt.Errorf("viewer grant for document [%s] has no file path", grant.Document)
	}

	sealed, err := Encrypt([]byte(path), v.pathKey)
	if err != nil {
		return "", fmt.Errorf("could not seal file path for document [%s]: %w", grant.Document, err)
	}

	grant.FilePath = base64.RawURLEncoding.EncodeToString(sealed)

	return v.handler.Generate(grant)
}

// Open validates a link token and returns its claims with the file path
// decrypted back to clear text.
func (v ViewerTokens) Open(token string) (*Claims, error) {
	claims, err := v.handler.Validate(token)

	if err != nil {
		return nil, err
	}

	sealed, err := base64.RawURLEncoding.DecodeString(claims.Path)
	if err != nil {
		return nil, fmt.Errorf("malformed file path in viewer token: %w", err)
	}

	plain, err := Decrypt(sealed, v.pathKey)
	if err != nil {
		return nil, fmt.Errorf("could not unseal file path in viewer token: %w", err)
	}

	claims.Path = string(plain)

	return claims, nil
}
