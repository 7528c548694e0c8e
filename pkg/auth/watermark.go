package auth

import (
	"fmt"
	"strings"
	"time"
)

const watermarkCodeLength = 8

// Watermark is the per-viewer overlay stamped across every served page. Code
// is an HMAC fingerprint of the session identity, so a leaked screenshot can
// be traced back to the viewer that produced it.
type Watermark struct {
	Email    string
	IP       string
	Tenant   string
	IssuedAt time.Time
	Code     string
}

func MakeWatermark(secret, email, ip, tenant string, at time.Time) Watermark {
	at = at.UTC()

	message := strings.Join([]string{email, ip, tenant, at.Format(time.RFC3339)}, "|")
	code := CreateSignatureFrom(message, secret)

	return Watermark{
		Email:    email,
		IP:       ip,
		Tenant:   tenant,
		IssuedAt: at,
		Code:     strings.ToUpper(code[:watermarkCodeLength]),
	}
}

// Text renders the overlay line embedded in the viewer page.
func (w Watermark) Text() string {
	stamp := w.IssuedAt.Format("2006-01-02 15:04 MST")

	return fmt.Sprintf("%s | %s | %s | %s", w.Email, w.IP, stamp, w.Code)
}
