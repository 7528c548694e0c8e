package mailer

import (
	"log/slog"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

// Log is the local-development driver: it logs instead of sending, so
// verification codes can be read straight from the console.
type Log struct{}

func MakeLog() Log {
	return Log{}
}

func (Log) Send(to, subject, body string) error {
	slog.Info("mail not sent (log driver)",
		"to", portal.MaskEmail(to),
		"subject", subject,
		"body", body,
	)

	return nil
}
