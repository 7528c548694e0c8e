package mailer

import (
	"fmt"
	"time"
)

// Mailer delivers operational mail, today only verification codes.
type Mailer interface {
	Send(to, subject, body string) error
}

// ComposeOTP renders the verification mail for a login code. The viewer
// audience is bilingual, so the body carries both languages.
func ComposeOTP(code string, ttl time.Duration) (string, string) {
	minutes := int(ttl.Minutes())

	subject := "認証コード / Verification code"

	body := fmt.Sprintf(
		"認証コード: %s\n有効期限: %d分\n\nYour verification code: %s\nIt expires in %d minutes.\n",
		code, minutes, code, minutes,
	)

	return subject, body
}
