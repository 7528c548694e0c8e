package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/env"
)

// SMTP sends through a plain-auth SMTP relay.
type SMTP struct {
	env *env.SMTPEnvironment
}

func MakeSMTP(environment *env.SMTPEnvironment) *SMTP {
	return &SMTP{env: environment}
}

func (m *SMTP) Send(to, subject, body string) error {
	auth := smtp.PlainAuth("", m.env.Username, m.env.Password, m.env.Host)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=\"UTF-8\"\r\n"+
			"\r\n"+
			"%s",
		m.env.From, to, subject, body,
	))

	if err := smtp.SendMail(m.env.GetAddr(), auth, m.env.From, []string{to}, msg); err != nil {
		return fmt.Errorf("could not send mail via [%s]: %w", m.env.GetAddr(), err)
	}

	return nil
}
