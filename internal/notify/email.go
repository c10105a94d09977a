package notify

import (
	"fmt"
	"net/smtp"

	"github.com/nerdgeek/tienda/pkg/logger"
	"go.uber.org/zap"
)

// EmailSender delivers a plain-text email.
type EmailSender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends mail over plain SMTP with optional auth.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPSender(host, port, username, password, from string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		s.from, to, subject, body,
	)

	// No host configured: log the mail instead of sending (development mode)
	if s.host == "" {
		logger.Log.Info("Mock email (no SMTP host configured)",
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return nil
	}

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	return smtp.SendMail(addr, auth, s.from, []string{to}, []byte(message))
}
