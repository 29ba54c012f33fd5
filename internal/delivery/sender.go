package delivery

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/kiranapos/backend/pkg/config"
	pkgerrors "github.com/kiranapos/backend/pkg/errors"
)

// Message is one outbound notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages to customers. Implementations are best-effort;
// callers treat failures as warnings, never as transaction errors.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail over authenticated SMTP.
type SMTPSender struct {
	cfg config.SMTPConfig
}

// NewSMTPSender builds a sender from SMTP config.
func NewSMTPSender(cfg config.SMTPConfig) (*SMTPSender, error) {
	if !cfg.Enabled() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "smtp host and from address are required")
	}
	return &SMTPSender{cfg: cfg}, nil
}

// Send delivers one message. The context deadline is not propagated into the
// SMTP dial; delivery runs post-commit where a slow send only delays the
// warning, never the sale.
func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient is required")
	}

	headers := []string{
		"From: " + s.cfg.From,
		"To: " + msg.To,
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
	}
	payload := []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + msg.Body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{msg.To}, payload); err != nil {
		return fmt.Errorf("sending mail via %s: %w", addr, err)
	}
	return nil
}

// NoopSender is used when SMTP is not configured; every send reports an
// informative warning upstream.
type NoopSender struct{}

func (NoopSender) Send(context.Context, Message) error {
	return pkgerrors.New(pkgerrors.CodeDependency, "email delivery is not configured")
}
