// Package notify delivers stock alert notifications.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"voltstore/internal/domain/inventory/alerts"
	"voltstore/pkg/logger"
)

// LogSender writes notifications to the log instead of delivering them.
// Used in development and as a fallback when SMTP is not configured.
type LogSender struct{}

var _ alerts.Sender = (*LogSender)(nil)

// SendAlert implements alerts.Sender.
func (s *LogSender) SendAlert(ctx context.Context, recipients []string, subject, body string) error {
	logger.Info(ctx, "alert notification",
		"recipients", strings.Join(recipients, ","),
		"subject", subject,
		"body", body,
	)
	return nil
}

// SMTPConfig holds SMTP delivery configuration.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers notifications over SMTP with PLAIN auth.
type SMTPSender struct {
	config SMTPConfig
}

var _ alerts.Sender = (*SMTPSender)(nil)

// NewSMTPSender creates an SMTP sender.
func NewSMTPSender(config SMTPConfig) *SMTPSender {
	return &SMTPSender{config: config}
}

// SendAlert implements alerts.Sender.
func (s *SMTPSender) SendAlert(ctx context.Context, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return nil
	}

	msg := buildMessage(s.config.From, recipients, subject, body)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	if err := smtp.SendMail(addr, auth, s.config.From, recipients, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	logger.Debug(ctx, "alert email sent", "recipients", len(recipients), "subject", subject)
	return nil
}

func buildMessage(from string, recipients []string, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(recipients, ", ") + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
