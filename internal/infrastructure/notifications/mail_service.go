package notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// SMTPConfig holds the outbound mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// MailServiceImpl implements domain.Mailer over plain SMTP. Callers treat
// delivery as best effort; this service reports errors but the reset flow
// swallows them.
type MailServiceImpl struct {
	config SMTPConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	logger *zap.Logger
}

// NewMailService creates a new SMTP mail service
func NewMailService(config SMTPConfig, logger *zap.Logger) *MailServiceImpl {
	return &MailServiceImpl{
		config: config,
		send:   smtp.SendMail,
		logger: logger.Named("mail"),
	}
}

// SendPasswordReset implements domain.Mailer
func (m *MailServiceImpl) SendPasswordReset(ctx context.Context, to, displayName, resetURL string) error {
	greeting := "Hello"
	if displayName != "" {
		greeting = "Hello, " + displayName
	}

	body := strings.Join([]string{
		greeting + "!",
		"",
		"We received a request to reset your AgroVet password.",
		"",
		"To continue, open the link below:",
		resetURL,
		"",
		"If you did not request this change, you can safely ignore this email.",
		"",
		"The AgroVet team",
	}, "\r\n")

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Password recovery - AgroVet\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.config.From, to, body)

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	if err := m.send(addr, auth, m.config.From, []string{to}, []byte(msg)); err != nil {
		m.logger.Error("password reset mail delivery failed",
			zap.String("to", to),
			zap.Error(err))
		return err
	}

	m.logger.Info("password reset mail sent", zap.String("to", to))
	return nil
}
