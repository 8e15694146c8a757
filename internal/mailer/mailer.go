// Package mailer sends recruitment result notifications to applicants.
package mailer

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

// Notifier delivers a message to a list of recipient addresses.
type Notifier interface {
	Notify(recipients []string, subject, body string) error
}

// SMTPMailer sends mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	Host     string
	Port     string
	From     string
	Password string
}

// NewSMTPMailerFromEnv builds an SMTPMailer from SMTP_HOST, SMTP_PORT,
// SMTP_FROM and SMTP_PASSWORD.
func NewSMTPMailerFromEnv() *SMTPMailer {
	return &SMTPMailer{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		From:     os.Getenv("SMTP_FROM"),
		Password: os.Getenv("SMTP_PASSWORD"),
	}
}

// Notify sends one message per recipient so a bad address does not hide the
// rest of the batch. The first error is returned after all sends finish.
func (m *SMTPMailer) Notify(recipients []string, subject, body string) error {
	if m.Host == "" || m.From == "" {
		return fmt.Errorf("mailer not configured: SMTP_HOST and SMTP_FROM required")
	}

	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)
	addr := m.Host + ":" + m.Port

	var firstErr error
	for _, to := range recipients {
		message := fmt.Sprintf("From: %s\nTo: %s\nSubject: %s\n\n%s", m.From, to, subject, body)
		if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(message)); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("send to %s: %w", to, err)
		}
	}
	return firstErr
}

// RecordingMailer collects messages instead of sending them. Used in tests
// and when NOTIFY_DRY_RUN is enabled.
type RecordingMailer struct {
	Sent []RecordedMail
}

// RecordedMail is one captured notification.
type RecordedMail struct {
	Recipients []string
	Subject    string
	Body       string
}

// Notify records the message and always succeeds.
func (m *RecordingMailer) Notify(recipients []string, subject, body string) error {
	m.Sent = append(m.Sent, RecordedMail{
		Recipients: append([]string(nil), recipients...),
		Subject:    subject,
		Body:       body,
	})
	return nil
}

// FromEnv picks the notifier implementation: a RecordingMailer when
// NOTIFY_DRY_RUN=true, otherwise a real SMTP mailer.
func FromEnv() Notifier {
	if strings.EqualFold(os.Getenv("NOTIFY_DRY_RUN"), "true") {
		return &RecordingMailer{}
	}
	return NewSMTPMailerFromEnv()
}
