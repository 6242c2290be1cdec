// Package email implements the mail-transport collaborators: SMTP
// delivery of the daily digest and IMAP retrieval of feedback replies.
package email

import (
	"fmt"
	"log"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/example/spanbot/internal/config"
	"github.com/example/spanbot/internal/session"
)

const subjectLine = "Your Daily Spanish Vocabulary"

// Sender delivers digests over SMTP-SSL with a bounded retry.
type Sender struct {
	cfg *config.Config

	// Retry policy for transient connection failures.
	Attempts int
	Delay    time.Duration
}

// NewSender creates an SMTP deliverer with the default retry policy.
func NewSender(cfg *config.Config) *Sender {
	return &Sender{cfg: cfg, Attempts: 3, Delay: 5 * time.Second}
}

var _ session.Deliverer = (*Sender)(nil)

// Deliver renders and sends the digest. Each attempt dials a fresh
// connection; the delay doubles between attempts.
func (s *Sender) Deliver(d session.Digest) error {
	body, err := Render(d, s.cfg.TemplateFile)
	if err != nil {
		return fmt.Errorf("rendering digest: %v", err)
	}

	subject := subjectLine
	if d.TestMode {
		subject += " (test)"
	}

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.GmailAddress); err != nil {
		return fmt.Errorf("invalid sender address: %v", err)
	}
	if err := msg.To(s.cfg.RecipientEmail); err != nil {
		return fmt.Errorf("invalid recipient address: %v", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	delay := s.Delay
	var lastErr error
	for attempt := 1; attempt <= s.Attempts; attempt++ {
		client, err := mail.NewClient(s.cfg.SMTPServer,
			mail.WithPort(s.cfg.SMTPPort),
			mail.WithSSL(),
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.GmailAddress),
			mail.WithPassword(s.cfg.GmailAppPassword),
			mail.WithTimeout(30*time.Second),
		)
		if err != nil {
			return fmt.Errorf("creating SMTP client: %v", err)
		}

		lastErr = client.DialAndSend(msg)
		if lastErr == nil {
			return nil
		}

		if attempt < s.Attempts {
			log.Printf("Send attempt %d failed: %v, retrying in %s", attempt, lastErr, delay)
			time.Sleep(delay)
			delay *= 2
		}
	}
	return fmt.Errorf("sending after %d attempts: %v", s.Attempts, lastErr)
}
