// Package mailer sends the outbound notification emails: account
// verification and file moderation outcomes.
package mailer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/sakib-101-git/EDU-ClassRepo/config"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Body    string // plain text
}

// Sender delivers a message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ── SMTP ──

// SMTPSender delivers through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg *config.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ── no-op ──

// NopSender drops every message. Used when mail is disabled.
type NopSender struct{}

func (NopSender) Send(context.Context, Message) error { return nil }

// ── async dispatch ──

// Notifier dispatches messages fire-and-forget: each send runs in its own
// goroutine with its own timeout and never reports back to the caller.
type Notifier struct {
	sender  Sender
	timeout time.Duration
	logger  *zap.Logger
}

func NewNotifier(sender Sender, timeout time.Duration, logger *zap.Logger) *Notifier {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Notifier{sender: sender, timeout: timeout, logger: logger}
}

// New picks the SMTP sender when mail is enabled.
func New(cfg *config.MailConfig, logger *zap.Logger) *Notifier {
	var sender Sender = NopSender{}
	if cfg.Enabled {
		sender = NewSMTPSender(cfg)
	}
	return NewNotifier(sender, cfg.SendTimeout, logger)
}

// Notify returns immediately. A nil Notifier is a no-op.
func (n *Notifier) Notify(msg Message) {
	if n == nil || msg.To == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.sender.Send(ctx, msg); err != nil {
			n.logger.Warn("notification email failed",
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
		}
	}()
}
