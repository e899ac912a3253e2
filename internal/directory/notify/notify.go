// Package notify delivers run reports.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"phonebook/internal/platform/config"
)

// Sender sends a composed message. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailNotifier delivers reports as plain-text e-mail over SMTP.
type MailNotifier struct {
	sender Sender
	from   string
	to     []string
}

// NewMailNotifier builds a notifier for cfg. Use NewMailNotifierWithSender to
// supply the transport directly.
func NewMailNotifier(cfg config.Mail) (*MailNotifier, error) {
	return NewMailNotifierWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), cfg.From, cfg.To)
}

func NewMailNotifierWithSender(sender Sender, from string, to []string) (*MailNotifier, error) {
	if sender == nil {
		return nil, errors.New("mail sender is required")
	}
	if from == "" {
		return nil, errors.New("mail sender address is required")
	}
	if len(to) == 0 {
		return nil, errors.New("at least one mail recipient is required")
	}
	return &MailNotifier{sender: sender, from: from, to: to}, nil
}

func (n *MailNotifier) Deliver(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send report e-mail: %w", err)
	}
	return nil
}

// LogNotifier writes reports to the log. It is used when no SMTP host is
// configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Deliver(ctx context.Context, subject, body string) error {
	n.logger.InfoContext(ctx, "import report", "subject", subject, "report", body)
	return nil
}
