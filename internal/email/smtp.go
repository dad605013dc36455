package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// SMTPConfig holds the configuration for the SMTP email sender.
type SMTPConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	SenderAddress string
	SenderName    string
}

// SMTPSender implements Sender over an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a new SMTPSender.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, fmt.Errorf("smtp: host and port are required")
	}
	if cfg.SenderAddress == "" {
		return nil, fmt.Errorf("smtp: sender address is required")
	}

	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   formatFrom(cfg.SenderName, cfg.SenderAddress),
	}, nil
}

// Send dials the relay and sends one message. gomail has no context support,
// so ctx is only checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(newGomailMessage(s.from, msg)); err != nil {
		return fmt.Errorf("smtp: failed to send email: %w", err)
	}
	return nil
}

func newGomailMessage(from string, msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		m.SetBody("text/plain", msg.TextBody)
		m.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBody("text/html", msg.HTMLBody)
	default:
		m.SetBody("text/plain", msg.TextBody)
	}
	return m
}
