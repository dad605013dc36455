package email

import (
	"context"

	"github.com/contactform/contactform/internal/logger"
)

// LogSender writes messages to the log instead of sending them. Development only.
type LogSender struct {
	log  *logger.Logger
	from string
}

// NewLogSender creates a new LogSender.
func NewLogSender(log *logger.Logger, senderAddress string) *LogSender {
	return &LogSender{log: log.WithComponent("email"), from: senderAddress}
}

// Send logs the message.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.log.Info().
		Str("from", s.from).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("text_body", msg.TextBody).
		Msg("email not sent (log provider)")
	return nil
}
