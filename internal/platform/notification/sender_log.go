package notification

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender writes outbound messages to the structured log instead of a
// provider. It is the default sender until an SMTP or SMS gateway is
// configured, and satisfies both EmailSender and SMSSender.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendEmail(_ context.Context, to, subject, body string) error {
	s.log.Info().
		Str("channel", "email").
		Str("to", to).
		Str("subject", subject).
		Int("body_len", len(body)).
		Msg("notification delivered")
	return nil
}

func (s *LogSender) SendSMS(_ context.Context, to, body string) error {
	s.log.Info().
		Str("channel", "sms").
		Str("to", to).
		Int("body_len", len(body)).
		Msg("notification delivered")
	return nil
}
