package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/taskly/taskly-api/internal/core/ports"
)

// LogMailer logs outgoing mail instead of sending it. Used when no SMTP host
// is configured.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (l *LogMailer) Send(_ context.Context, m ports.Mail) error {
	l.log.Info().
		Str("to", m.To).
		Str("subject", m.Subject).
		Msg("mail delivery disabled, message not sent")
	return nil
}
