package localauth

import (
	"context"
	"log/slog"
)

// LogSender writes one-time codes to the application log instead of
// sending mail. Development wiring only; the code reaches whoever can
// read the logs.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender writing to logger.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) SendOTP(ctx context.Context, email, code string) error {
	s.logger.InfoContext(ctx, "one-time code issued",
		slog.String("email", email),
		slog.String("code", code))
	return nil
}
