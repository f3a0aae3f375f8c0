package email

import (
	"context"
	"log/slog"
)

type devSender struct {
	log *slog.Logger
}

// NewDevSender returns a Sender that logs messages instead of delivering
// them. For local development and tests.
func NewDevSender(log *slog.Logger) Sender {
	if log == nil {
		log = slog.Default()
	}
	return &devSender{log: log}
}

func (s *devSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "dev email sender: message not delivered",
		"to", params.SendTo, "subject", params.Subject, "tag", params.Tag)
	return nil
}
