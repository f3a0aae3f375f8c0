package support

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/launchpad/pkg/email"
)

// Service persists support requests and sends the requester a confirmation.
type Service struct {
	store  Store
	sender email.Sender
	log    *slog.Logger
}

// NewService creates a support service. Panics on nil dependencies.
func NewService(store Store, sender email.Sender, log *slog.Logger) *Service {
	if store == nil {
		panic("support: Store is required")
	}
	if sender == nil {
		panic("support: email Sender is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, sender: sender, log: log}
}

// Submit validates and stores a request, then sends a confirmation email.
// A failed confirmation email does not fail the submission - the request is
// already on file for the support team.
func (s *Service) Submit(ctx context.Context, req *Request) (uuid.UUID, error) {
	if req.Priority == "" {
		req.Priority = PriorityMedium
	}
	if err := req.Validate(); err != nil {
		return uuid.Nil, err
	}

	now := time.Now().UTC()
	req.ID = uuid.New()
	req.Status = StatusPending
	req.CreatedAt = now
	req.UpdatedAt = now

	if err := s.store.Save(ctx, req); err != nil {
		return uuid.Nil, fmt.Errorf("failed to save support request: %w", err)
	}

	if err := s.sender.SendEmail(ctx, confirmationEmail(req)); err != nil {
		s.log.WarnContext(ctx, "support confirmation email failed",
			"request_id", req.ID, "error", err)
	}

	return req.ID, nil
}

func confirmationEmail(req *Request) email.SendEmailParams {
	return email.SendEmailParams{
		SendTo:  req.Email,
		Subject: fmt.Sprintf("We received your request: %s", req.Subject),
		BodyHTML: fmt.Sprintf(
			`<p>Hi %s,</p><p>Thanks for reaching out. We received your %s request
			<strong>%s</strong> and will get back to you shortly.</p>
			<p>Reference: %s</p>`,
			html.EscapeString(req.Name),
			html.EscapeString(string(req.Type)),
			html.EscapeString(req.Subject),
			req.ID,
		),
		Tag: "support-confirmation",
	}
}
