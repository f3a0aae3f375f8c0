// Package support handles help and contact form submissions: persistence
// plus a confirmation email to the requester.
package support

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRequest  = errors.New("support: invalid request")
	ErrRequestNotFound = errors.New("support: request not found")
)

// RequestType distinguishes the two intake forms.
type RequestType string

const (
	RequestTypeHelp    RequestType = "help"
	RequestTypeContact RequestType = "contact"
)

// Priority of a support request.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// RequestStatus tracks triage state.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusOpen     RequestStatus = "open"
	StatusResolved RequestStatus = "resolved"
)

var knownCategories = []string{
	"getting-started", "account", "billing", "technical", "features", "api", "other",
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Request is a submitted help or contact form.
type Request struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Type      RequestType
	Category  string // optional, from the known category list
	Subject   string
	Message   string
	Priority  Priority
	Status    RequestStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks a submission before persisting it.
func (r *Request) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	if r.Email == "" || !emailRegex.MatchString(r.Email) {
		return fmt.Errorf("%w: a valid email is required", ErrInvalidRequest)
	}
	if r.Type != RequestTypeHelp && r.Type != RequestTypeContact {
		return fmt.Errorf("%w: unknown request type %q", ErrInvalidRequest, r.Type)
	}
	if r.Category != "" && !slices.Contains(knownCategories, r.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidRequest, r.Category)
	}
	if r.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidRequest)
	}
	if r.Message == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidRequest)
	}
	switch r.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
	default:
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidRequest, r.Priority)
	}
	return nil
}

// Store persists support requests.
type Store interface {
	Save(ctx context.Context, req *Request) error
	Get(ctx context.Context, id uuid.UUID) (*Request, error)
}
