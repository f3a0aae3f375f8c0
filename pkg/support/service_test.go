package support_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/launchpad/pkg/email"
	"github.com/dmitrymomot/launchpad/pkg/support"
)

type fakeSender struct {
	sent []email.SendEmailParams
	err  error
}

func (s *fakeSender) SendEmail(_ context.Context, params email.SendEmailParams) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, params)
	return nil
}

func validRequest() *support.Request {
	return &support.Request{
		Name:     "Jamie",
		Email:    "jamie@example.com",
		Type:     support.RequestTypeHelp,
		Category: "billing",
		Subject:  "Charged twice",
		Message:  "I see two charges for this month.",
	}
}

func TestServiceSubmit(t *testing.T) {
	t.Parallel()

	t.Run("stores request and sends confirmation", func(t *testing.T) {
		t.Parallel()

		store := support.NewMemoryStore()
		sender := &fakeSender{}
		svc := support.NewService(store, sender, nil)

		id, err := svc.Submit(context.Background(), validRequest())
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, id)

		saved, err := store.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, support.StatusPending, saved.Status)
		assert.Equal(t, support.PriorityMedium, saved.Priority, "empty priority defaults to medium")
		assert.False(t, saved.CreatedAt.IsZero())

		require.Len(t, sender.sent, 1)
		assert.Equal(t, "jamie@example.com", sender.sent[0].SendTo)
		assert.Contains(t, sender.sent[0].Subject, "Charged twice")
	})

	t.Run("failed confirmation email does not fail the submission", func(t *testing.T) {
		t.Parallel()

		store := support.NewMemoryStore()
		sender := &fakeSender{err: errors.New("postmark down")}
		svc := support.NewService(store, sender, nil)

		id, err := svc.Submit(context.Background(), validRequest())
		require.NoError(t, err)

		_, err = store.Get(context.Background(), id)
		require.NoError(t, err)
	})

	t.Run("validation failures", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			mutate func(r *support.Request)
		}{
			{"missing name", func(r *support.Request) { r.Name = "" }},
			{"invalid email", func(r *support.Request) { r.Email = "not-an-email" }},
			{"unknown type", func(r *support.Request) { r.Type = "complaint" }},
			{"unknown category", func(r *support.Request) { r.Category = "legal" }},
			{"missing subject", func(r *support.Request) { r.Subject = "" }},
			{"missing message", func(r *support.Request) { r.Message = "" }},
			{"unknown priority", func(r *support.Request) { r.Priority = "asap" }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				svc := support.NewService(support.NewMemoryStore(), &fakeSender{}, nil)
				req := validRequest()
				tt.mutate(req)

				_, err := svc.Submit(context.Background(), req)
				require.ErrorIs(t, err, support.ErrInvalidRequest)
			})
		}
	})

	t.Run("html in the name is escaped in the confirmation", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		svc := support.NewService(support.NewMemoryStore(), sender, nil)

		req := validRequest()
		req.Name = `<script>alert("x")</script>`
		_, err := svc.Submit(context.Background(), req)
		require.NoError(t, err)

		require.Len(t, sender.sent, 1)
		assert.NotContains(t, sender.sent[0].BodyHTML, "<script>")
	})
}
