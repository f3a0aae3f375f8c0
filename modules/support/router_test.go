package support_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	supportmod "github.com/dmitrymomot/launchpad/modules/support"
	"github.com/dmitrymomot/launchpad/pkg/email"
	"github.com/dmitrymomot/launchpad/pkg/support"
)

type noopSender struct{}

func (noopSender) SendEmail(context.Context, email.SendEmailParams) error { return nil }

func newRouter() http.Handler {
	svc := support.NewService(support.NewMemoryStore(), noopSender{}, nil)
	return supportmod.Router(svc)
}

func TestSubmitEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("valid submission returns 201 with ID", func(t *testing.T) {
		t.Parallel()

		body := `{
			"name": "Jamie",
			"email": "jamie@example.com",
			"type": "help",
			"category": "billing",
			"subject": "Charged twice",
			"message": "I see two charges for this month."
		}`

		rec := httptest.NewRecorder()
		newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["id"])
	})

	t.Run("invalid submission returns 422", func(t *testing.T) {
		t.Parallel()

		body := `{"name": "Jamie", "email": "not-an-email", "type": "help", "subject": "x", "message": "y"}`

		rec := httptest.NewRecorder()
		newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
