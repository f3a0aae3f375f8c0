// Package support exposes the help/contact form submission endpoint.
package support

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/launchpad/pkg/support"
)

// Router creates the support module router.
// Submission is unauthenticated by design: visitors must be able to reach
// the contact form before they have an account.
func Router(svc *support.Service) chi.Router {
	if svc == nil {
		panic("support: Service is required")
	}

	r := chi.NewRouter()
	r.Post("/", submitHandler(svc))
	return r
}

type submitRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Type     string `json:"type"`
	Category string `json:"category,omitempty"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Priority string `json:"priority,omitempty"`
}

func submitHandler(svc *support.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		id, err := svc.Submit(r.Context(), &support.Request{
			Name:     req.Name,
			Email:    req.Email,
			Type:     support.RequestType(req.Type),
			Category: req.Category,
			Subject:  req.Subject,
			Message:  req.Message,
			Priority: support.Priority(req.Priority),
		})
		if err != nil {
			if errors.Is(err, support.ErrInvalidRequest) {
				respondJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
				return
			}
			slog.ErrorContext(r.Context(), "support submission failed", "error", err)
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to submit request"})
			return
		}

		respondJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
