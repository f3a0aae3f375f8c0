package billing

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/launchpad/pkg/identity"
	"github.com/dmitrymomot/launchpad/pkg/subscription"
)

type handlers struct {
	svc *subscription.Service
}

// status returns the current plan, reachable transitions, and display-safe
// subscription detail. Always renders: a degraded provider lookup projects
// as the inactive free tier rather than an error page.
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	user, _ := identity.UserFromContext(r.Context())

	ds, err := h.svc.Status(r.Context(), user.ID)
	if err != nil {
		slog.WarnContext(r.Context(), "billing status degraded", "user_id", user.ID, "error", err)
	}

	respondJSON(w, http.StatusOK, ds)
}

type changeRequest struct {
	Target     subscription.Tier `json:"target"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
}

// change requests a plan change. Responds with either a checkout redirect
// URL or the applied outcome. Validation failures carry a machine-readable
// reason code; provider conflicts are passed through with the provider's
// message preserved.
func (h *handlers) change(w http.ResponseWriter, r *http.Request) {
	user, _ := identity.UserFromContext(r.Context())

	var req changeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if !req.Target.Valid() {
		respondJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error: "unknown plan tier", Reason: "unknown_tier",
		})
		return
	}

	outcome, err := h.svc.ApplyPlanChange(r.Context(), user.ID, req.Target, subscription.CheckoutOptions{
		Email:      user.Email,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		h.respondChangeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}

func (h *handlers) respondChangeError(w http.ResponseWriter, r *http.Request, err error) {
	if invalid, ok := subscription.IsInvalidChangeError(err); ok {
		respondJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error:  invalid.Error(),
			Reason: string(invalid.Reason),
		})
		return
	}
	if errors.Is(err, subscription.ErrPlanNotFound) {
		respondJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error: "unknown plan tier", Reason: "unknown_tier",
		})
		return
	}
	if errors.Is(err, subscription.ErrSubscriptionLookup) {
		respondJSON(w, http.StatusBadGateway, errorBody{Error: "subscription lookup failed"})
		return
	}

	// Provider conflict: surface the provider's message so the UI can offer
	// a "manage externally" fallback.
	slog.ErrorContext(r.Context(), "plan change rejected by provider", "error", err)
	respondJSON(w, http.StatusConflict, errorBody{Error: err.Error(), Reason: "provider_conflict"})
}

// portal returns a provider-hosted customer portal URL.
func (h *handlers) portal(w http.ResponseWriter, r *http.Request) {
	user, _ := identity.UserFromContext(r.Context())

	link, err := h.svc.CustomerPortalLink(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, subscription.ErrCustomerNotFound) {
			respondJSON(w, http.StatusNotFound, errorBody{Error: "no billing account on record"})
			return
		}
		slog.ErrorContext(r.Context(), "portal link generation failed", "user_id", user.ID, "error", err)
		respondJSON(w, http.StatusBadGateway, errorBody{Error: "failed to generate portal link"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": link.URL})
}

// WebhookHandler processes billing provider webhooks. Mount outside any
// authentication middleware; the payload signature is the authentication.
func WebhookHandler(svc *subscription.Service) http.HandlerFunc {
	if svc == nil {
		panic("billing: subscription Service is required")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorBody{Error: "failed to read payload"})
			return
		}

		signature := r.Header.Get("Paddle-Signature")
		if err := svc.HandleWebhook(r.Context(), payload, signature); err != nil {
			slog.ErrorContext(r.Context(), "webhook processing failed", "error", err)
			respondJSON(w, http.StatusBadRequest, errorBody{Error: "webhook rejected"})
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
