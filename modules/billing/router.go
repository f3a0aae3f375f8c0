// Package billing exposes the subscription management HTTP surface:
// status query, plan-change mutation, customer portal redirect, and the
// provider webhook intake.
package billing

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/launchpad/pkg/identity"
	"github.com/dmitrymomot/launchpad/pkg/ratelimit"
	"github.com/dmitrymomot/launchpad/pkg/subscription"
)

// RouterOptions configures the billing module router.
type RouterOptions struct {
	Service  *subscription.Service
	Identity identity.Provider
	// Limiter guards the plan-change mutation per user. Optional.
	Limiter ratelimit.Limiter
}

// Router creates the authenticated billing router.
// The webhook endpoint is intentionally not here: mount WebhookHandler
// separately, outside any authentication middleware.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/billing", billing.Router(billing.RouterOptions{
//	    Service:  subscriptionSvc,
//	    Identity: identityProvider,
//	    Limiter:  limiter,
//	}))
//	r.Post("/webhooks/billing", billing.WebhookHandler(subscriptionSvc))
func Router(opts RouterOptions) chi.Router {
	if opts.Service == nil {
		panic("billing: subscription Service is required")
	}
	if opts.Identity == nil {
		panic("billing: identity Provider is required")
	}

	h := &handlers{svc: opts.Service}

	r := chi.NewRouter()
	r.Use(identity.RequireUser(opts.Identity))

	r.Get("/status", h.status)
	r.Get("/portal", h.portal)

	change := r.With()
	if opts.Limiter != nil {
		change = r.With(ratelimit.Middleware(opts.Limiter, userKey))
	}
	change.Post("/change", h.change)

	return r
}

// userKey rate-limits plan changes per authenticated user.
func userKey(r *http.Request) string {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		return ""
	}
	return "plan-change:" + user.ID.String()
}
