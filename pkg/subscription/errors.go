package subscription

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCatalog     = errors.New("invalid subscription catalog configuration")
	ErrInvalidGraph       = errors.New("invalid transition graph configuration")
	ErrPlanNotFound       = errors.New("subscription plan not found")
	ErrFailedToLoadPlans  = errors.New("failed to load subscription plans")
	ErrCustomerNotFound   = errors.New("billing customer not found")
	ErrNoSubscription     = errors.New("no provider subscription on record")
	ErrSubscriptionLookup = errors.New("subscription lookup failed")

	// ErrAlreadyCancelled marks a cancellation the provider reports as
	// already scheduled or processed. Callers treat it as success.
	ErrAlreadyCancelled = errors.New("subscription cancellation already scheduled")

	// Provider-specific configuration errors
	ErrMissingAPIKey             = errors.New("billing provider API key is required")
	ErrMissingWebhookSecret      = errors.New("billing provider webhook secret is required")
	ErrWebhookVerificationFailed = errors.New("webhook signature verification failed")
	ErrNoCheckoutURL             = errors.New("no checkout URL returned from provider")
	ErrNoPortalURL               = errors.New("no portal URL returned from provider")
)

// InvalidChangeError reports a plan change rejected by local validation.
// Recoverable: the caller may retry with a different target tier.
type InvalidChangeError struct {
	From   Tier
	To     Tier
	Reason ChangeReason
}

func (e *InvalidChangeError) Error() string {
	return fmt.Sprintf("invalid plan change from %q to %q: %s", e.From, e.To, e.Reason)
}

// IsInvalidChangeError reports whether err is a validation rejection and
// returns the typed error for reason-code access.
func IsInvalidChangeError(err error) (*InvalidChangeError, bool) {
	var e *InvalidChangeError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
