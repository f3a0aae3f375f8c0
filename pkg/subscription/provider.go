package subscription

import (
	"context"
	"time"
)

// BillingProvider defines the minimal interface for payment provider
// integrations. The provider is the single source of truth for subscription
// state: every mutating decision works on a snapshot fetched through
// GetSubscription immediately beforehand, and a provider-side rejection of
// an operation is authoritative even when local validation passed.
//
// Implementations should use official provider SDKs and handle
// provider-specific quirks internally.
type BillingProvider interface {
	// GetSubscription fetches a fresh snapshot of a subscription.
	GetSubscription(ctx context.Context, providerSubID string) (*Subscription, error)

	// CreateCheckoutLink creates a hosted checkout session. The subscription
	// becomes active only after the provider confirms payment via webhook.
	CreateCheckoutLink(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error)

	// ChangeSubscription switches an existing subscription to another
	// product in place. Provider-side conflicts must be returned verbatim.
	ChangeSubscription(ctx context.Context, providerSubID, productID string) (*Subscription, error)

	// CancelSubscription cancels a subscription, at period end unless
	// revokeImmediately is set. Returns ErrAlreadyCancelled (possibly
	// wrapped) when the provider reports the cancellation as already
	// scheduled or processed.
	CancelSubscription(ctx context.Context, providerSubID string, revokeImmediately bool) error

	// GetCustomerPortalLink returns a temporary link to the provider-hosted
	// portal where users manage payment methods and invoices.
	GetCustomerPortalLink(ctx context.Context, customer *Customer) (*PortalLink, error)

	// ParseWebhook validates and parses incoming webhook data.
	// Must verify the signature to prevent webhook spoofing.
	ParseWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error)
}

// CheckoutRequest contains data needed to create a checkout session.
type CheckoutRequest struct {
	ProductID  string // provider's price/product identifier
	CustomerID string // internal user ID, echoed back via webhook custom data
	Email      string // optional billing email
	SuccessURL string // redirect after successful payment
	CancelURL  string // redirect if customer abandons checkout
}

// CheckoutLink represents a hosted checkout session.
type CheckoutLink struct {
	URL       string
	SessionID string
	ExpiresAt time.Time
}

// PortalLink represents a customer portal session.
type PortalLink struct {
	URL              string
	CancelURL        string // direct cancellation deep link, when available
	UpdatePaymentURL string // payment method update deep link, when available
	ExpiresAt        time.Time
}

// WebhookEvent is a normalized webhook event from the billing provider.
type WebhookEvent struct {
	Type               EventType // normalized event type
	ProviderEvent      string    // original provider event name
	SubscriptionID     string    // provider's subscription ID
	UserID             string    // internal user ID from checkout custom data
	ProviderCustomerID string    // provider's customer ID (ctm_xxx, cus_xxx)
	Status             string    // provider-reported subscription status
	ProductID          string    // price/product the event refers to
	Raw                map[string]any
}

// EventType is the normalized billing event type. Each provider
// implementation maps its specific events onto these.
type EventType string

const (
	EventSubscriptionCreated   EventType = "subscription_created"
	EventSubscriptionUpdated   EventType = "subscription_updated"
	EventSubscriptionCancelled EventType = "subscription_cancelled"
	EventSubscriptionResumed   EventType = "subscription_resumed"

	EventPaymentSucceeded EventType = "payment_succeeded"
	EventPaymentFailed    EventType = "payment_failed"
)
