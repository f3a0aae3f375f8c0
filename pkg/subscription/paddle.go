package subscription

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
)

// PaddleConfig holds configuration for the Paddle billing provider.
type PaddleConfig struct {
	APIKey        string `env:"PADDLE_API_KEY,required"`
	WebhookSecret string `env:"PADDLE_WEBHOOK_SECRET,required"`
	Environment   string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
}

// PaddleProvider implements BillingProvider for Paddle.
type PaddleProvider struct {
	client   *paddle.SDK
	verifier *paddle.WebhookVerifier
	config   PaddleConfig
}

// NewPaddleProvider creates a new Paddle billing provider.
func NewPaddleProvider(config PaddleConfig) (*PaddleProvider, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}

	var client *paddle.SDK
	var err error

	switch strings.ToLower(config.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(config.APIKey)
	case "production", "":
		client, err = paddle.New(config.APIKey)
	default:
		return nil, fmt.Errorf("invalid paddle environment: %s", config.Environment)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create paddle client: %w", err)
	}

	return &PaddleProvider{
		client:   client,
		verifier: paddle.NewWebhookVerifier(config.WebhookSecret),
		config:   config,
	}, nil
}

// GetSubscription fetches a fresh subscription snapshot from Paddle and
// normalizes it into the provider-agnostic record.
func (p *PaddleProvider) GetSubscription(ctx context.Context, providerSubID string) (*Subscription, error) {
	if providerSubID == "" {
		return nil, ErrNoSubscription
	}

	sub, err := p.client.SubscriptionsClient.GetSubscription(ctx, &paddle.GetSubscriptionRequest{
		SubscriptionID: providerSubID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch paddle subscription: %w", err)
	}

	return normalizePaddleSubscription(sub), nil
}

// CreateCheckoutLink creates a hosted checkout session in Paddle.
func (p *PaddleProvider) CreateCheckoutLink(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error) {
	if req.ProductID == "" {
		return nil, errors.New("product ID is required")
	}
	if req.CustomerID == "" {
		return nil, errors.New("customer ID is required")
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  req.ProductID,
		Quantity: 1,
	})

	transactionReq := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"customer_id": req.CustomerID,
		},
	}

	// Paddle resolves the billing email during checkout; pass it along in
	// custom data so it survives into webhook payloads.
	if req.Email != "" {
		transactionReq.CustomData["email"] = req.Email
	}

	if req.SuccessURL != "" {
		transactionReq.Checkout = &paddle.TransactionCheckout{
			URL: paddle.PtrTo(req.SuccessURL),
		}
	}

	transaction, err := p.client.TransactionsClient.CreateTransaction(ctx, transactionReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create paddle transaction: %w", err)
	}

	if transaction.Checkout == nil || transaction.Checkout.URL == nil || *transaction.Checkout.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	return &CheckoutLink{
		URL:       *transaction.Checkout.URL,
		SessionID: transaction.ID,
		ExpiresAt: time.Now().Add(24 * time.Hour), // Paddle checkout links expire in 24 hours
	}, nil
}

// ChangeSubscription switches the subscription to another catalog price in
// place, prorating immediately. Provider-side conflicts are returned verbatim.
func (p *PaddleProvider) ChangeSubscription(ctx context.Context, providerSubID, productID string) (*Subscription, error) {
	if providerSubID == "" {
		return nil, ErrNoSubscription
	}
	if productID == "" {
		return nil, errors.New("product ID is required")
	}

	item := paddle.NewUpdateSubscriptionItemsSubscriptionUpdateItemFromCatalog(&paddle.SubscriptionUpdateItemFromCatalog{
		PriceID:  productID,
		Quantity: 1,
	})

	sub, err := p.client.SubscriptionsClient.UpdateSubscription(ctx, &paddle.UpdateSubscriptionRequest{
		SubscriptionID:       providerSubID,
		Items:                paddle.NewPatchField([]paddle.UpdateSubscriptionItems{*item}),
		ProrationBillingMode: paddle.NewPatchField(paddle.ProrationBillingModeProratedImmediately),
	})
	if err != nil {
		return nil, fmt.Errorf("paddle rejected subscription change: %w", err)
	}

	return normalizePaddleSubscription(sub), nil
}

// CancelSubscription schedules cancellation, at period end unless
// revokeImmediately is set. A cancellation the provider reports as already
// scheduled returns ErrAlreadyCancelled so callers can treat it as satisfied.
func (p *PaddleProvider) CancelSubscription(ctx context.Context, providerSubID string, revokeImmediately bool) error {
	if providerSubID == "" {
		return ErrNoSubscription
	}

	// Structured already-cancelled check first: a scheduled cancel or a
	// terminal status means there is nothing left to do.
	if current, err := p.GetSubscription(ctx, providerSubID); err == nil && current != nil {
		if current.Status == StatusCanceled || current.CancelAtPeriodEnd {
			return ErrAlreadyCancelled
		}
	}

	effective := paddle.EffectiveFromNextBillingPeriod
	if revokeImmediately {
		effective = paddle.EffectiveFromImmediately
	}

	_, err := p.client.SubscriptionsClient.CancelSubscription(ctx, &paddle.CancelSubscriptionRequest{
		SubscriptionID: providerSubID,
		EffectiveFrom:  paddle.PtrTo(effective),
	})
	if err != nil {
		// Message-matching fallback for races where the cancellation landed
		// between the snapshot above and this call.
		if isAlreadyCancelledMessage(err.Error()) {
			return errors.Join(ErrAlreadyCancelled, err)
		}
		return fmt.Errorf("paddle rejected subscription cancellation: %w", err)
	}

	return nil
}

// GetCustomerPortalLink returns a link to Paddle's customer portal.
func (p *PaddleProvider) GetCustomerPortalLink(ctx context.Context, customer *Customer) (*PortalLink, error) {
	if customer == nil || customer.ProviderCustomerID == "" {
		return nil, ErrCustomerNotFound
	}

	req := &paddle.CreateCustomerPortalSessionRequest{
		CustomerID: customer.ProviderCustomerID,
	}
	if customer.ProviderSubID != "" {
		req.SubscriptionIDs = []string{customer.ProviderSubID}
	}

	session, err := p.client.CustomerPortalSessionsClient.CreateCustomerPortalSession(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create paddle customer portal session: %w", err)
	}

	link := &PortalLink{
		URL:       session.URLs.General.Overview,
		ExpiresAt: time.Now().Add(24 * time.Hour), // portal links expire in 24 hours
	}

	// Subscription-scoped deep links when Paddle returns them.
	for _, subURL := range session.URLs.Subscriptions {
		if subURL.ID != customer.ProviderSubID {
			continue
		}
		link.CancelURL = subURL.CancelSubscription
		link.UpdatePaymentURL = subURL.UpdateSubscriptionPaymentMethod
		break
	}

	if link.URL == "" {
		return nil, ErrNoPortalURL
	}

	return link, nil
}

// ParseWebhook validates and parses incoming webhook data from Paddle.
func (p *PaddleProvider) ParseWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/webhook", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request for verification: %w", err)
	}
	req.Header.Set("Paddle-Signature", signature)

	valid, err := p.verifier.Verify(req)
	if err != nil {
		return nil, fmt.Errorf("webhook verification error: %w", err)
	}
	if !valid {
		return nil, ErrWebhookVerificationFailed
	}

	var paddleEvent struct {
		EventID   string         `json:"event_id"`
		EventType string         `json:"event_type"`
		Data      map[string]any `json:"data"`
	}
	if err := json.Unmarshal(payload, &paddleEvent); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	event := &WebhookEvent{
		Type:          mapPaddleEventType(paddleEvent.EventType),
		ProviderEvent: paddleEvent.EventType,
		Raw:           paddleEvent.Data,
	}

	if id, ok := paddleEvent.Data["id"].(string); ok {
		event.SubscriptionID = id
	}
	// Transaction events reference the subscription they belong to.
	if subID, ok := paddleEvent.Data["subscription_id"].(string); ok {
		event.SubscriptionID = subID
	}
	if status, ok := paddleEvent.Data["status"].(string); ok {
		event.Status = status
	}
	if customerID, ok := paddleEvent.Data["customer_id"].(string); ok {
		event.ProviderCustomerID = customerID
	}
	if customData, ok := paddleEvent.Data["custom_data"].(map[string]any); ok {
		if userID, ok := customData["customer_id"].(string); ok {
			event.UserID = userID
		}
	}
	if items, ok := paddleEvent.Data["items"].([]any); ok && len(items) > 0 {
		if item, ok := items[0].(map[string]any); ok {
			// Subscription events nest the price object; transaction events
			// carry a flat price_id.
			if price, ok := item["price"].(map[string]any); ok {
				if priceID, ok := price["id"].(string); ok {
					event.ProductID = priceID
				}
			}
			if priceID, ok := item["price_id"].(string); ok {
				event.ProductID = priceID
			}
		}
	}

	return event, nil
}

// normalizePaddleSubscription converts a Paddle subscription into the
// provider-agnostic record. Missing or malformed fields degrade to zero
// values rather than failing.
func normalizePaddleSubscription(sub *paddle.Subscription) *Subscription {
	if sub == nil {
		return nil
	}

	record := &Subscription{
		ID:     sub.ID,
		Status: mapPaddleStatus(string(sub.Status)),
	}

	if len(sub.Items) > 0 {
		price := sub.Items[0].Price
		record.ProductID = price.ID
		if amount, err := strconv.ParseInt(price.UnitPrice.Amount, 10, 64); err == nil {
			record.Amount = &Money{
				Amount:   amount,
				Currency: string(price.UnitPrice.CurrencyCode),
			}
		}
	}

	if period := sub.CurrentBillingPeriod; period != nil {
		record.CurrentPeriodStart = parsePaddleTime(period.StartsAt)
		record.CurrentPeriodEnd = parsePaddleTime(period.EndsAt)
	}

	if change := sub.ScheduledChange; change != nil && change.Action == paddle.ScheduledChangeActionCancel {
		record.CancelAtPeriodEnd = true
	}

	return record
}

// parsePaddleTime parses Paddle's RFC 3339 timestamps, returning the zero
// time for malformed values so projections can degrade to null.
func parsePaddleTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// isAlreadyCancelledMessage matches provider error messages indicating the
// cancellation is already scheduled or processed. Last-resort fallback for
// providers that do not expose a structured code for this case.
func isAlreadyCancelledMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "already cancel") ||
		strings.Contains(msg, "subscription not updated") ||
		strings.Contains(msg, "update_when_canceled")
}

// mapPaddleEventType maps Paddle event names to normalized event types.
func mapPaddleEventType(paddleEvent string) EventType {
	switch paddleEvent {
	case "transaction.completed", "subscription.created":
		return EventSubscriptionCreated
	case "subscription.updated":
		return EventSubscriptionUpdated
	case "subscription.canceled":
		return EventSubscriptionCancelled
	case "subscription.resumed":
		return EventSubscriptionResumed
	case "transaction.payment_succeeded":
		return EventPaymentSucceeded
	case "transaction.payment_failed":
		return EventPaymentFailed
	default:
		return EventType(paddleEvent)
	}
}

// mapPaddleStatus maps Paddle subscription statuses onto the normalized set.
// Unknown statuses map to incomplete, which resolves to the free tier.
func mapPaddleStatus(paddleStatus string) Status {
	switch strings.ToLower(paddleStatus) {
	case "active":
		return StatusActive
	case "trialing":
		return StatusTrialing
	case "past_due":
		return StatusPastDue
	case "canceled", "cancelled":
		return StatusCanceled
	default:
		return StatusIncomplete
	}
}
