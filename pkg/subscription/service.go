package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// OutcomeKind classifies the result of a plan change request.
type OutcomeKind string

const (
	// OutcomeCheckoutRedirect means the caller must redirect to the
	// returned URL; the subscription activates later via webhook.
	OutcomeCheckoutRedirect OutcomeKind = "checkout_redirect"
	// OutcomeChanged means the provider switched the subscription in place.
	OutcomeChanged OutcomeKind = "changed"
	// OutcomeCancelled means the subscription will lapse at period end.
	OutcomeCancelled OutcomeKind = "cancelled"
)

// ChangeOutcome is the result of ApplyPlanChange.
type ChangeOutcome struct {
	Kind        OutcomeKind `json:"kind"`
	RedirectURL string      `json:"redirect_url,omitempty"`
}

// Service coordinates plan resolution, transition validation, and billing
// provider operations. It holds no subscription state of its own: every
// decision works on a snapshot fetched from the provider at call time, and
// provider-side rejections are authoritative. Safe for concurrent use.
type Service struct {
	catalog  *Catalog
	graph    *Graph
	provider BillingProvider
	store    CustomerStore
	log      *slog.Logger

	fetchAttempts int
	retryInterval time.Duration
}

// NewService creates a Service with the given dependencies.
// Panics if required dependencies are nil to fail fast during initialization.
func NewService(ctx context.Context, src CatalogSource, graph *Graph, provider BillingProvider, store CustomerStore, opts ...ServiceOption) (*Service, error) {
	if src == nil {
		panic("subscription: CatalogSource is required")
	}
	if graph == nil {
		panic("subscription: transition Graph is required")
	}
	if provider == nil {
		panic("subscription: BillingProvider is required")
	}
	if store == nil {
		panic("subscription: CustomerStore is required")
	}

	catalog, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	s := &Service{
		catalog:       catalog,
		graph:         graph,
		provider:      provider,
		store:         store,
		log:           slog.Default(),
		fetchAttempts: 3,
		retryInterval: 200 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Catalog returns the loaded plan catalog.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// Graph returns the transition graph.
func (s *Service) Graph() *Graph {
	return s.graph
}

// CurrentSubscription fetches a fresh subscription snapshot for a user.
// A user without a billing customer record, or without a provider
// subscription, has no snapshot: (nil, nil). A failed provider lookup is an
// error so callers can tell "no subscription" from "lookup failed".
func (s *Service) CurrentSubscription(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	customer, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return nil, nil
		}
		return nil, errors.Join(ErrSubscriptionLookup, err)
	}
	if customer.ProviderSubID == "" {
		return nil, nil
	}

	return s.fetchSubscription(ctx, customer.ProviderSubID)
}

// Status returns the display-safe projection of the user's subscription.
// The projection is always usable, even when the returned error is non-nil:
// a failed lookup projects as the inactive free tier.
func (s *Service) Status(ctx context.Context, userID uuid.UUID) (DisplayStatus, error) {
	sub, err := s.CurrentSubscription(ctx, userID)
	if err != nil {
		s.log.WarnContext(ctx, "subscription lookup failed, projecting defaults",
			"user_id", userID, "error", err)
		return ProjectStatus(nil, s.catalog, s.graph), err
	}
	return ProjectStatus(sub, s.catalog, s.graph), nil
}

// ApplyPlanChange validates and executes a plan change for a user.
//
// Exactly one of three mutually exclusive branches runs:
//   - target is the free tier: cancel the current subscription at period
//     end; a provider "already cancelled" response counts as success
//   - user has no effective paid subscription: create a checkout link and
//     return a redirect outcome; activation happens later via webhook
//   - paid tier to paid tier: change the subscription in place; provider
//     rejections are surfaced verbatim
//
// Validation rejections return *InvalidChangeError. The snapshot is
// re-fetched immediately before validating, and the provider may still
// reject a change that validated locally; its rejection wins.
func (s *Service) ApplyPlanChange(ctx context.Context, userID uuid.UUID, target Tier, opts CheckoutOptions) (*ChangeOutcome, error) {
	plan, ok := s.catalog.Plan(target)
	if !ok {
		return nil, ErrPlanNotFound
	}

	customer, sub, err := s.freshSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	current := s.catalog.ResolveTier(sub)
	if v := s.graph.ValidateChange(current, target); !v.Valid {
		return nil, &InvalidChangeError{From: current, To: target, Reason: v.Reason}
	}

	switch {
	case target == TierStarter:
		return s.cancelToFree(ctx, userID, customer)

	case current == TierStarter:
		return s.startCheckout(ctx, userID, plan, opts)

	default:
		return s.changeInPlace(ctx, userID, customer, plan)
	}
}

// CustomerPortalLink returns a provider-hosted portal URL for the user.
func (s *Service) CustomerPortalLink(ctx context.Context, userID uuid.UUID) (*PortalLink, error) {
	customer, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.provider.GetCustomerPortalLink(ctx, customer)
}

// HandleWebhook processes a billing provider webhook, keeping the
// user-to-provider identifier mapping current. Subscription state itself is
// never stored; the next status read fetches it fresh.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhook(ctx, payload, signature)
	if err != nil {
		return err
	}

	switch event.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated,
		EventSubscriptionResumed, EventSubscriptionCancelled:
	default:
		// Payment events carry no mapping changes.
		return nil
	}

	if event.UserID == "" {
		s.log.WarnContext(ctx, "webhook event without user mapping, skipping",
			"event", event.ProviderEvent, "subscription_id", event.SubscriptionID)
		return nil
	}

	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return fmt.Errorf("invalid user ID in webhook: %w", err)
	}

	customer, err := s.store.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrCustomerNotFound) {
			return err
		}
		customer = &Customer{UserID: userID}
	}

	if event.SubscriptionID != "" {
		customer.ProviderSubID = event.SubscriptionID
	}
	if event.ProviderCustomerID != "" {
		customer.ProviderCustomerID = event.ProviderCustomerID
	}

	if err := s.store.Save(ctx, customer); err != nil {
		return fmt.Errorf("failed to save billing customer: %w", err)
	}

	s.log.InfoContext(ctx, "billing webhook processed",
		"event", event.ProviderEvent, "user_id", userID, "status", event.Status)
	return nil
}

func (s *Service) cancelToFree(ctx context.Context, userID uuid.UUID, customer *Customer) (*ChangeOutcome, error) {
	// current != starter here, so the customer record and subscription ID exist.
	err := s.provider.CancelSubscription(ctx, customer.ProviderSubID, false)
	if err != nil {
		if errors.Is(err, ErrAlreadyCancelled) {
			s.log.InfoContext(ctx, "cancellation already scheduled, treating as success",
				"user_id", userID)
			return &ChangeOutcome{Kind: OutcomeCancelled}, nil
		}
		return nil, err
	}
	return &ChangeOutcome{Kind: OutcomeCancelled}, nil
}

func (s *Service) startCheckout(ctx context.Context, userID uuid.UUID, plan Plan, opts CheckoutOptions) (*ChangeOutcome, error) {
	link, err := s.provider.CreateCheckoutLink(ctx, CheckoutRequest{
		ProductID:  plan.ProductID,
		CustomerID: userID.String(),
		Email:      opts.Email,
		SuccessURL: withPlanParam(opts.SuccessURL, plan.Tier),
		CancelURL:  opts.CancelURL,
	})
	if err != nil {
		return nil, err
	}
	return &ChangeOutcome{Kind: OutcomeCheckoutRedirect, RedirectURL: link.URL}, nil
}

func (s *Service) changeInPlace(ctx context.Context, userID uuid.UUID, customer *Customer, plan Plan) (*ChangeOutcome, error) {
	if _, err := s.provider.ChangeSubscription(ctx, customer.ProviderSubID, plan.ProductID); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "subscription changed in place",
		"user_id", userID, "target", plan.Tier)
	return &ChangeOutcome{Kind: OutcomeChanged}, nil
}

// freshSnapshot loads the customer mapping and a fresh provider snapshot
// immediately before a mutating decision.
func (s *Service) freshSnapshot(ctx context.Context, userID uuid.UUID) (*Customer, *Subscription, error) {
	customer, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return &Customer{UserID: userID}, nil, nil
		}
		return nil, nil, errors.Join(ErrSubscriptionLookup, err)
	}
	if customer.ProviderSubID == "" {
		return customer, nil, nil
	}

	sub, err := s.fetchSubscription(ctx, customer.ProviderSubID)
	if err != nil {
		return nil, nil, err
	}
	return customer, sub, nil
}

// fetchSubscription retries transient provider fetch failures with a linear
// backoff. Mutations and validation failures are never retried.
func (s *Service) fetchSubscription(ctx context.Context, providerSubID string) (*Subscription, error) {
	var lastErr error
	for attempt := range s.fetchAttempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.Join(ErrSubscriptionLookup, ctx.Err())
			case <-time.After(time.Duration(attempt) * s.retryInterval):
			}
		}

		sub, err := s.provider.GetSubscription(ctx, providerSubID)
		if err == nil {
			return sub, nil
		}
		lastErr = err
	}
	return nil, errors.Join(ErrSubscriptionLookup, lastErr)
}

// withPlanParam marks the success URL with the target plan so the return
// page knows which checkout completed.
func withPlanParam(successURL string, target Tier) string {
	if successURL == "" {
		return successURL
	}
	u, err := url.Parse(successURL)
	if err != nil {
		return successURL
	}
	q := u.Query()
	q.Set("success", "true")
	q.Set("plan", string(target))
	u.RawQuery = q.Encode()
	return u.String()
}
