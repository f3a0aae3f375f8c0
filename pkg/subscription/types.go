package subscription

import "time"

// Status represents the provider-reported state of a subscription.
// Canceled, incomplete, and past_due all mean "no effective paid plan".
type Status string

const (
	StatusActive     Status = "active"
	StatusTrialing   Status = "trialing"
	StatusCanceled   Status = "canceled"
	StatusIncomplete Status = "incomplete"
	StatusPastDue    Status = "past_due"
)

// Effective reports whether the status grants access to a paid plan.
func (s Status) Effective() bool {
	return s == StatusActive || s == StatusTrialing
}

// Money represents a monetary amount in the smallest currency unit.
// For example, $10.99 USD would be Amount: 1099, Currency: "USD".
type Money struct {
	Amount   int64  `json:"amount" yaml:"amount"`
	Currency string `json:"currency" yaml:"currency"`
}

// BillingInterval represents the billing frequency for a plan.
type BillingInterval string

const (
	BillingIntervalNone    BillingInterval = "none" // free plans with no billing
	BillingIntervalMonthly BillingInterval = "monthly"
	BillingIntervalAnnual  BillingInterval = "annual"
)

// Subscription is a read-only snapshot of the billing provider's subscription
// record for a user. The provider owns this record entirely; the service never
// caches it and re-fetches a fresh copy before every mutating decision.
type Subscription struct {
	ID                 string // provider's subscription ID
	ProductID          string // provider's price/product ID
	Status             Status
	CurrentPeriodStart time.Time // zero when unknown
	CurrentPeriodEnd   time.Time // zero when unknown
	CancelAtPeriodEnd  bool
	Amount             *Money // optional price snapshot
}

// CheckoutOptions carries caller-supplied redirect targets for a checkout session.
type CheckoutOptions struct {
	Email      string // pre-fill billing email if known
	SuccessURL string // redirect after successful payment
	CancelURL  string // redirect if customer abandons checkout
}
