package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Customer links an application user to the billing provider's identifiers.
// This mapping is bookkeeping only: subscription state is never stored here,
// it is always re-fetched fresh from the provider.
type Customer struct {
	UserID             uuid.UUID // primary key - one billing customer per user
	ProviderCustomerID string    // provider's customer ID (ctm_xxx, cus_xxx)
	ProviderSubID      string    // provider's subscription ID, empty before first checkout
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CustomerStore persists the user to provider-identifier mapping,
// kept current by webhook events.
type CustomerStore interface {
	// Get retrieves the mapping for a user.
	// Returns ErrCustomerNotFound if no mapping exists.
	Get(ctx context.Context, userID uuid.UUID) (*Customer, error)

	// Save creates or updates a mapping, keyed by UserID.
	Save(ctx context.Context, customer *Customer) error
}
