package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore returns a PostgreSQL-backed CustomerStore.
// Requires the billing_customers table (see migrations).
func NewPgStore(pool *pgxpool.Pool) CustomerStore {
	if pool == nil {
		panic("subscription: pgx pool is required")
	}
	return &pgStore{pool: pool}
}

func (s *pgStore) Get(ctx context.Context, userID uuid.UUID) (*Customer, error) {
	const q = `SELECT user_id, provider_customer_id, provider_sub_id, created_at, updated_at
		FROM billing_customers WHERE user_id = $1`

	var c Customer
	err := s.pool.QueryRow(ctx, q, userID).Scan(
		&c.UserID,
		&c.ProviderCustomerID,
		&c.ProviderSubID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, errors.Join(ErrSubscriptionLookup, err)
	}
	return &c, nil
}

func (s *pgStore) Save(ctx context.Context, customer *Customer) error {
	const q = `INSERT INTO billing_customers (user_id, provider_customer_id, provider_sub_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			provider_customer_id = EXCLUDED.provider_customer_id,
			provider_sub_id = EXCLUDED.provider_sub_id,
			updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	createdAt := customer.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err := s.pool.Exec(ctx, q,
		customer.UserID,
		customer.ProviderCustomerID,
		customer.ProviderSubID,
		createdAt,
		now,
	)
	return err
}
