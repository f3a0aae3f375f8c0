package support

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore returns a PostgreSQL-backed Store.
// Requires the support_requests table (see migrations).
func NewPgStore(pool *pgxpool.Pool) Store {
	if pool == nil {
		panic("support: pgx pool is required")
	}
	return &pgStore{pool: pool}
}

func (s *pgStore) Save(ctx context.Context, req *Request) error {
	const q = `INSERT INTO support_requests
		(id, name, email, type, category, subject, message, priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`

	_, err := s.pool.Exec(ctx, q,
		req.ID, req.Name, req.Email, string(req.Type), req.Category,
		req.Subject, req.Message, string(req.Priority), string(req.Status),
		req.CreatedAt, req.UpdatedAt,
	)
	return err
}

func (s *pgStore) Get(ctx context.Context, id uuid.UUID) (*Request, error) {
	const q = `SELECT id, name, email, type, category, subject, message, priority, status, created_at, updated_at
		FROM support_requests WHERE id = $1`

	var req Request
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&req.ID, &req.Name, &req.Email, &req.Type, &req.Category,
		&req.Subject, &req.Message, &req.Priority, &req.Status,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}
