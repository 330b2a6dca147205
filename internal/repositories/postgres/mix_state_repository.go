package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/freshmix/internal/models"
)

// MixStateRepository keeps one row per namespace in mix_state.
type MixStateRepository struct {
	pool      *pgxpool.Pool
	namespace string
}

func NewMixStateRepository(pool *pgxpool.Pool, namespace string) *MixStateRepository {
	return &MixStateRepository{pool: pool, namespace: namespace}
}

func (r *MixStateRepository) Load(ctx context.Context) (*models.MixState, error) {
	var state models.MixState
	err := r.pool.QueryRow(ctx,
		`SELECT state FROM mix_state WHERE namespace = $1`,
		r.namespace,
	).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load mix state %s: %w", r.namespace, err)
	}
	return &state, nil
}

func (r *MixStateRepository) Save(ctx context.Context, state models.MixState) error {
	query := `
        INSERT INTO mix_state (namespace, state, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (namespace) DO UPDATE
        SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at
    `
	_, err := r.pool.Exec(ctx, query, r.namespace, state)
	return err
}
