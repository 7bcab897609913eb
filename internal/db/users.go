package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUsers handles user rows in PostgreSQL.
type pgUsers struct {
	pool *pgxpool.Pool
}

// Get retrieves a user by ID.
func (r *pgUsers) Get(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, display_name, image_url, created_at, updated_at, last_reading_at
		FROM users
		WHERE id = $1
	`
	var user User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.DisplayName,
		&user.ImageURL,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastReadingAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &user, nil
}

// Upsert creates or updates a user and fills in its timestamps.
func (r *pgUsers) Upsert(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, display_name, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			image_url = EXCLUDED.image_url,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.DisplayName,
		user.ImageURL,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	return nil
}

// UpdateLastReading records when the user last received a profile reading.
func (r *pgUsers) UpdateLastReading(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE users
		SET last_reading_at = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("updating last reading: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
