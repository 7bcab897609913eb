package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id              TEXT PRIMARY KEY,
	display_name    TEXT NOT NULL,
	image_url       TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL,
	last_reading_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS sessions (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	access_token  TEXT NOT NULL,
	refresh_token TEXT NOT NULL,
	token_expiry  TIMESTAMPTZ NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	expires_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS sessions_user_id_idx ON sessions (user_id);
CREATE INDEX IF NOT EXISTS sessions_expires_at_idx ON sessions (expires_at);
`

// Postgres wraps a PostgreSQL connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// OpenPostgres creates a connection pool, verifies it and ensures the schema.
func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// EnsureSchema creates the users and sessions tables if they are missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// Users returns the user repository.
func (p *Postgres) Users() UserRepository {
	return &pgUsers{pool: p.pool}
}

// Sessions returns the session repository.
func (p *Postgres) Sessions() SessionRepository {
	return &sessionRepo{conn: pgConn{pool: p.pool}, now: time.Now}
}

// pgConn runs session queries on a pgx pool.
type pgConn struct {
	pool *pgxpool.Pool
}

func (c pgConn) exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := c.pool.Exec(ctx, rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (c pgConn) queryRow(ctx context.Context, query string, args ...any) rowScanner {
	return c.pool.QueryRow(ctx, rebind(query), args...)
}

func (pgConn) timeArg(t time.Time) any { return t }

func (pgConn) timeDest(t *time.Time) any { return t }

func (pgConn) isNoRows(err error) bool { return errors.Is(err, pgx.ErrNoRows) }

// rebind rewrites ? placeholders as $1, $2, ... in order.
func rebind(query string) string {
	var sb strings.Builder
	sb.Grow(len(query) + 8)

	n := 0
	for _, r := range query {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}
		n++
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(n))
	}
	return sb.String()
}
