package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

// Timestamps are stored as Unix milliseconds so comparisons are numeric.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id              TEXT PRIMARY KEY,
	display_name    TEXT NOT NULL,
	image_url       TEXT NOT NULL DEFAULT '',
	created_at      INTEGER NOT NULL,
	updated_at      INTEGER NOT NULL,
	last_reading_at INTEGER
);

CREATE TABLE IF NOT EXISTS sessions (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	access_token  TEXT NOT NULL,
	refresh_token TEXT NOT NULL,
	token_expiry  INTEGER NOT NULL,
	created_at    INTEGER NOT NULL,
	expires_at    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS sessions_user_id_idx ON sessions (user_id);
CREATE INDEX IF NOT EXISTS sessions_expires_at_idx ON sessions (expires_at);
`

// SQLite is a single-file database for local use.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (or creates) the database file at path and ensures the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// One writer avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	s := &SQLite{db: db, now: time.Now}
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the users and sessions tables if they are missing.
func (s *SQLite) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Users returns the user repository.
func (s *SQLite) Users() UserRepository {
	return &sqliteUsers{db: s.db, now: s.now}
}

// Sessions returns the session repository.
func (s *SQLite) Sessions() SessionRepository {
	return &sessionRepo{conn: sqliteConn{db: s.db}, now: s.now}
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// ============================================================================
// Users
// ============================================================================

type sqliteUsers struct {
	db  *sql.DB
	now func() time.Time
}

func (r *sqliteUsers) Get(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, display_name, image_url, created_at, updated_at, last_reading_at
		FROM users
		WHERE id = ?
	`, id)

	var (
		user             User
		created, updated int64
		lastReading      sql.NullInt64
	)
	err := row.Scan(&user.ID, &user.DisplayName, &user.ImageURL, &created, &updated, &lastReading)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	user.CreatedAt = fromMillis(created)
	user.UpdatedAt = fromMillis(updated)
	if lastReading.Valid {
		t := fromMillis(lastReading.Int64)
		user.LastReadingAt = &t
	}
	return &user, nil
}

func (r *sqliteUsers) Upsert(ctx context.Context, user *User) error {
	now := toMillis(r.now())
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, display_name, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			display_name = excluded.display_name,
			image_url = excluded.image_url,
			updated_at = excluded.updated_at
		RETURNING created_at, updated_at
	`, user.ID, user.DisplayName, user.ImageURL, now, now)

	var created, updated int64
	if err := row.Scan(&created, &updated); err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	user.CreatedAt = fromMillis(created)
	user.UpdatedAt = fromMillis(updated)
	return nil
}

func (r *sqliteUsers) UpdateLastReading(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET last_reading_at = ?, updated_at = ?
		WHERE id = ?
	`, toMillis(at), toMillis(r.now()), id)
	if err != nil {
		return fmt.Errorf("updating last reading: %w", err)
	}
	return requireRow(result)
}

// ============================================================================
// Sessions
// ============================================================================

// sqliteConn runs session queries on database/sql. Times are stored as
// Unix milliseconds.
type sqliteConn struct {
	db *sql.DB
}

func (c sqliteConn) exec(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (c sqliteConn) queryRow(ctx context.Context, query string, args ...any) rowScanner {
	return c.db.QueryRowContext(ctx, query, args...)
}

func (sqliteConn) timeArg(t time.Time) any { return toMillis(t) }

func (sqliteConn) timeDest(t *time.Time) any { return millisTime{t: t} }

func (sqliteConn) isNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }

// millisTime scans an INTEGER millisecond column into a time.Time.
type millisTime struct {
	t *time.Time
}

func (m millisTime) Scan(src any) error {
	ms, ok := src.(int64)
	if !ok {
		return fmt.Errorf("scanning millisecond time: unexpected %T", src)
	}
	*m.t = fromMillis(ms)
	return nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("counting affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
