package db

import (
	"context"
	"fmt"
	"time"
)

const sessionColumns = "id, user_id, access_token, refresh_token, token_expiry, created_at, expires_at"

// Session queries are written with ? placeholders; conn implementations
// rewrite them for their engine.
const (
	insertSessionSQL         = `INSERT INTO sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	selectSessionSQL         = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ? AND expires_at > ?`
	deleteSessionSQL         = `DELETE FROM sessions WHERE id = ?`
	updateSessionTokenSQL    = `UPDATE sessions SET access_token = ?, refresh_token = ?, token_expiry = ? WHERE id = ?`
	deleteExpiredSessionsSQL = `DELETE FROM sessions WHERE expires_at <= ?`
	deleteUserSessionsSQL    = `DELETE FROM sessions WHERE user_id = ?`
)

// rowScanner is satisfied by pgx.Row and *sql.Row.
type rowScanner interface {
	Scan(dest ...any) error
}

// conn runs session queries against one database engine.
type conn interface {
	// exec runs a statement and returns the number of affected rows.
	exec(ctx context.Context, query string, args ...any) (int64, error)
	queryRow(ctx context.Context, query string, args ...any) rowScanner

	// timeArg encodes t as a query argument.
	timeArg(t time.Time) any
	// timeDest returns a scan destination that decodes into t.
	timeDest(t *time.Time) any
	// isNoRows reports whether err means a single-row query matched nothing.
	isNoRows(err error) bool
}

// sessionRepo stores sessions through a conn. Both the PostgreSQL and the
// SQLite store use it.
type sessionRepo struct {
	conn conn
	now  func() time.Time
}

var _ SessionRepository = (*sessionRepo)(nil)

// Create inserts a new session.
func (r *sessionRepo) Create(ctx context.Context, s *Session) error {
	_, err := r.conn.exec(ctx, insertSessionSQL,
		s.ID,
		s.UserID,
		s.AccessToken,
		s.RefreshToken,
		r.conn.timeArg(s.TokenExpiry),
		r.conn.timeArg(s.CreatedAt),
		r.conn.timeArg(s.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// Get retrieves an unexpired session by ID.
func (r *sessionRepo) Get(ctx context.Context, id string) (*Session, error) {
	row := r.conn.queryRow(ctx, selectSessionSQL, id, r.conn.timeArg(r.now()))
	return scanSession(row, r.conn)
}

// scanSession reads one sessions row in sessionColumns order.
// A missing row is reported as ErrNotFound.
func scanSession(row rowScanner, c conn) (*Session, error) {
	var s Session
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.AccessToken,
		&s.RefreshToken,
		c.timeDest(&s.TokenExpiry),
		c.timeDest(&s.CreatedAt),
		c.timeDest(&s.ExpiresAt),
	)
	if c.isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return &s, nil
}

// Delete removes a session by ID.
func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.conn.exec(ctx, deleteSessionSQL, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// UpdateToken replaces the OAuth tokens of a session after a refresh.
func (r *sessionRepo) UpdateToken(ctx context.Context, id, accessToken, refreshToken string, expiry time.Time) error {
	n, err := r.conn.exec(ctx, updateSessionTokenSQL, accessToken, refreshToken, r.conn.timeArg(expiry), id)
	if err != nil {
		return fmt.Errorf("updating session token: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpired removes all expired sessions and returns how many there were.
func (r *sessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	n, err := r.conn.exec(ctx, deleteExpiredSessionsSQL, r.conn.timeArg(r.now()))
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	return n, nil
}

// DeleteForUser removes all sessions of a user.
func (r *sessionRepo) DeleteForUser(ctx context.Context, userID string) error {
	if _, err := r.conn.exec(ctx, deleteUserSessionsSQL, userID); err != nil {
		return fmt.Errorf("deleting user sessions: %w", err)
	}
	return nil
}
