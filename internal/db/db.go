// Package db stores listeners and their web sessions in PostgreSQL or SQLite.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Common errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnknownDriver = errors.New("unknown database driver")
)

// UserRepository handles user records.
type UserRepository interface {
	Upsert(ctx context.Context, user *User) error
	Get(ctx context.Context, id string) (*User, error)
	UpdateLastReading(ctx context.Context, id string, at time.Time) error
}

// SessionRepository handles web session records.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	UpdateToken(ctx context.Context, id, accessToken, refreshToken string, expiry time.Time) error
	DeleteExpired(ctx context.Context) (int64, error)
	DeleteForUser(ctx context.Context, userID string) error
}

// Store is an open database.
type Store interface {
	Users() UserRepository
	Sessions() SessionRepository
	Close() error
}

// Open connects to the database named by driver and dsn and creates the
// schema if it is missing.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverPostgres:
		return OpenPostgres(ctx, dsn)
	case DriverSQLite:
		return OpenSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
