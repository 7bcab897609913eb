package db

import "time"

// User is a Spotify listener who has signed in.
type User struct {
	ID            string
	DisplayName   string
	ImageURL      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	LastReadingAt *time.Time // nullable
}

// Session is an authenticated web session with its OAuth tokens.
type Session struct {
	ID           string
	UserID       string
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
