package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/justestif/go-music-oracle/internal/db"
	"github.com/justestif/go-music-oracle/internal/logging"
)

const (
	sessionCookieName = "session_id"
	sessionTTL        = 24 * time.Hour
)

// Session represents an authenticated listener.
type Session struct {
	ID        string
	Token     *oauth2.Token
	UserID    string
	UserName  string
	CreatedAt time.Time
}

// SessionManager defines the interface for session management.
type SessionManager interface {
	Create(ctx context.Context, token *oauth2.Token, userID, userName string) (*Session, error)
	Get(ctx context.Context, id string) *Session
	Delete(ctx context.Context, id string)
	UpdateToken(ctx context.Context, id string, token *oauth2.Token)
	Prune(ctx context.Context) int
	GetFromRequest(r *http.Request) *Session
	SetCookie(w http.ResponseWriter, session *Session)
	ClearCookie(w http.ResponseWriter)
}

// ============================================================================
// In-Memory Session Store
// ============================================================================

// SessionStore keeps sessions in memory. They do not survive a restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create generates a new session with the given token and user info.
func (s *SessionStore) Create(_ context.Context, token *oauth2.Token, userID, userName string) (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:        id,
		Token:     token,
		UserID:    userID,
		UserName:  userName,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	return session, nil
}

// Get retrieves an unexpired session by ID.
func (s *SessionStore) Get(_ context.Context, id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || s.expired(session) {
		return nil
	}
	return session
}

func (s *SessionStore) expired(session *Session) bool {
	return s.now().Sub(session.CreatedAt) > sessionTTL
}

// Delete removes a session by ID.
func (s *SessionStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// UpdateToken replaces the OAuth token of a session.
func (s *SessionStore) UpdateToken(_ context.Context, id string, token *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[id]; ok {
		session.Token = token
	}
}

// Prune drops expired sessions and returns how many were removed.
func (s *SessionStore) Prune(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// GetFromRequest extracts the session from the request cookie.
func (s *SessionStore) GetFromRequest(r *http.Request) *Session {
	return sessionFromCookie(r, s)
}

// SetCookie sets the session cookie on the response.
func (s *SessionStore) SetCookie(w http.ResponseWriter, session *Session) {
	setCookie(w, session)
}

// ClearCookie removes the session cookie from the response.
func (s *SessionStore) ClearCookie(w http.ResponseWriter) {
	clearCookie(w)
}

// ============================================================================
// Database-Backed Session Store
// ============================================================================

// DBSessionStore keeps sessions in PostgreSQL or SQLite. The session's user
// must already exist in the users table.
type DBSessionStore struct {
	store db.Store
	now   func() time.Time
}

// NewDBSessionStore creates a new database-backed session store.
func NewDBSessionStore(store db.Store) *DBSessionStore {
	return &DBSessionStore{store: store, now: time.Now}
}

// Create generates a new session and stores it in the database.
func (s *DBSessionStore) Create(ctx context.Context, token *oauth2.Token, userID, userName string) (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := &db.Session{
		ID:           id,
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
		CreatedAt:    now,
		ExpiresAt:    now.Add(sessionTTL),
	}

	if err := s.store.Sessions().Create(ctx, record); err != nil {
		return nil, err
	}

	return &Session{
		ID:        id,
		Token:     token,
		UserID:    userID,
		UserName:  userName,
		CreatedAt: now,
	}, nil
}

// Get retrieves a session by ID from the database.
func (s *DBSessionStore) Get(ctx context.Context, id string) *Session {
	record, err := s.store.Sessions().Get(ctx, id)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			logging.Error(ctx, "loading session", err)
		}
		return nil
	}

	user, err := s.store.Users().Get(ctx, record.UserID)
	if err != nil {
		logging.Error(ctx, "loading session user", err, slog.String("user_id", record.UserID))
		return nil
	}

	return &Session{
		ID: record.ID,
		Token: &oauth2.Token{
			AccessToken:  record.AccessToken,
			RefreshToken: record.RefreshToken,
			Expiry:       record.TokenExpiry,
			TokenType:    "Bearer",
		},
		UserID:    record.UserID,
		UserName:  user.DisplayName,
		CreatedAt: record.CreatedAt,
	}
}

// Delete removes a session from the database.
func (s *DBSessionStore) Delete(ctx context.Context, id string) {
	if err := s.store.Sessions().Delete(ctx, id); err != nil {
		logging.Error(ctx, "deleting session", err)
	}
}

// UpdateToken stores a refreshed OAuth token for a session.
func (s *DBSessionStore) UpdateToken(ctx context.Context, id string, token *oauth2.Token) {
	err := s.store.Sessions().UpdateToken(ctx, id, token.AccessToken, token.RefreshToken, token.Expiry)
	if err != nil {
		logging.Error(ctx, "updating session token", err)
	}
}

// Prune deletes expired sessions and returns how many were removed.
func (s *DBSessionStore) Prune(ctx context.Context) int {
	n, err := s.store.Sessions().DeleteExpired(ctx)
	if err != nil {
		logging.Error(ctx, "pruning sessions", err)
		return 0
	}
	return int(n)
}

// GetFromRequest extracts the session from the request cookie.
func (s *DBSessionStore) GetFromRequest(r *http.Request) *Session {
	return sessionFromCookie(r, s)
}

// SetCookie sets the session cookie on the response.
func (s *DBSessionStore) SetCookie(w http.ResponseWriter, session *Session) {
	setCookie(w, session)
}

// ClearCookie removes the session cookie from the response.
func (s *DBSessionStore) ClearCookie(w http.ResponseWriter) {
	clearCookie(w)
}

// ============================================================================
// Helper Functions
// ============================================================================

// generateSessionID creates a cryptographically random session ID.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func sessionFromCookie(r *http.Request, sm SessionManager) *Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	return sm.Get(r.Context(), cookie.Value)
}

// setCookie sets the session cookie on the response.
func setCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL.Seconds()),
	})
}

// clearCookie removes the session cookie from the response.
func clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// Ensure both stores implement SessionManager.
var (
	_ SessionManager = (*SessionStore)(nil)
	_ SessionManager = (*DBSessionStore)(nil)
)
