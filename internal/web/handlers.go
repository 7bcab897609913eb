package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/justestif/go-music-oracle/internal/analysis"
	"github.com/justestif/go-music-oracle/internal/auth"
	"github.com/justestif/go-music-oracle/internal/db"
	"github.com/justestif/go-music-oracle/internal/logging"
	"github.com/justestif/go-music-oracle/internal/readings"
	"github.com/justestif/go-music-oracle/internal/spotify"
)

const (
	stateCookieName    = "oauth_state"
	verifierCookieName = "oauth_verifier"
	oauthCookieMaxAge  = 300 // 5 minutes

	appTitle = "Oráculo Musical"

	incompleteProfileMessage = "No pudimos leer tu perfil: Spotify no devolvió análisis de audio para tus canciones. Inténtalo de nuevo en unos minutos."
	noFeaturesMessage        = "Spotify no tiene análisis de audio para esta canción. Prueba con otra."
)

// Authenticator runs the browser side of the Spotify OAuth flow.
type Authenticator interface {
	AuthURL(state, verifier string) string
	Exchange(ctx context.Context, r *http.Request, state, verifier string) (*oauth2.Token, error)
}

var _ Authenticator = (*auth.OAuth)(nil)

// MusicClient is the Spotify access a signed-in session needs.
type MusicClient interface {
	readings.MusicSource
	CurrentUser(ctx context.Context) (spotify.User, error)
	SearchTracks(ctx context.Context, query string, limit int) ([]analysis.Track, error)
	Token() (*oauth2.Token, error)
}

var _ MusicClient = (*spotify.Client)(nil)

// ClientFactory creates a MusicClient that authenticates with token.
type ClientFactory func(ctx context.Context, token *oauth2.Token) MusicClient

// ReadingService builds readings from a listener's data.
type ReadingService interface {
	ReadProfile(ctx context.Context, src readings.MusicSource) (*readings.ProfileReading, error)
	ReadTrack(ctx context.Context, src readings.MusicSource, trackID string) (*readings.TrackReading, error)
}

var _ ReadingService = (*readings.Service)(nil)

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	auth      Authenticator
	sessions  SessionManager
	templates *Templates
	readings  ReadingService
	store     *ReadingStore
	users     db.UserRepository // nil with in-memory sessions
	newClient ClientFactory
}

// NewHandlers creates a new Handlers instance. users may be nil.
func NewHandlers(
	authenticator Authenticator,
	sessions SessionManager,
	templates *Templates,
	readingService ReadingService,
	store *ReadingStore,
	users db.UserRepository,
	newClient ClientFactory,
) *Handlers {
	return &Handlers{
		auth:      authenticator,
		sessions:  sessions,
		templates: templates,
		readings:  readingService,
		store:     store,
		users:     users,
		newClient: newClient,
	}
}

type sessionKey struct{}

// requireSession redirects to the landing page unless the request carries
// a valid session, which it then stores in the request context.
func (h *Handlers) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := h.sessions.GetFromRequest(r)
		if session == nil {
			redirect(w, r, "/")
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(ctx context.Context) *Session {
	session, _ := ctx.Value(sessionKey{}).(*Session)
	return session
}

// Home handles the landing page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.renderHome(w, r, http.StatusOK, nil)
}

func (h *Handlers) renderHome(w http.ResponseWriter, r *http.Request, status int, flash *FlashMessage) {
	session := h.sessions.GetFromRequest(r)

	data := HomePageData{
		PageData:      h.pageData(r, session, appTitle),
		Authenticated: session != nil,
	}
	data.Flash = flash

	h.render(w, status, "home", data)
}

// Login initiates the Spotify OAuth flow (GET /auth/login).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	state, err := auth.GenerateState()
	if err != nil {
		logging.Error(r.Context(), "generating oauth state", err)
		http.Error(w, "Failed to generate state", http.StatusInternalServerError)
		return
	}
	verifier := auth.GenerateVerifier()

	setOAuthCookie(w, stateCookieName, state)
	setOAuthCookie(w, verifierCookieName, verifier)

	http.Redirect(w, r, h.auth.AuthURL(state, verifier), http.StatusTemporaryRedirect)
}

// Callback handles the OAuth callback from Spotify (GET /callback).
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil {
		http.Error(w, "Missing state cookie", http.StatusBadRequest)
		return
	}
	verifierCookie, err := r.Cookie(verifierCookieName)
	if err != nil {
		http.Error(w, "Missing verifier cookie", http.StatusBadRequest)
		return
	}

	clearOAuthCookie(w, stateCookieName)
	clearOAuthCookie(w, verifierCookieName)

	ctx := r.Context()
	token, err := h.auth.Exchange(ctx, r, stateCookie.Value, verifierCookie.Value)
	if errors.Is(err, auth.ErrStateMismatch) {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		return
	}
	if err != nil {
		logging.Error(ctx, "exchanging oauth code", err)
		http.Error(w, "Failed to get token", http.StatusBadRequest)
		return
	}

	user, err := h.newClient(ctx, token).CurrentUser(ctx)
	if err != nil {
		logging.Error(ctx, "fetching spotify user", err)
		http.Error(w, "Failed to get user info", http.StatusBadGateway)
		return
	}

	if h.users != nil {
		record := &db.User{ID: user.ID, DisplayName: user.DisplayName, ImageURL: user.ImageURL}
		if err := h.users.Upsert(ctx, record); err != nil {
			logging.Error(ctx, "saving user", err, slog.String("user_id", user.ID))
			http.Error(w, "Failed to save user", http.StatusInternalServerError)
			return
		}
	}

	session, err := h.sessions.Create(ctx, token, user.ID, user.DisplayName)
	if err != nil {
		logging.Error(ctx, "creating session", err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	slog.Info("listener signed in", slog.String("user_id", user.ID))

	h.sessions.SetCookie(w, session)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the session and its readings (POST /auth/logout).
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if session := h.sessions.GetFromRequest(r); session != nil {
		h.sessions.Delete(r.Context(), session.ID)
		h.store.DeleteOwner(session.ID)
	}

	h.sessions.ClearCookie(w)
	redirect(w, r, "/")
}

// Search returns the track search results fragment (GET /search?q=).
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	data := SearchResultsData{Query: query}

	client := h.newClient(r.Context(), session.Token)
	tracks, err := client.SearchTracks(r.Context(), query, spotify.DefaultSearchLimit)
	if err != nil {
		logging.Error(r.Context(), "searching tracks", err, slog.String("query", query))
		data.Error = "La búsqueda falló. Inténtalo de nuevo."
	}
	data.Tracks = tracks
	h.saveRefreshedToken(r.Context(), session, client)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.RenderPartial(w, "search_results", data); err != nil {
		logging.Error(r.Context(), "rendering search results", err)
	}
}

// ReadProfile builds a profile reading (POST /readings/profile).
func (h *Handlers) ReadProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := sessionFrom(ctx)
	client := h.newClient(ctx, session.Token)

	reading, err := h.readings.ReadProfile(ctx, client)
	h.saveRefreshedToken(ctx, session, client)

	var incomplete *analysis.IncompleteProfileError
	switch {
	case errors.As(err, &incomplete):
		slog.Warn("incomplete profile", slog.String("user_id", session.UserID), slog.Int("tracks", incomplete.Tracks))
		h.renderHome(w, r, http.StatusUnprocessableEntity, &FlashMessage{Type: "warning", Message: incompleteProfileMessage})
		return
	case err != nil:
		logging.Error(ctx, "reading profile", err, slog.String("user_id", session.UserID))
		h.renderError(w, r, http.StatusBadGateway, "El oráculo no pudo contactar a Spotify. Inténtalo de nuevo.")
		return
	}

	h.store.SaveProfile(session.ID, reading)
	if h.users != nil {
		if err := h.users.UpdateLastReading(ctx, session.UserID, reading.CreatedAt); err != nil {
			logging.Error(ctx, "recording last reading", err, slog.String("user_id", session.UserID))
		}
	}

	redirect(w, r, "/readings/"+reading.ID.String())
}

// ReadTrack builds a single-track reading (POST /readings/tracks/{trackID}).
func (h *Handlers) ReadTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := sessionFrom(ctx)
	trackID := chi.URLParam(r, "trackID")
	client := h.newClient(ctx, session.Token)

	reading, err := h.readings.ReadTrack(ctx, client, trackID)
	h.saveRefreshedToken(ctx, session, client)

	switch {
	case errors.Is(err, spotify.ErrNoFeatures):
		h.renderHome(w, r, http.StatusUnprocessableEntity, &FlashMessage{Type: "warning", Message: noFeaturesMessage})
		return
	case err != nil:
		logging.Error(ctx, "reading track", err, slog.String("track_id", trackID))
		h.renderError(w, r, http.StatusBadGateway, "El oráculo no pudo leer esta canción. Inténtalo de nuevo.")
		return
	}

	h.store.SaveTrack(session.ID, reading)
	redirect(w, r, "/readings/"+reading.ID.String())
}

// ShowReading renders a stored reading (GET /readings/{id}).
func (h *Handlers) ShowReading(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, r, http.StatusNotFound, "Esta lectura no existe.")
		return
	}

	entry, ok := h.store.Get(session.ID, id)
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Esta lectura no existe o ya se desvaneció.")
		return
	}

	if entry.Profile != nil {
		h.render(w, http.StatusOK, "profile", ProfilePageData{
			PageData: h.pageData(r, session, entry.Profile.Narrative.Title),
			Reading:  entry.Profile,
		})
		return
	}

	h.render(w, http.StatusOK, "track", TrackPageData{
		PageData: h.pageData(r, session, entry.Track.Title),
		Reading:  entry.Track,
	})
}

// Healthz reports liveness (GET /healthz).
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// ============================================================================
// Helpers
// ============================================================================

func (h *Handlers) pageData(r *http.Request, session *Session, title string) PageData {
	data := PageData{
		Title:       title,
		CurrentPath: r.URL.Path,
	}
	if session != nil {
		data.User = &UserData{ID: session.UserID, Name: session.UserName}
	}
	return data
}

func (h *Handlers) render(w http.ResponseWriter, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, page, data); err != nil {
		slog.Error("rendering template", slog.String("page", page), slog.Any("error", err))
	}
}

func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, status, "error", HomePageData{
		PageData: PageData{
			Title:       appTitle,
			User:        h.pageData(r, sessionFrom(r.Context()), "").User,
			Flash:       &FlashMessage{Type: "error", Message: message},
			CurrentPath: r.URL.Path,
		},
	})
}

// saveRefreshedToken stores the client's token if the OAuth transport
// refreshed it during the request.
func (h *Handlers) saveRefreshedToken(ctx context.Context, session *Session, client MusicClient) {
	token, err := client.Token()
	if err != nil || token == nil || session.Token == nil {
		return
	}
	if token.AccessToken != session.Token.AccessToken {
		h.sessions.UpdateToken(ctx, session.ID, token)
	}
}

// redirect sends a See Other redirect, or an HX-Redirect header when the
// request came from htmx.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func setOAuthCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   oauthCookieMaxAge,
	})
}

func clearOAuthCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
