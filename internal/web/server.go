package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/justestif/go-music-oracle/internal/db"
)

// pruneInterval is how often expired sessions and readings are dropped.
const pruneInterval = 10 * time.Minute

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr        string
	Auth        Authenticator
	Sessions    SessionManager
	Readings    ReadingService
	Users       db.UserRepository // optional
	NewClient   ClientFactory
	TemplatesFS fs.FS
	StaticFS    fs.FS
}

// Server is the HTTP server for the web application.
type Server struct {
	router   chi.Router
	server   *http.Server
	sessions SessionManager
	store    *ReadingStore
	handlers *Handlers
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Auth == nil || cfg.Sessions == nil || cfg.Readings == nil || cfg.NewClient == nil {
		return nil, errors.New("server config is missing a dependency")
	}

	templates, err := NewTemplates(cfg.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	store := NewReadingStore()
	handlers := NewHandlers(cfg.Auth, cfg.Sessions, templates, cfg.Readings, store, cfg.Users, cfg.NewClient)

	s := &Server{
		router:   chi.NewRouter(),
		sessions: cfg.Sessions,
		store:    store,
		handlers: handlers,
	}

	s.setupMiddleware()
	s.setupRoutes(cfg.StaticFS)

	// Readings call Spotify and the LLM providers, so writes get more time
	// than the usual page render.
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes(staticFS fs.FS) {
	if staticFS != nil {
		fileServer := http.FileServer(http.FS(staticFS))
		s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	s.router.Get("/", s.handlers.Home)
	s.router.Get("/healthz", s.handlers.Healthz)

	s.router.Get("/auth/login", s.handlers.Login)
	s.router.Get("/callback", s.handlers.Callback)
	s.router.Post("/auth/logout", s.handlers.Logout)

	s.router.Group(func(r chi.Router) {
		r.Use(s.handlers.requireSession)

		r.Get("/search", s.handlers.Search)
		r.Post("/readings/profile", s.handlers.ReadProfile)
		r.Post("/readings/tracks/{trackID}", s.handlers.ReadTrack)
		r.Get("/readings/{id}", s.handlers.ShowReading)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	slog.Info("starting server", slog.String("url", "http://"+s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// prune drops expired sessions and readings.
func (s *Server) prune(ctx context.Context) {
	sessions := s.sessions.Prune(ctx)
	readings := s.store.Prune()
	if sessions > 0 || readings > 0 {
		slog.Debug("pruned expired state", slog.Int("sessions", sessions), slog.Int("readings", readings))
	}
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

loop:
	for {
		select {
		case err := <-errCh:
			return err
		case <-ticker.C:
			s.prune(ctx)
		case <-ctx.Done():
			slog.Info("shutting down server")
			break loop
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
