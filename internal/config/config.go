// Package config reads application settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/justestif/go-music-oracle/internal/auth"
	"github.com/justestif/go-music-oracle/internal/db"
	"github.com/justestif/go-music-oracle/internal/logging"
)

// Session drivers.
const (
	SessionMemory   = "memory"
	SessionPostgres = db.DriverPostgres
	SessionSQLite   = db.DriverSQLite
)

const (
	DefaultAddr        = "127.0.0.1:8080"
	DefaultRedirectURI = "http://127.0.0.1:8080/callback"
	DefaultSQLitePath  = "music-oracle.db"
)

var (
	// ErrMissingClientID is returned when SPOTIFY_ID is not set.
	ErrMissingClientID = auth.ErrMissingClientID

	// ErrUnknownSessionDriver is returned for an unsupported SESSION_DRIVER.
	ErrUnknownSessionDriver = errors.New("unknown session driver")

	// ErrMissingDatabaseURL is returned when the postgres driver has no DATABASE_URL.
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres session driver")
)

// Config holds all application settings.
type Config struct {
	Spotify auth.Credentials
	Addr    string

	SessionDriver string
	DatabaseURL   string

	LastFMAPIKey string
	VeniceAPIKey string
	VeniceModel  string
	GeminiAPIKey string
	GeminiModel  string

	LogLevel slog.Level
}

// Load reads the given .env files (".env" when none are named) into the
// process environment and builds the configuration from it. Missing files
// are ignored; variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds and validates the configuration using getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Spotify: auth.Credentials{
			ClientID:     get("SPOTIFY_ID", ""),
			ClientSecret: get("SPOTIFY_SECRET", ""),
			RedirectURL:  get("SPOTIFY_REDIRECT_URI", DefaultRedirectURI),
		},
		Addr:          get("ADDR", DefaultAddr),
		SessionDriver: strings.ToLower(get("SESSION_DRIVER", SessionMemory)),
		DatabaseURL:   get("DATABASE_URL", ""),
		LastFMAPIKey:  get("LASTFM_API_KEY", ""),
		VeniceAPIKey:  get("VENICE_API_KEY", ""),
		VeniceModel:   get("VENICE_MODEL", ""),
		GeminiAPIKey:  get("GEMINI_API_KEY", ""),
		GeminiModel:   get("GEMINI_MODEL", ""),
		LogLevel:      logging.ParseLevel(getenv("LOG_LEVEL")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Spotify.ClientID == "" {
		return ErrMissingClientID
	}

	switch c.SessionDriver {
	case SessionMemory:
	case SessionPostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	case SessionSQLite:
		if c.DatabaseURL == "" {
			c.DatabaseURL = DefaultSQLitePath
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSessionDriver, c.SessionDriver)
	}
	return nil
}

// UsesDatabase reports whether sessions are stored in a database.
func (c *Config) UsesDatabase() bool {
	return c.SessionDriver != SessionMemory
}
