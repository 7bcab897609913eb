// Command music-oracle runs the Music Oracle web application, or reads a
// listener's profile from the terminal.
//
// Usage:
//
//	music-oracle [serve] [-addr host:port]
//	music-oracle read [-track ID] [-logout]
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/oauth2"

	"github.com/justestif/go-music-oracle/internal/auth"
	"github.com/justestif/go-music-oracle/internal/config"
	"github.com/justestif/go-music-oracle/internal/db"
	"github.com/justestif/go-music-oracle/internal/lastfm"
	"github.com/justestif/go-music-oracle/internal/logging"
	"github.com/justestif/go-music-oracle/internal/oracle"
	"github.com/justestif/go-music-oracle/internal/readings"
	"github.com/justestif/go-music-oracle/internal/spotify"
	"github.com/justestif/go-music-oracle/internal/tags"
	"github.com/justestif/go-music-oracle/internal/web"
	webfs "github.com/justestif/go-music-oracle/web"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logging.Setup(os.Stderr, cfg.LogLevel)

	cmd := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		return serve(cfg, args)
	case "read":
		return read(cfg, args)
	default:
		return fmt.Errorf("unknown command %q (expected serve or read)", cmd)
	}
}

func serve(cfg *config.Config, args []string) error {
	serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := serveCmd.String("addr", cfg.Addr, "Address to listen on")
	serveCmd.Parse(args)

	ctx := context.Background()

	oauth, err := auth.NewOAuth(cfg.Spotify)
	if err != nil {
		return err
	}

	var (
		sessions web.SessionManager
		users    db.UserRepository
	)
	if cfg.UsesDatabase() {
		store, err := db.Open(ctx, cfg.SessionDriver, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("opening session database: %w", err)
		}
		defer store.Close()

		sessions = web.NewDBSessionStore(store)
		users = store.Users()
		slog.Info("using database sessions", slog.String("driver", cfg.SessionDriver))
	} else {
		sessions = web.NewSessionStore()
	}

	service, err := newReadingService(ctx, cfg)
	if err != nil {
		return err
	}

	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	server, err := web.NewServer(web.ServerConfig{
		Addr:     *addr,
		Auth:     oauth,
		Sessions: sessions,
		Readings: service,
		Users:    users,
		NewClient: func(ctx context.Context, token *oauth2.Token) web.MusicClient {
			return spotify.New(oauth.Client(ctx, token))
		},
		TemplatesFS: templates,
		StaticFS:    static,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}

func read(cfg *config.Config, args []string) error {
	readCmd := flag.NewFlagSet("read", flag.ExitOnError)
	trackID := readCmd.String("track", "", "Spotify track ID to read instead of your profile")
	logout := readCmd.Bool("logout", false, "Forget the cached Spotify token")
	readCmd.Parse(args)

	authenticator, err := auth.New(cfg.Spotify)
	if err != nil {
		return fmt.Errorf("creating authenticator: %w", err)
	}

	if *logout {
		if err := authenticator.Logout(); err != nil {
			return fmt.Errorf("logging out: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	api, err := authenticator.Authenticate(ctx)
	if err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}
	client := spotify.New(api)

	service, err := newReadingService(ctx, cfg)
	if err != nil {
		return err
	}

	if *trackID != "" {
		reading, err := service.ReadTrack(ctx, client, *trackID)
		if err != nil {
			return err
		}
		fmt.Println(renderTrackCard(reading))
		return nil
	}

	fmt.Println("Consulting the oracle...")
	reading, err := service.ReadProfile(ctx, client)
	if err != nil {
		return err
	}
	fmt.Println(renderProfileCard(reading))
	return nil
}

// newReadingService wires the optional Last.fm, Venice and Gemini clients.
// Missing API keys disable the matching feature.
func newReadingService(ctx context.Context, cfg *config.Config) (*readings.Service, error) {
	var oracleOpts []oracle.Option

	if cfg.VeniceAPIKey != "" {
		venice := oracle.NewVeniceClient(cfg.VeniceAPIKey, oracle.WithVeniceModel(cfg.VeniceModel))
		oracleOpts = append(oracleOpts, oracle.WithProfileCompleter(venice))
	} else {
		slog.Warn("VENICE_API_KEY not set, profile readings use the offline oracle")
	}

	if cfg.GeminiAPIKey != "" {
		gemini, err := oracle.NewGeminiClient(ctx, cfg.GeminiAPIKey, oracle.WithGeminiModel(cfg.GeminiModel))
		if err != nil {
			return nil, err
		}
		oracleOpts = append(oracleOpts, oracle.WithTrackCompleter(gemini))
	} else {
		slog.Warn("GEMINI_API_KEY not set, track readings use the offline oracle")
	}

	var opts []readings.Option
	if cfg.LastFMAPIKey != "" {
		enricher := tags.NewService(lastfm.NewClient(cfg.LastFMAPIKey))
		opts = append(opts, readings.WithGenreEnricher(enricher))
	}

	return readings.New(oracle.NewService(oracleOpts...), opts...), nil
}
