// Package tags fills in missing artist genres from Last.fm tags.
package tags

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/justestif/go-music-oracle/internal/analysis"
	"github.com/justestif/go-music-oracle/internal/lastfm"
)

const (
	// DefaultConcurrency is the number of concurrent Last.fm lookups.
	DefaultConcurrency = 5
	// DefaultMaxGenres is the number of tags adopted as genres per artist.
	DefaultMaxGenres = 3
)

// TagFetcher abstracts the Last.fm client for testing.
type TagFetcher interface {
	ArtistTags(ctx context.Context, artist string) ([]lastfm.Tag, error)
}

// Service enriches artists using Last.fm as the tag source.
type Service struct {
	fetcher     TagFetcher
	concurrency int
	maxGenres   int
}

// Option configures a Service.
type Option func(*Service)

// WithConcurrency sets the number of concurrent tag fetch operations.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithMaxGenres sets how many tags become genres for each artist.
func WithMaxGenres(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxGenres = n
		}
	}
}

// NewService creates a new tag service.
func NewService(fetcher TagFetcher, opts ...Option) *Service {
	s := &Service{
		fetcher:     fetcher,
		concurrency: DefaultConcurrency,
		maxGenres:   DefaultMaxGenres,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnrichGenres returns a copy of artists in which every artist without
// Spotify genres carries its top Last.fm tags instead.
// Artists that already have genres are not looked up. A failed lookup
// leaves that artist without genres rather than failing the batch; only
// cancellation of ctx is reported as an error.
func (s *Service) EnrichGenres(ctx context.Context, artists []analysis.Artist) ([]analysis.Artist, error) {
	out := slices.Clone(artists)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range out {
		if len(out[i].Genres) > 0 {
			continue
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			tags, err := s.fetcher.ArtistTags(ctx, out[i].Name)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.Debug("artist tag lookup failed",
					slog.String("artist", out[i].Name),
					slog.Any("error", err),
				)
				return nil
			}

			out[i].Genres = s.genresFromTags(tags)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

// genresFromTags lowercases tag names and keeps the first maxGenres distinct ones.
func (s *Service) genresFromTags(tags []lastfm.Tag) []string {
	var genres []string
	for _, t := range tags {
		name := strings.ToLower(strings.TrimSpace(t.Name))
		if name == "" || slices.Contains(genres, name) {
			continue
		}
		genres = append(genres, name)
		if len(genres) == s.maxGenres {
			break
		}
	}
	return genres
}
