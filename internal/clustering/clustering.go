// Package clustering groups a listener's top tracks into mood constellations
// using k-means over their audio features.
package clustering

import (
	"log/slog"
	"slices"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/justestif/go-music-oracle/internal/analysis"
)

// Config holds constellation clustering parameters.
type Config struct {
	NumClusters    int // Number of clusters to create (default: 3)
	MinClusterSize int // Minimum tracks per constellation (smaller clusters become outliers)
}

// DefaultConfig returns the recommended default configuration.
func DefaultConfig() Config {
	return Config{
		NumClusters:    3,
		MinClusterSize: 3,
	}
}

// Member is a track together with its audio features.
type Member struct {
	Track    analysis.Track
	Features analysis.AudioFeatures
}

// Centroid holds the average clustering features of a constellation.
type Centroid struct {
	Energy       float64
	Valence      float64
	Danceability float64
	Acousticness float64
}

// Constellation is a group of tracks with a similar mood.
type Constellation struct {
	Name      string // Display name: "Agua (Acústico)"
	Archetype analysis.Archetype
	Centroid  Centroid
	Members   []Member
}

// memberObservation wraps a Member to implement clusters.Observation.
type memberObservation struct {
	member *Member
	coords clusters.Coordinates
}

func (o memberObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o memberObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Constellations partitions tracks by audio feature similarity.
// features must be index-aligned with tracks; tracks with nil features are
// returned as outliers together with members of undersized clusters.
//
// k-means seeds its centroids randomly, so membership can vary between runs.
// Constellations are ordered by size, largest first.
func Constellations(tracks []analysis.Track, features []*analysis.AudioFeatures, cfg Config) ([]Constellation, []analysis.Track) {
	if len(tracks) == 0 {
		return nil, nil
	}

	if cfg.NumClusters <= 0 {
		cfg.NumClusters = DefaultConfig().NumClusters
	}

	var members []*Member
	var outliers []analysis.Track

	for i, t := range tracks {
		if i >= len(features) || features[i] == nil {
			outliers = append(outliers, t)
			continue
		}
		members = append(members, &Member{Track: t, Features: *features[i]})
	}

	// If fewer members than clusters, everything is an outlier
	if len(members) < cfg.NumClusters {
		return nil, append(memberTracks(members), outliers...)
	}

	var obs clusters.Observations
	for _, m := range members {
		obs = append(obs, memberObservation{member: m, coords: coordinates(m.Features)})
	}

	result, err := kmeans.New().Partition(obs, cfg.NumClusters)
	if err != nil {
		slog.Warn("k-means clustering failed", slog.Any("error", err))
		return nil, append(memberTracks(members), outliers...)
	}

	var out []Constellation
	for _, cluster := range result {
		var group []*Member
		for _, o := range cluster.Observations {
			if mo, ok := o.(memberObservation); ok {
				group = append(group, mo.member)
			}
		}

		if len(group) < cfg.MinClusterSize {
			outliers = append(outliers, memberTracks(group)...)
			continue
		}

		centroid := Centroid{
			Energy:       cluster.Center[0],
			Valence:      cluster.Center[1],
			Danceability: cluster.Center[2],
			Acousticness: cluster.Center[3],
		}

		grouped := make([]Member, len(group))
		for i, m := range group {
			grouped[i] = *m
		}

		archetype := analysis.ArchetypeFor(centroid.Energy, centroid.Valence)
		out = append(out, Constellation{
			Name:      constellationName(archetype, centroid),
			Archetype: archetype,
			Centroid:  centroid,
			Members:   grouped,
		})
	}

	slices.SortStableFunc(out, func(a, b Constellation) int {
		return len(b.Members) - len(a.Members)
	})

	return out, outliers
}

// coordinates extracts the features used for clustering as a coordinate vector.
func coordinates(f analysis.AudioFeatures) clusters.Coordinates {
	return clusters.Coordinates{f.Energy, f.Valence, f.Danceability, f.Acousticness}
}

func memberTracks(members []*Member) []analysis.Track {
	tracks := make([]analysis.Track, 0, len(members))
	for _, m := range members {
		tracks = append(tracks, m.Track)
	}
	return tracks
}
