package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/justestif/go-music-oracle/internal/readings"
)

const readingTTL = time.Hour

// StoredReading is one kept reading. Exactly one of Profile and Track is set.
type StoredReading struct {
	Owner     string // session ID
	Profile   *readings.ProfileReading
	Track     *readings.TrackReading
	ExpiresAt time.Time
}

// ReadingStore keeps recent readings in memory, visible only to the session
// that requested them.
type ReadingStore struct {
	mu       sync.RWMutex
	readings map[uuid.UUID]StoredReading
	now      func() time.Time
}

// NewReadingStore creates an empty reading store.
func NewReadingStore() *ReadingStore {
	return &ReadingStore{
		readings: make(map[uuid.UUID]StoredReading),
		now:      time.Now,
	}
}

// SaveProfile keeps a profile reading for owner.
func (s *ReadingStore) SaveProfile(owner string, r *readings.ProfileReading) {
	s.save(r.ID, StoredReading{Owner: owner, Profile: r})
}

// SaveTrack keeps a track reading for owner.
func (s *ReadingStore) SaveTrack(owner string, r *readings.TrackReading) {
	s.save(r.ID, StoredReading{Owner: owner, Track: r})
}

func (s *ReadingStore) save(id uuid.UUID, entry StoredReading) {
	entry.ExpiresAt = s.now().Add(readingTTL)

	s.mu.Lock()
	s.readings[id] = entry
	s.mu.Unlock()
}

// Get returns the reading with id if it belongs to owner and has not expired.
func (s *ReadingStore) Get(owner string, id uuid.UUID) (StoredReading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.readings[id]
	if !ok || entry.Owner != owner || !s.now().Before(entry.ExpiresAt) {
		return StoredReading{}, false
	}
	return entry, true
}

// DeleteOwner drops every reading of owner.
func (s *ReadingStore) DeleteOwner(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.readings {
		if entry.Owner == owner {
			delete(s.readings, id)
		}
	}
}

// Prune drops expired readings and returns how many were removed.
func (s *ReadingStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, entry := range s.readings {
		if !now.Before(entry.ExpiresAt) {
			delete(s.readings, id)
			removed++
		}
	}
	return removed
}
