// Package memstore provides an in-memory archive store for testing.
package memstore

import (
	"context"
	"sync"

	"github.com/discochess/openings/internal/archive"
	"github.com/discochess/openings/internal/period"
)

// Compile-time check that Store implements archive.Store.
var _ archive.Store = (*Store)(nil)

// Store is an in-memory archive store for testing.
type Store struct {
	mu     sync.RWMutex
	months map[string][]byte
	errs   map[string]error
	reads  int
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		months: make(map[string][]byte),
		errs:   make(map[string]error),
	}
}

// SetMonth sets the archive document for a player's month.
// The data is copied to prevent caller mutations from affecting the store.
func (s *Store) SetMonth(username string, p period.Period, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.months[archive.Key(username, p)] = copied
}

// SetError makes reads of a player's month fail with err.
func (s *Store) SetError(username string, p period.Period, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[archive.Key(username, p)] = err
}

// ReadMonth reads a month from memory.
func (s *Store) ReadMonth(ctx context.Context, username string, p period.Period) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++

	key := archive.Key(username, p)
	if err, ok := s.errs[key]; ok {
		return nil, err
	}
	data, ok := s.months[key]
	if !ok {
		return nil, archive.ErrNotFound
	}
	return data, nil
}

// Reads returns how many times ReadMonth was called.
func (s *Store) Reads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reads
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}
