package cachedstore

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/discochess/openings/internal/archive"
	"github.com/discochess/openings/internal/period"
)

// Compile-time check that Store implements archive.Store.
var _ archive.Store = (*Store)(nil)

// Store wraps another archive.Store with caching. Concurrent misses for the
// same month share a single read of the underlying store.
type Store struct {
	underlying archive.Store
	backend    Backend
	group      singleflight.Group
}

// New creates a cached store wrapping underlying.
func New(underlying archive.Store, backend Backend) *Store {
	return &Store{
		underlying: underlying,
		backend:    backend,
	}
}

// ReadMonth returns a month from the cache, reading through on a miss.
// Errors, including archive.ErrNotFound, are never cached.
//
// The shared read runs detached from any one caller's cancellation, so a
// caller that gives up does not fail the others waiting on the same month.
// Each caller still returns as soon as its own ctx is done.
func (s *Store) ReadMonth(ctx context.Context, username string, p period.Period) ([]byte, error) {
	key := archive.Key(username, p)
	if data, ok := s.backend.Get(key); ok {
		return data, nil
	}

	readCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		data, err := s.underlying.ReadMonth(readCtx, username, p)
		if err != nil {
			return nil, err
		}
		s.backend.Set(key, data)
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.underlying.Close()
}

// Stats returns cache statistics.
func (s *Store) Stats() Stats {
	return s.backend.Stats()
}
