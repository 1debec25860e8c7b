// Package cachedstore keeps recently read archive months in process memory
// so that repeated reports over overlapping periods hit the source once.
package cachedstore

// Backend holds decoded month payloads keyed by archive.Key.
type Backend interface {
	// Get returns a cached payload. Returns nil, false if not found.
	Get(key string) ([]byte, bool)

	// Set stores a payload.
	Set(key string, data []byte)

	// Stats returns cache statistics.
	Stats() Stats
}

// Stats contains cache statistics.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int // entries currently held
}

// HitRate returns the cache hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}
