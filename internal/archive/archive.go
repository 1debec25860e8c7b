// Package archive defines the source of monthly game archives.
package archive

import (
	"context"
	"errors"
	"strings"

	"github.com/discochess/openings/internal/period"
)

// ErrNotFound is returned when no archive exists for a player and month.
var ErrNotFound = errors.New("archive: month not found")

// Store defines the interface for archive sources.
// Implementations handle path formats and transport details internally.
type Store interface {
	// ReadMonth returns the raw archive document of username's games in p,
	// already decompressed.
	ReadMonth(ctx context.Context, username string, p period.Period) ([]byte, error)

	// Close releases any resources held by the store.
	Close() error
}

// Key returns the store-independent key of a player's month, "user/YYYY/MM".
// Usernames are case-insensitive upstream, so the key is lower-cased.
func Key(username string, p period.Period) string {
	return strings.ToLower(username) + "/" + p.Path()
}
