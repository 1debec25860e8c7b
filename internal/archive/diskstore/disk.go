// Package diskstore implements a disk-based archive store.
//
// Archives live at <root>/<username>/<YYYY>/<MM>.json, with the codec
// extension appended (e.g. 03.json.zst).
package diskstore

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/discochess/openings/internal/archive"
	"github.com/discochess/openings/internal/codec"
	"github.com/discochess/openings/internal/period"
)

// Compile-time check that Store implements archive.Store.
var _ archive.Store = (*Store)(nil)

// Store is a disk-based filesystem archive store.
type Store struct {
	root  string
	codec codec.Codec
}

// New creates a new disk store rooted at the given directory.
// The directory must exist. The codec handles compression/decompression.
func New(root string, c codec.Codec) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	return &Store{
		root:  root,
		codec: c,
	}, nil
}

// ReadMonth reads and decompresses a player's month.
func (s *Store) ReadMonth(ctx context.Context, username string, p period.Period) ([]byte, error) {
	// Check for cancellation before starting I/O.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compressed, err := os.ReadFile(s.Path(username, p))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, archive.ErrNotFound
		}
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	return codec.Decode(s.codec, bytes.NewReader(compressed))
}

// WriteMonth compresses data and writes it as a player's month, creating
// directories as needed.
func (s *Store) WriteMonth(username string, p period.Period, data []byte) error {
	compressed, err := codec.Encode(s.codec, data)
	if err != nil {
		return err
	}

	path := s.Path(username, p)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}
	if err := os.WriteFile(path, compressed, 0644); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}
	return nil
}

// Path returns the filesystem path of a player's month.
func (s *Store) Path(username string, p period.Period) string {
	return filepath.Join(s.root, filepath.FromSlash(codec.FileName(s.codec, archive.Key(username, p)+".json")))
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// Codec returns the codec used for archive files.
func (s *Store) Codec() codec.Codec {
	return s.codec
}

// Close releases any resources held by the store.
func (s *Store) Close() error {
	return nil
}
