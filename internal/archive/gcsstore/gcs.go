// Package gcsstore implements a Google Cloud Storage archive store.
package gcsstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/discochess/openings/internal/archive"
	"github.com/discochess/openings/internal/codec"
	"github.com/discochess/openings/internal/period"
)

// Compile-time check that Store implements archive.Store.
var _ archive.Store = (*Store)(nil)

// objectSource opens objects by key. It is satisfied by a bucket handle and
// replaced in tests.
type objectSource interface {
	open(ctx context.Context, key string) (io.ReadCloser, error)
}

type bucketSource struct {
	bucket *storage.BucketHandle
}

func (b bucketSource) open(ctx context.Context, key string) (io.ReadCloser, error) {
	return b.bucket.Object(key).NewReader(ctx)
}

// Store is a Google Cloud Storage archive store.
type Store struct {
	client  *storage.Client
	objects objectSource
	prefix  string
	codec   codec.Codec
}

// New creates a new GCS store.
// The bucket must already exist.
// The codec handles compression/decompression.
func New(ctx context.Context, bucketName string, c codec.Codec, opts ...Option) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	s := &Store{
		client:  client,
		objects: bucketSource{bucket: client.Bucket(bucketName)},
		codec:   c,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets a key prefix for all operations.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
	}
}

// ReadMonth reads and decompresses a player's month.
func (s *Store) ReadMonth(ctx context.Context, username string, p period.Period) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := s.objects.open(ctx, s.objectKey(username, p))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, archive.ErrNotFound
		}
		return nil, fmt.Errorf("creating reader: %w", err)
	}
	defer reader.Close()

	return codec.Decode(s.codec, reader)
}

// Close releases resources.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// objectKey returns the full object key for a player's month.
func (s *Store) objectKey(username string, p period.Period) string {
	return s.prefix + codec.FileName(s.codec, archive.Key(username, p)+".json")
}
