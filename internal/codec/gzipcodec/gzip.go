// Package gzipcodec stores archives as .json.gz, readable with standard tools.
package gzipcodec

import (
	"compress/gzip"
	"io"

	"github.com/discochess/openings/internal/codec"
)

var _ codec.Codec = (*Codec)(nil)

// Codec compresses archives with gzip.
type Codec struct {
	level int
}

// New returns a gzip codec at the best-speed level. Archive JSON is highly
// repetitive, so higher levels gain little.
func New() *Codec {
	return &Codec{level: gzip.BestSpeed}
}

// NewWithLevel returns a gzip codec that compresses at level, one of the
// compress/gzip level constants. Invalid levels fall back to the default.
func NewWithLevel(level int) *Codec {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	return &Codec{level: level}
}

func (c *Codec) Name() string      { return "gzip" }
func (c *Codec) Extension() string { return "gz" }

// Reader decompresses a gzip stream. Concatenated members are read as one
// archive.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(w, c.level)
}
