// Package noopcodec stores archives uncompressed as plain .json files, the
// format the chess.com API serves.
package noopcodec

import (
	"io"

	"github.com/discochess/openings/internal/codec"
)

var _ codec.Codec = (*Codec)(nil)

// Codec passes bytes through unchanged.
type Codec struct{}

func New() *Codec { return &Codec{} }

func (*Codec) Name() string      { return "none" }
func (*Codec) Extension() string { return "" }

// Reader returns r as is. Closing the result never closes r; the caller
// that opened r owns it.
func (*Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

// Writer returns w as is. Closing the result never closes w.
func (*Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return passthrough{w}, nil
}

type passthrough struct{ io.Writer }

func (passthrough) Close() error { return nil }
