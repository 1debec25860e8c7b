// Package codecs resolves codecs by configured name.
package codecs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/discochess/openings/internal/codec"
	"github.com/discochess/openings/internal/codec/gzipcodec"
	"github.com/discochess/openings/internal/codec/noopcodec"
	"github.com/discochess/openings/internal/codec/zstdcodec"
)

// ErrUnknown indicates a codec name with no implementation.
var ErrUnknown = errors.New("codecs: unknown codec")

// Names lists the accepted codec names.
var Names = []string{"zstd", "gzip", "none"}

// ForName returns the codec called name. An empty name selects zstd.
func ForName(name string) (codec.Codec, error) {
	switch strings.ToLower(name) {
	case "", "zstd", "zst":
		return zstdcodec.New(), nil
	case "gzip", "gz":
		return gzipcodec.New(), nil
	case "none", "noop":
		return noopcodec.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
}
