// Package config loads CLI defaults from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/discochess/openings/internal/archive/chesscom"
)

// ErrInvalid indicates a configuration value out of range.
var ErrInvalid = errors.New("config: invalid")

// Sources lists the accepted archive sources.
var Sources = []string{"chesscom", "disk", "gcs", "s3"}

// Formats lists the accepted output formats.
var Formats = []string{"json", "markdown"}

// Config holds every setting a flag may also override.
type Config struct {
	Source     string `koanf:"source"`
	ArchiveDir string `koanf:"archive_dir"`
	Bucket     string `koanf:"bucket"`
	Prefix     string `koanf:"prefix"`
	Region     string `koanf:"region"`
	Endpoint   string `koanf:"endpoint"`
	Codec      string `koanf:"codec"`

	Concurrency int           `koanf:"concurrency"`
	CacheSize   int           `koanf:"cache_size"`
	HTTPTimeout time.Duration `koanf:"http_timeout"`
	UserAgent   string        `koanf:"user_agent"`

	Format      string `koanf:"format"`
	Pretty      bool   `koanf:"pretty"`
	MetricsFile string `koanf:"metrics_file"`
}

// New returns the defaults.
func New() *Config {
	return &Config{
		Source:      "chesscom",
		Codec:       "zstd",
		Concurrency: 4,
		CacheSize:   0,
		HTTPTimeout: chesscom.DefaultTimeout,
		UserAgent:   chesscom.DefaultUserAgent,
		Format:      "json",
	}
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if !slices.Contains(Sources, c.Source) {
		return fmt.Errorf("%w: source %q (want one of %v)", ErrInvalid, c.Source, Sources)
	}
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("%w: format %q (want one of %v)", ErrInvalid, c.Format, Formats)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrInvalid, c.Concurrency)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: cache_size must not be negative, got %d", ErrInvalid, c.CacheSize)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: http_timeout must be positive, got %s", ErrInvalid, c.HTTPTimeout)
	}
	switch c.Source {
	case "disk":
		if c.ArchiveDir == "" {
			return fmt.Errorf("%w: archive_dir is required for the disk source", ErrInvalid)
		}
	case "gcs", "s3":
		if c.Bucket == "" {
			return fmt.Errorf("%w: bucket is required for the %s source", ErrInvalid, c.Source)
		}
	}
	return nil
}
