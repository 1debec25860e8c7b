package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/discochess/openings/internal/archive"
	"github.com/discochess/openings/internal/archive/cachedstore"
	"github.com/discochess/openings/internal/archive/cachedstore/cachestrategy/lru"
	"github.com/discochess/openings/internal/archive/cachedstore/memory"
	"github.com/discochess/openings/internal/archive/chesscom"
	"github.com/discochess/openings/internal/archive/diskstore"
	"github.com/discochess/openings/internal/archive/gcsstore"
	"github.com/discochess/openings/internal/archive/s3store"
	"github.com/discochess/openings/internal/codec/codecs"
	"github.com/discochess/openings/internal/config"
	"github.com/discochess/openings/internal/stats"
	statslogger "github.com/discochess/openings/internal/stats/logger"
	promstats "github.com/discochess/openings/internal/stats/prometheus"
)

// openStore builds the archive source named by c.Source, wrapped in an
// in-memory LRU cache when c.CacheSize is positive.
func openStore(ctx context.Context, c *config.Config, collector stats.Collector) (archive.Store, error) {
	cd, err := codecs.ForName(c.Codec)
	if err != nil {
		return nil, err
	}

	var st archive.Store
	switch c.Source {
	case "chesscom":
		st = chesscom.New(
			chesscom.WithTimeout(c.HTTPTimeout),
			chesscom.WithUserAgent(c.UserAgent),
		)
	case "disk":
		st, err = diskstore.New(c.ArchiveDir, cd)
	case "gcs":
		st, err = gcsstore.New(ctx, c.Bucket, cd, gcsstore.WithPrefix(c.Prefix))
	case "s3":
		opts := []s3store.Option{s3store.WithPrefix(c.Prefix)}
		if c.Region != "" {
			opts = append(opts, s3store.WithRegion(c.Region))
		}
		if c.Endpoint != "" {
			opts = append(opts, s3store.WithEndpoint(c.Endpoint))
		}
		st, err = s3store.New(ctx, c.Bucket, cd, opts...)
	default:
		return nil, fmt.Errorf("%w: source %q", config.ErrInvalid, c.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s source: %w", c.Source, err)
	}

	if c.CacheSize > 0 {
		strategy, err := lru.New(c.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating LRU strategy: %w", err)
		}
		st = cachedstore.New(st, memory.New(strategy, collector))
	}
	return st, nil
}

// newCollector returns a prometheus collector and its registry when
// metrics are exported to a file, a zap collector when verbose, and a
// no-op collector otherwise. The registry is nil unless exporting.
func newCollector(metricsFile string) (stats.Collector, *prometheus.Registry) {
	switch {
	case metricsFile != "":
		reg := prometheus.NewRegistry()
		return promstats.New(reg), reg
	case verbose:
		return statslogger.New(logger.Named("stats")), nil
	default:
		return stats.NewNoop(), nil
	}
}
