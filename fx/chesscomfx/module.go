// Package chesscomfx provides an fx module for an openings client reading
// the chess.com public API.
package chesscomfx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/openings"
	"github.com/discochess/openings/internal/archive"
	"github.com/discochess/openings/internal/archive/cachedstore"
	"github.com/discochess/openings/internal/archive/cachedstore/cachestrategy/lru"
	"github.com/discochess/openings/internal/archive/cachedstore/memory"
	"github.com/discochess/openings/internal/archive/chesscom"
	"github.com/discochess/openings/internal/stats"
	"github.com/discochess/openings/internal/stats/logger"
)

// Config holds configuration for the chess.com client.
type Config struct {
	// BaseURL overrides the API root. Empty uses chesscom.DefaultBaseURL.
	BaseURL string

	// UserAgent overrides the request User-Agent.
	UserAgent string

	// Timeout bounds each month request. Default is 30s.
	Timeout time.Duration

	// Concurrency bounds simultaneous month requests. Default is 4.
	Concurrency int

	// CacheSize is the number of months kept in memory between reports.
	// Zero disables the cache.
	CacheSize int
}

// Module provides a chess.com-backed openings client.
// Requires a *zap.Logger and a Config to be provided.
var Module = fx.Module("chesscomopenings",
	fx.Provide(
		newStatsCollector,
		newClient,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("openings.stats"))
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided client.
type Result struct {
	fx.Out

	Client *openings.Client
}

func newClient(p Params) (Result, error) {
	var opts []chesscom.Option
	if p.Config.BaseURL != "" {
		opts = append(opts, chesscom.WithBaseURL(p.Config.BaseURL))
	}
	if p.Config.UserAgent != "" {
		opts = append(opts, chesscom.WithUserAgent(p.Config.UserAgent))
	}
	if p.Config.Timeout > 0 {
		opts = append(opts, chesscom.WithTimeout(p.Config.Timeout))
	}

	var st archive.Store = chesscom.New(opts...)
	if p.Config.CacheSize > 0 {
		strategy, err := lru.New(p.Config.CacheSize)
		if err != nil {
			return Result{}, err
		}
		st = cachedstore.New(st, memory.New(strategy, p.Collector))
	}

	client, err := openings.New(
		openings.WithStore(st),
		openings.WithConcurrency(p.Config.Concurrency),
		openings.WithStats(p.Collector),
		openings.WithLogger(p.Logger.Named("openings")),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return Result{Client: client}, nil
}
