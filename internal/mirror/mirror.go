// Package mirror copies a player's monthly archives from any archive store
// into a local directory laid out for the disk source. The directory can
// then be served as is or synced to a GCS or S3 bucket.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/discochess/openings/internal/archive"
	"github.com/discochess/openings/internal/archive/diskstore"
	"github.com/discochess/openings/internal/game"
	"github.com/discochess/openings/internal/period"
	"github.com/discochess/openings/internal/stats"
)

// Mirror copies months between stores.
type Mirror struct {
	source      archive.Store
	dest        *diskstore.Store
	sourceName  string
	concurrency int
	stats       stats.Collector
	logger      *zap.Logger
	progress    ProgressFunc
	now         func() time.Time
}

// Option configures a Mirror.
type Option func(*Mirror)

// WithConcurrency sets how many months are fetched at once. Default is 2.
func WithConcurrency(n int) Option {
	return func(m *Mirror) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// WithSourceName records where months came from in the manifest.
func WithSourceName(name string) Option {
	return func(m *Mirror) { m.sourceName = name }
}

// WithStats sets the stats collector.
func WithStats(c stats.Collector) Option {
	return func(m *Mirror) { m.stats = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Mirror) { m.logger = l }
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(m *Mirror) { m.progress = fn }
}

// New creates a Mirror reading from source and writing to dest.
func New(source archive.Store, dest *diskstore.Store, opts ...Option) *Mirror {
	m := &Mirror{
		source:      source,
		dest:        dest,
		concurrency: 2,
		stats:       stats.NewNoop(),
		logger:      zap.NewNop(),
		progress:    func(Progress) {},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Result summarizes a run.
type Result struct {
	Written []period.Period
	Missing int
	Failed  int
	Games   int64
	Bytes   int64
}

// Run copies every period of username. Missing months are skipped; months
// that fail to load or do not decode as an archive are logged and skipped.
// A write failure or cancellation of ctx aborts the run. The player's
// manifest is merged with any previous one.
func (m *Mirror) Run(ctx context.Context, username string, periods []period.Period) (*Result, error) {
	var (
		mu     sync.Mutex
		res    Result
		counts = make(map[string]int)
		prog   = Progress{Phase: "fetch", MonthsTotal: len(periods), StartTime: m.now()}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for _, p := range periods {
		g.Go(func() error {
			data, err := m.source.ReadMonth(gctx, username, p)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
			}
			var games []game.RawGame
			if err == nil {
				games, err = game.DecodeBatch(data)
			}

			mu.Lock()
			defer mu.Unlock()
			prog.MonthsDone++
			prog.Period = p.String()

			switch {
			case errors.Is(err, archive.ErrNotFound):
				res.Missing++
				m.logger.Debug("month not found", zap.Stringer("period", p))
				m.progress(prog)
				return nil
			case err != nil:
				res.Failed++
				m.stats.IncCounter(stats.MetricMonthErrors, 1)
				m.logger.Warn("skipping month", zap.Stringer("period", p), zap.Error(err))
				failed := prog
				failed.Phase, failed.Error = "error", err
				m.progress(failed)
				return nil
			}

			if err := m.dest.WriteMonth(username, p, data); err != nil {
				return fmt.Errorf("writing %s: %w", p, err)
			}
			m.stats.IncCounter(stats.MetricMonthsFetched, 1)

			res.Written = append(res.Written, p)
			res.Games += int64(len(games))
			res.Bytes += int64(len(data))
			counts[p.String()] = len(games)

			prog.Games, prog.Bytes = res.Games, res.Bytes
			m.progress(prog)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		prog.Phase, prog.Error = "error", err
		m.progress(prog)
		return nil, err
	}

	if err := m.updateManifest(username, counts); err != nil {
		return nil, err
	}

	prog.Phase = "done"
	m.progress(prog)
	return &res, nil
}

func (m *Mirror) updateManifest(username string, counts map[string]int) error {
	root := m.dest.Root()

	man, err := ReadManifest(root, username)
	if err != nil {
		man = &Manifest{Username: username, Months: make(map[string]int)}
	}
	if man.Months == nil {
		man.Months = make(map[string]int)
	}
	for month, n := range counts {
		man.Months[month] = n
	}

	man.Version = ManifestVersion
	man.Compression = m.dest.Codec().Name()
	man.MirroredAt = m.now().UTC()
	if m.sourceName != "" {
		man.Source = m.sourceName
	}
	man.GameCount = 0
	for _, n := range man.Months {
		man.GameCount += int64(n)
	}

	return WriteManifest(root, man)
}
