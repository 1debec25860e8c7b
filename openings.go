// Package openings builds per-opening statistics from a player's monthly
// chess.com game archives.
//
// Example usage:
//
//	client, err := openings.New(
//	    openings.WithStore(chesscom.New()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	report, err := client.Report(ctx, openings.Query{
//	    Username:  "hikaru",
//	    Color:     "black",
//	    TimeClass: "blitz",
//	    Year:      2024,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, e := range report.Entries {
//	    fmt.Printf("%s: %d games\n", e.Opening, e.Count)
//	}
package openings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/notnil/chess"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/discochess/openings/internal/aggregate"
	"github.com/discochess/openings/internal/archive"
	"github.com/discochess/openings/internal/game"
	"github.com/discochess/openings/internal/period"
	"github.com/discochess/openings/internal/pipeline"
	"github.com/discochess/openings/internal/stats"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrClosed indicates the client has been closed.
	ErrClosed = errors.New("openings: client closed")

	// ErrNoStore indicates no archive store was provided.
	ErrNoStore = errors.New("openings: no store provided")

	// ErrNoUsername indicates a query without a player.
	ErrNoUsername = errors.New("openings: no username")

	// ErrNoPeriods indicates a query window containing no past or current month.
	ErrNoPeriods = errors.New("openings: no periods to report")

	// ErrInvalidColor indicates a color other than white or black.
	ErrInvalidColor = errors.New("openings: invalid color")
)

// Query selects the games of a report.
type Query struct {
	// Username is the player; matching ignores case.
	Username string

	// Color is "white" or "black". Empty accepts either.
	Color string

	// TimeClass is e.g. "bullet", "blitz", "rapid" or "daily". Empty accepts any.
	TimeClass string

	// Year selects January through December of one year. It is ignored when
	// From or To is set.
	Year int

	// From and To bound the window inclusively. A zero From starts at
	// January of To's year; a zero To ends at the current month.
	From, To period.Period
}

// Periods resolves the months q covers as of now. Months after the one
// containing now are dropped. With no window set, the current year is used.
func (q Query) Periods(now time.Time) ([]period.Period, error) {
	switch {
	case !q.From.IsZero() || !q.To.IsZero():
		from, to := q.From, q.To
		if to.IsZero() {
			to = period.Of(now)
		}
		if from.IsZero() {
			from = period.Period{Year: to.Year, Month: time.January}
		}
		return period.Range(from, to, now)
	case q.Year != 0:
		return period.Year(q.Year, now)
	default:
		return period.Year(now.Year(), now)
	}
}

// Client produces opening reports from an archive store.
// A Client is safe for concurrent use by multiple goroutines.
type Client struct {
	store       archive.Store
	concurrency int
	stats       stats.Collector
	logger      *zap.Logger
	now         func() time.Time
	closed      atomic.Bool
}

// New creates a new Client with the given options.
// WithStore is required.
func New(opts ...Option) (*Client, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.store == nil {
		return nil, ErrNoStore
	}

	c := &Client{
		store:       cfg.store,
		concurrency: cfg.concurrency,
		stats:       cfg.stats,
		logger:      cfg.logger,
		now:         cfg.now,
	}

	c.logger.Debug("client initialized", zap.Int("concurrency", c.concurrency))

	return c, nil
}

// monthStatus records how one month's read went.
type monthStatus int

const (
	monthFetched monthStatus = iota
	monthMissing
	monthFailed
)

type month struct {
	period period.Period
	status monthStatus
	games  []game.RawGame
}

// Report fetches every month of q concurrently and aggregates the matching
// games. A month that is missing, fails to load, or fails to decode counts
// as zero games; only cancellation of ctx aborts the report.
func (c *Client) Report(ctx context.Context, q Query) (*Report, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if strings.TrimSpace(q.Username) == "" {
		return nil, ErrNoUsername
	}
	if q.Color != "" && game.ParseColor(q.Color) == chess.NoColor {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColor, q.Color)
	}

	periods, err := q.Periods(c.now())
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, ErrNoPeriods
	}

	runID := uuid.NewString()
	logger := c.logger.With(zap.String("run_id", runID), zap.String("username", q.Username))
	logger.Info("report started",
		zap.Stringer("from", periods[0]),
		zap.Stringer("to", periods[len(periods)-1]),
		zap.String("color", q.Color),
		zap.String("timeClass", q.TimeClass),
	)
	c.stats.IncCounter(stats.MetricReports, 1)

	months, err := c.fetchMonths(ctx, logger, q.Username, periods)
	if err != nil {
		return nil, err
	}

	// Batches are folded in period order on this goroutine only.
	agg := aggregate.New()
	driver := pipeline.NewDriver(pipeline.Filter{
		Username:  q.Username,
		Color:     q.Color,
		TimeClass: q.TimeClass,
	}, agg, c.stats, logger)

	r := &Report{
		RunID:   runID,
		Query:   q,
		Periods: periods,
	}
	var counts pipeline.Counts
	for _, m := range months {
		switch m.status {
		case monthFetched:
			r.Months.Fetched++
		case monthMissing:
			r.Months.Missing++
		case monthFailed:
			r.Months.Failed++
		}
		counts.Add(driver.Process(m.games))
	}

	r.Games = GameCounts{
		Seen:       counts.Seen,
		Aggregated: counts.Aggregated,
		NotPlayer:  counts.SkippedNotPlayer,
		Filtered:   counts.SkippedFiltered,
		NoOpening:  counts.SkippedNoOpening,
	}
	r.Entries = entriesFrom(agg)
	r.samples = agg.AccuracySamples()

	c.stats.SetGauge(stats.MetricOpenings, int64(len(r.Entries)))
	logger.Info("report finished",
		zap.Int("gamesSeen", counts.Seen),
		zap.Int("gamesAggregated", counts.Aggregated),
		zap.Int("openings", len(r.Entries)),
		zap.Int("monthsFailed", r.Months.Failed),
	)

	return r, nil
}

// fetchMonths reads and decodes every period with bounded concurrency.
// Each goroutine writes only its own slot of the result.
func (c *Client) fetchMonths(ctx context.Context, logger *zap.Logger, username string, periods []period.Period) ([]month, error) {
	months := make([]month, len(periods))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, p := range periods {
		g.Go(func() error {
			months[i] = month{period: p}

			start := time.Now()
			data, err := c.store.ReadMonth(gctx, username, p)
			c.stats.ObserveHistogram(stats.MetricFetchSeconds, time.Since(start).Seconds())
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				if errors.Is(err, archive.ErrNotFound) {
					logger.Debug("month not found", zap.Stringer("period", p))
					months[i].status = monthMissing
					return nil
				}
				logger.Warn("month fetch failed", zap.Stringer("period", p), zap.Error(err))
				c.stats.IncCounter(stats.MetricMonthErrors, 1)
				months[i].status = monthFailed
				return nil
			}

			games, err := game.DecodeBatch(data)
			if err != nil {
				logger.Warn("month decode failed", zap.Stringer("period", p), zap.Error(err))
				c.stats.IncCounter(stats.MetricMonthErrors, 1)
				months[i].status = monthFailed
				return nil
			}

			c.stats.IncCounter(stats.MetricMonthsFetched, 1)
			logger.Debug("month fetched", zap.Stringer("period", p), zap.Int("games", len(games)))
			months[i].games = games
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching months: %w", err)
	}
	return months, nil
}

// Close releases all resources associated with the client.
// After Close, the client should not be used.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	if err := c.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}

	return nil
}

// Store returns the archive source used by this client.
func (c *Client) Store() archive.Store {
	return c.store
}
