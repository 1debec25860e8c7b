// Package pipeline runs retrieved games through tag parsing, classification
// and aggregation.
package pipeline

import (
	"go.uber.org/zap"

	"github.com/discochess/openings/internal/aggregate"
	"github.com/discochess/openings/internal/game"
	"github.com/discochess/openings/internal/pgn"
	"github.com/discochess/openings/internal/stats"
)

// Filter selects the games that count toward a report.
type Filter struct {
	// Username is the target player; matching ignores case.
	Username string

	// Color is "white" or "black". Empty accepts either.
	Color string

	// TimeClass is e.g. "blitz" or "rapid". Empty accepts any.
	TimeClass string
}

// Counts tallies what happened to the games of one or more batches.
type Counts struct {
	Seen             int
	Aggregated       int
	SkippedNotPlayer int
	SkippedFiltered  int
	SkippedNoOpening int
}

// Add accumulates other into c.
func (c *Counts) Add(other Counts) {
	c.Seen += other.Seen
	c.Aggregated += other.Aggregated
	c.SkippedNotPlayer += other.SkippedNotPlayer
	c.SkippedFiltered += other.SkippedFiltered
	c.SkippedNoOpening += other.SkippedNoOpening
}

// Driver folds games into an aggregator. A Driver is not safe for
// concurrent use; it must be fed from a single goroutine.
type Driver struct {
	filter Filter
	agg    *aggregate.Aggregator
	stats  stats.Collector
	logger *zap.Logger
}

// NewDriver creates a driver that adds matching games to agg.
// A nil collector or logger disables metrics or logging.
func NewDriver(filter Filter, agg *aggregate.Aggregator, collector stats.Collector, logger *zap.Logger) *Driver {
	if collector == nil {
		collector = stats.NewNoop()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		filter: filter,
		agg:    agg,
		stats:  collector,
		logger: logger,
	}
}

// Process runs every game of a batch through the pipeline in order.
func (d *Driver) Process(games []game.RawGame) Counts {
	var c Counts
	for i := range games {
		c.Seen++
		switch d.processGame(&games[i]) {
		case outcomeAggregated:
			c.Aggregated++
		case outcomeNotPlayer:
			c.SkippedNotPlayer++
		case outcomeFiltered:
			c.SkippedFiltered++
		case outcomeNoOpening:
			c.SkippedNoOpening++
		}
	}

	d.stats.IncCounter(stats.MetricGamesSeen, int64(c.Seen))
	d.stats.IncCounter(stats.MetricGamesAggregated, int64(c.Aggregated))
	d.stats.IncCounter(stats.MetricGamesNotPlayer, int64(c.SkippedNotPlayer))
	d.stats.IncCounter(stats.MetricGamesFiltered, int64(c.SkippedFiltered))
	d.stats.IncCounter(stats.MetricGamesNoOpening, int64(c.SkippedNoOpening))
	return c
}

type outcome int

const (
	outcomeAggregated outcome = iota
	outcomeNotPlayer
	outcomeFiltered
	outcomeNoOpening
)

func (d *Driver) processGame(g *game.RawGame) outcome {
	tags := pgn.ParseTags(g.PGN)

	side, ok := game.IdentifySide(tags, d.filter.Username)
	if !ok {
		d.logger.Debug("skipping game: target did not play", zap.String("url", g.URL))
		return outcomeNotPlayer
	}

	if !game.MatchesFilters(side, d.filter.Color, g.TimeClass, d.filter.TimeClass) {
		return outcomeFiltered
	}

	name, ok := game.OpeningName(tags)
	if !ok {
		d.logger.Debug("skipping game: no opening", zap.String("url", g.URL))
		return outcomeNoOpening
	}

	var accuracy *float64
	if acc, ok := game.Accuracy(side, *g); ok {
		accuracy = &acc
	}

	eco, _ := tags.Get(pgn.TagECO)
	ecoURL, _ := tags.Get(pgn.TagECOURL)
	d.agg.Add(name, aggregate.Single(game.Outcome(side, *g), eco, ecoURL, accuracy))
	return outcomeAggregated
}
