package openings

import (
	"time"

	"go.uber.org/zap"

	"github.com/discochess/openings/internal/archive"
	"github.com/discochess/openings/internal/stats"
)

// DefaultConcurrency bounds simultaneous month reads.
const DefaultConcurrency = 4

// Option configures a Client.
type Option interface {
	apply(*options)
}

// options holds the client configuration.
type options struct {
	store       archive.Store
	concurrency int
	stats       stats.Collector
	logger      *zap.Logger
	now         func() time.Time
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		concurrency: DefaultConcurrency,
		stats:       stats.NewNoop(),
		logger:      zap.NewNop(),
		now:         time.Now,
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithStore sets the archive source. It is required.
func WithStore(s archive.Store) Option {
	return optionFunc(func(o *options) {
		o.store = s
	})
}

// WithConcurrency sets how many months are read at once.
// Values below 1 keep the default of 4.
func WithConcurrency(n int) Option {
	return optionFunc(func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithClock sets the clock used to find the current month.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(o *options) {
		o.now = now
	})
}
