// Package logger reports metrics as zap log lines, for runs without a
// Prometheus textfile.
package logger

import (
	"go.uber.org/zap"

	"github.com/discochess/openings/internal/stats"
)

// Collector implements stats.Collector by logging metrics via zap.
type Collector struct {
	logger *zap.Logger
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a collector logging under the "stats" name.
// If logger is nil, a no-op logger is used.
func New(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{logger: logger.Named("stats")}
}

// With returns a collector that adds fields to every metric line,
// e.g. the run ID of a report.
func (c *Collector) With(fields ...zap.Field) *Collector {
	return &Collector{logger: c.logger.With(fields...)}
}

// IncCounter logs a counter increment. Zero deltas are not logged.
// Month errors are logged at warn level so they show without --verbose.
func (c *Collector) IncCounter(name string, delta int64) {
	if delta == 0 {
		return
	}
	level := zap.DebugLevel
	if name == stats.MetricMonthErrors {
		level = zap.WarnLevel
	}
	c.logger.Log(level, "counter",
		zap.String("metric", name),
		zap.Int64("delta", delta),
	)
}

// SetGauge logs a gauge value.
func (c *Collector) SetGauge(name string, value int64) {
	c.logger.Debug("gauge",
		zap.String("metric", name),
		zap.Int64("value", value),
	)
}

// ObserveHistogram logs a histogram observation.
func (c *Collector) ObserveHistogram(name string, value float64) {
	c.logger.Debug("histogram",
		zap.String("metric", name),
		zap.Float64("value", value),
	)
}
