// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the module.
const (
	// Report metrics.
	MetricReports       = "openings_reports_total"
	MetricMonthsFetched = "openings_months_fetched_total"
	MetricMonthErrors   = "openings_month_errors_total"
	MetricFetchSeconds  = "openings_fetch_seconds"
	MetricOpenings      = "openings_openings"

	// Pipeline metrics.
	MetricGamesSeen       = "openings_games_seen_total"
	MetricGamesAggregated = "openings_games_aggregated_total"
	MetricGamesNotPlayer  = "openings_games_skipped_not_player_total"
	MetricGamesFiltered   = "openings_games_skipped_filtered_total"
	MetricGamesNoOpening  = "openings_games_skipped_no_opening_total"

	// Cache metrics.
	MetricCacheHits   = "openings_cache_hits_total"
	MetricCacheMisses = "openings_cache_misses_total"
	MetricCacheSize   = "openings_cache_size"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
