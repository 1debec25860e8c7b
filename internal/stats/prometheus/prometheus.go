// Package prometheus exports report, pipeline and cache metrics through a
// Prometheus registry.
package prometheus

import (
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/discochess/openings/internal/stats"
)

// Collector implements stats.Collector using Prometheus metrics.
type Collector struct {
	registry prometheus.Registerer

	mu         sync.RWMutex
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a new Prometheus collector.
// If registry is nil, prometheus.DefaultRegisterer is used.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	return &Collector{
		registry:   registry,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}
}

// IncCounter increments a counter metric.
func (c *Collector) IncCounter(name string, delta int64) {
	counter := getOrCreate(c, c.counters, name, func() prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help(name)})
	})
	counter.Add(float64(delta))
}

// SetGauge sets a gauge metric.
func (c *Collector) SetGauge(name string, value int64) {
	gauge := getOrCreate(c, c.gauges, name, func() prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help(name)})
	})
	gauge.Set(float64(value))
}

// ObserveHistogram records a value in a histogram.
func (c *Collector) ObserveHistogram(name string, value float64) {
	histogram := getOrCreate(c, c.histograms, name, func() prometheus.Histogram {
		return prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    name,
			Help:    help(name),
			Buckets: buckets(name),
		})
	})
	histogram.Observe(value)
}

var helpText = map[string]string{
	stats.MetricReports:         "Reports produced.",
	stats.MetricMonthsFetched:   "Monthly archives read from the source.",
	stats.MetricMonthErrors:     "Monthly archives that failed to load or decode.",
	stats.MetricFetchSeconds:    "Time to read every month of one report.",
	stats.MetricOpenings:        "Distinct openings in the last report.",
	stats.MetricGamesSeen:       "Games read from archives.",
	stats.MetricGamesAggregated: "Games counted toward an opening.",
	stats.MetricGamesNotPlayer:  "Games skipped because the player did not play them.",
	stats.MetricGamesFiltered:   "Games skipped by the color or time class filter.",
	stats.MetricGamesNoOpening:  "Games skipped for lack of an ECOUrl tag.",
	stats.MetricCacheHits:       "Archive cache hits.",
	stats.MetricCacheMisses:     "Archive cache misses.",
	stats.MetricCacheSize:       "Months held in the archive cache.",
}

func help(name string) string {
	if h, ok := helpText[name]; ok {
		return h
	}
	return name
}

// A report reads up to a year of months over HTTP, so fetch durations run
// from tens of milliseconds to about a minute.
var fetchBuckets = prometheus.ExponentialBuckets(0.05, 2, 11)

func buckets(name string) []float64 {
	if name == stats.MetricFetchSeconds {
		return fetchBuckets
	}
	return prometheus.DefBuckets
}

// WriteTextfile writes every metric gathered by g to path in the text
// exposition format, for pickup by the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}

// getOrCreate returns the metric stored under name, registering a new one
// built by create on first use. A metric already registered elsewhere under
// the same name is reused.
func getOrCreate[M prometheus.Collector](c *Collector, metrics map[string]M, name string, create func() M) M {
	c.mu.RLock()
	m, ok := metrics[name]
	c.mu.RUnlock()
	if ok {
		return m
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock.
	if m, ok = metrics[name]; ok {
		return m
	}

	m = create()
	if err := c.registry.Register(m); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(M); ok {
				metrics[name] = existing
				return existing
			}
		}
		// Registration failed but the metric still works unregistered.
	}
	metrics[name] = m
	return m
}
