package stats

import (
	"sync"
	"testing"
)

func TestMemory(t *testing.T) {
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.IncCounter(MetricGamesSeen, 1)
				m.ObserveHistogram(MetricFetchSeconds, 0.1)
			}
		}()
	}
	wg.Wait()

	m.SetGauge(MetricCacheSize, 4)
	m.SetGauge(MetricCacheSize, 2)

	if got := m.Counter(MetricGamesSeen); got != 800 {
		t.Errorf("Counter() = %d, want 800", got)
	}
	if got := m.Observations(MetricFetchSeconds); got != 800 {
		t.Errorf("Observations() = %d, want 800", got)
	}
	if got := m.Gauge(MetricCacheSize); got != 2 {
		t.Errorf("Gauge() = %d, want 2", got)
	}
	if got := m.Counter("unknown"); got != 0 {
		t.Errorf("Counter(unknown) = %d, want 0", got)
	}
}
