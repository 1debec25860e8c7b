package aggregate

import "sort"

// Aggregator owns the per-opening entries of one run.
// An Aggregator is not safe for concurrent use.
type Aggregator struct {
	entries map[string]Entry
	samples []float64
}

// New creates an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{entries: make(map[string]Entry)}
}

// Add merges e into the entry stored under opening.
func (a *Aggregator) Add(opening string, e Entry) {
	var existing *Entry
	if cur, ok := a.entries[opening]; ok {
		existing = &cur
	}
	a.entries[opening] = Merge(existing, e)

	if e.AverageAccuracy != nil {
		a.samples = append(a.samples, *e.AverageAccuracy)
	}
}

// Get returns the entry stored under opening.
func (a *Aggregator) Get(opening string) (Entry, bool) {
	e, ok := a.entries[opening]
	return e, ok
}

// Len returns the number of openings.
func (a *Aggregator) Len() int {
	return len(a.entries)
}

// Entries returns the accumulated entries keyed by opening name.
// The map is owned by the Aggregator.
func (a *Aggregator) Entries() map[string]Entry {
	return a.entries
}

// Openings returns opening names ordered by game count, most played first,
// with ties broken by name.
func (a *Aggregator) Openings() []string {
	names := make([]string, 0, len(a.entries))
	for name := range a.entries {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := a.entries[names[i]].Count, a.entries[names[j]].Count
		if ci != cj {
			return ci > cj
		}
		return names[i] < names[j]
	})
	return names
}

// AccuracySamples returns every per-game accuracy added, in arrival order.
func (a *Aggregator) AccuracySamples() []float64 {
	return a.samples
}
