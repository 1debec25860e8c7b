// Package aggregate folds single-game records into per-opening entries.
package aggregate

// Results counts games per outcome token. Only outcomes that occurred are
// present.
type Results map[string]int

// Total returns the sum of all counts.
func (r Results) Total() int {
	var n int
	for _, c := range r {
		n += c
	}
	return n
}

// Entry accumulates every game played in one opening.
type Entry struct {
	// Count is the number of games folded in.
	Count int

	// ECO is the opening classification code, nil until a game carries one.
	ECO *string

	// ECOURL is the opening reference URL, nil until a game carries one.
	ECOURL *string

	Results Results

	// AverageAccuracy is nil until a game with an accuracy is merged.
	// See Merge for how it is combined.
	AverageAccuracy *float64
}

// Single builds the entry for one game.
func Single(outcome, eco, ecoURL string, accuracy *float64) Entry {
	return Entry{
		Count:           1,
		ECO:             optional(eco),
		ECOURL:          optional(ecoURL),
		Results:         Results{outcome: 1},
		AverageAccuracy: accuracy,
	}
}

// Merge combines incoming into existing and returns the result.
//
// With no existing entry, incoming itself is returned, sharing its Results
// map. Otherwise the result owns a fresh Results map, counts
// and results are summed, ECO and ECOURL keep any present value, and the
// accuracy is the pairwise average (existing + incoming) / 2.
//
// The pairwise average is not a count-weighted mean: older samples are
// halved on every merge, so the value drifts toward recent games and depends
// on merge order. Count and Results do not depend on order.
func Merge(existing *Entry, incoming Entry) Entry {
	if existing == nil {
		return incoming
	}
	return Entry{
		Count:           existing.Count + incoming.Count,
		ECO:             sticky(existing.ECO, incoming.ECO),
		ECOURL:          sticky(existing.ECOURL, incoming.ECOURL),
		Results:         mergeResults(existing.Results, incoming.Results),
		AverageAccuracy: mergeAccuracy(existing.AverageAccuracy, incoming.AverageAccuracy),
	}
}

func mergeResults(a, b Results) Results {
	merged := make(Results, len(a)+len(b))
	for k, v := range a {
		merged[k] += v
	}
	for k, v := range b {
		merged[k] += v
	}
	return merged
}

func mergeAccuracy(a, b *float64) *float64 {
	switch {
	case a != nil && b != nil:
		avg := (*a + *b) / 2
		return &avg
	case a != nil:
		return a
	default:
		return b
	}
}

// sticky keeps a present, non-empty value and backfills an absent one.
func sticky(existing, incoming *string) *string {
	if existing != nil && *existing != "" {
		return existing
	}
	if incoming != nil && *incoming != "" {
		return incoming
	}
	return existing
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
