package openings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/discochess/openings/internal/aggregate"
	"github.com/discochess/openings/internal/game"
	"github.com/discochess/openings/internal/period"
)

// Report is the result of one Client.Report call.
type Report struct {
	RunID   string
	Query   Query
	Periods []period.Period

	// Entries are ordered by game count, most played first, then by name.
	Entries []Entry

	Games  GameCounts
	Months MonthCounts

	samples []float64
}

// Entry holds the statistics of one opening.
type Entry struct {
	Opening string
	Count   int
	ECO     string
	ECOURL  string
	Results map[string]int

	// AverageAccuracy is nil when no counted game carried an accuracy.
	AverageAccuracy *float64
}

// GameCounts tallies what happened to the games read.
type GameCounts struct {
	Seen       int
	Aggregated int
	NotPlayer  int
	Filtered   int
	NoOpening  int
}

// MonthCounts tallies the outcome of each month read.
type MonthCounts struct {
	Fetched int
	Missing int
	Failed  int
}

func entriesFrom(agg *aggregate.Aggregator) []Entry {
	all := agg.Entries()
	names := agg.Openings()
	entries := make([]Entry, 0, len(all))
	for _, name := range names {
		e := all[name]
		entries = append(entries, Entry{
			Opening:         name,
			Count:           e.Count,
			ECO:             deref(e.ECO),
			ECOURL:          deref(e.ECOURL),
			Results:         maps.Clone(map[string]int(e.Results)),
			AverageAccuracy: e.AverageAccuracy,
		})
	}
	return entries
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// entryJSON is the wire form of an Entry.
type entryJSON struct {
	Count           int            `json:"count"`
	ECO             string         `json:"eco"`
	ECOURL          string         `json:"eco_url"`
	Results         map[string]int `json:"results"`
	AverageAccuracy *float64       `json:"average_accuracy"`
}

// MarshalJSON renders the report as an object keyed by opening name, with
// keys in Entries order.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Opening)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entryJSON{
			Count:           e.Count,
			ECO:             e.ECO,
			ECOURL:          e.ECOURL,
			Results:         e.Results,
			AverageAccuracy: e.AverageAccuracy,
		})
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", e.Opening, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteJSON writes the report followed by a newline. pretty indents by two
// spaces.
func (r *Report) WriteJSON(w io.Writer, pretty bool) error {
	data, err := r.MarshalJSON()
	if err != nil {
		return err
	}
	if pretty {
		var out bytes.Buffer
		if err := json.Indent(&out, data, "", "  "); err != nil {
			return fmt.Errorf("indenting report: %w", err)
		}
		data = out.Bytes()
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Summary describes a report as a whole.
type Summary struct {
	Games    int
	Openings int

	// Outcomes sums Results across openings.
	Outcomes map[string]int

	// Accuracy statistics over every counted game that carried one. They
	// are computed from the raw samples, not from the per-opening averages.
	AccuracySamples int
	AccuracyMean    float64
	AccuracyMedian  float64
	AccuracyStdDev  float64
}

// Summary computes overall statistics.
func (r *Report) Summary() Summary {
	s := Summary{
		Openings: len(r.Entries),
		Outcomes: make(map[string]int),
	}
	for _, e := range r.Entries {
		s.Games += e.Count
		for outcome, n := range e.Results {
			s.Outcomes[outcome] += n
		}
	}

	s.AccuracySamples = len(r.samples)
	if len(r.samples) == 0 {
		return s
	}
	sorted := slices.Clone(r.samples)
	sort.Float64s(sorted)
	s.AccuracyMean, s.AccuracyStdDev = stat.MeanStdDev(sorted, nil)
	s.AccuracyMedian = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	if len(sorted) < 2 {
		s.AccuracyStdDev = 0
	}
	return s
}

// WriteMarkdown writes a human-readable report.
func (r *Report) WriteMarkdown(w io.Writer) error {
	var b strings.Builder
	sum := r.Summary()

	fmt.Fprintf(&b, "# Openings: %s\n\n", r.Query.Username)
	fmt.Fprintf(&b, "- **Color:** %s\n", colorName(r.Query.Color))
	fmt.Fprintf(&b, "- **Time class:** %s\n", orAny(r.Query.TimeClass))
	if len(r.Periods) > 0 {
		fmt.Fprintf(&b, "- **Period:** %s to %s (%d fetched, %d missing, %d failed)\n",
			r.Periods[0], r.Periods[len(r.Periods)-1],
			r.Months.Fetched, r.Months.Missing, r.Months.Failed)
	}
	fmt.Fprintf(&b, "- **Run:** %s\n\n", r.RunID)

	fmt.Fprintln(&b, "## Summary")
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "- **Games counted:** %d of %d\n", sum.Games, r.Games.Seen)
	fmt.Fprintf(&b, "- **Openings:** %d\n", sum.Openings)
	if sum.AccuracySamples > 0 {
		fmt.Fprintf(&b, "- **Accuracy:** mean %.2f, median %.2f, std dev %.2f over %d games\n",
			sum.AccuracyMean, sum.AccuracyMedian, sum.AccuracyStdDev, sum.AccuracySamples)
	} else {
		fmt.Fprintln(&b, "- **Accuracy:** none recorded")
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "## Openings")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "| Opening | ECO | Games | Results | Avg Accuracy |")
	fmt.Fprintln(&b, "|---------|-----|-------|---------|--------------|")
	for _, e := range r.Entries {
		name := e.Opening
		if e.ECOURL != "" {
			name = fmt.Sprintf("[%s](%s)", e.Opening, e.ECOURL)
		}
		acc := "-"
		if e.AverageAccuracy != nil {
			acc = fmt.Sprintf("%.2f", *e.AverageAccuracy)
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s |\n",
			name, orDash(e.ECO), e.Count, formatResults(e.Results), acc)
	}
	fmt.Fprintln(&b)

	if len(sum.Outcomes) > 0 {
		writeOutcomeChart(&b, sum.Outcomes)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// writeOutcomeChart writes an ASCII bar chart of outcome totals.
func writeOutcomeChart(b *strings.Builder, outcomes map[string]int) {
	fmt.Fprintln(b, "## Outcomes")
	fmt.Fprintln(b)
	fmt.Fprintln(b, "```")

	tokens := sortedOutcomes(outcomes)
	maxCount, width := 0, 0
	for _, t := range tokens {
		maxCount = max(maxCount, outcomes[t])
		width = max(width, len(t))
	}

	const barWidth = 40
	for _, t := range tokens {
		barLen := outcomes[t] * barWidth / maxCount
		fmt.Fprintf(b, "%-*s │ %s %d\n", width, t, strings.Repeat("█", barLen), outcomes[t])
	}

	fmt.Fprintln(b, "```")
	fmt.Fprintln(b)
}

// formatResults renders results most frequent first, e.g. "win 2, timeout 1".
func formatResults(results map[string]int) string {
	tokens := sortedOutcomes(results)
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = fmt.Sprintf("%s %d", t, results[t])
	}
	return strings.Join(parts, ", ")
}

func sortedOutcomes(m map[string]int) []string {
	tokens := slices.Collect(maps.Keys(m))
	sort.Slice(tokens, func(i, j int) bool {
		if m[tokens[i]] != m[tokens[j]] {
			return m[tokens[i]] > m[tokens[j]]
		}
		return tokens[i] < tokens[j]
	})
	return tokens
}

func colorName(s string) string {
	if s == "" {
		return "any"
	}
	return game.ParseColor(s).Name()
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
