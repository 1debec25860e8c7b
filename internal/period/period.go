// Package period resolves the (year, month) windows a report covers.
package period

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalid indicates a malformed or out-of-range period.
var ErrInvalid = errors.New("period: invalid")

// Period is one calendar month.
type Period struct {
	Year  int
	Month time.Month
}

// Of returns the period containing t.
func Of(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// IsZero reports whether p is unset.
func (p Period) IsZero() bool {
	return p == Period{}
}

// String formats the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Path returns the YYYY/MM path fragment used by archive URLs and keys.
func (p Period) Path() string {
	return fmt.Sprintf("%04d/%02d", p.Year, int(p.Month))
}

// Before reports whether p is strictly earlier than q.
func (p Period) Before(q Period) bool {
	if p.Year != q.Year {
		return p.Year < q.Year
	}
	return p.Month < q.Month
}

// Next returns the following month.
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Parse parses YYYY-MM (or YYYY/MM).
func Parse(s string) (Period, error) {
	s = strings.TrimSpace(s)
	sep := strings.IndexAny(s, "-/")
	if sep < 0 {
		return Period{}, fmt.Errorf("%w: %q is not YYYY-MM", ErrInvalid, s)
	}
	year, err := parseYear(s[:sep])
	if err != nil {
		return Period{}, err
	}
	month, err := strconv.Atoi(s[sep+1:])
	if err != nil || month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: month in %q", ErrInvalid, s)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// ParseYear parses a four-digit year.
func ParseYear(s string) (int, error) {
	return parseYear(strings.TrimSpace(s))
}

func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(s)
	if err != nil || year < 1000 || year > 9999 {
		return 0, fmt.Errorf("%w: year %q", ErrInvalid, s)
	}
	return year, nil
}

// Range returns every month from from to to inclusive, dropping months
// after the one containing now. now is injected so callers stay
// deterministic.
func Range(from, to Period, now time.Time) ([]Period, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s is after %s", ErrInvalid, from, to)
	}
	if current := Of(now); current.Before(to) {
		to = current
	}

	var periods []Period
	for p := from; !to.Before(p); p = p.Next() {
		periods = append(periods, p)
	}
	return periods, nil
}

// Year returns the months of year up to and including the month
// containing now.
func Year(year int, now time.Time) ([]Period, error) {
	return Range(
		Period{Year: year, Month: time.January},
		Period{Year: year, Month: time.December},
		now,
	)
}
