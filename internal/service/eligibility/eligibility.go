// Package eligibility derives how long ago a donor last gave blood. The
// value is computed at read time from the stored lastDate and is never
// persisted.
package eligibility

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/markusmobius/go-dateparser"

	"github.com/Kamrul101/donate-red-server/internal/platform/timeutil"
)

// Day is the unit dateDiff is expressed in.
const Day = 24 * time.Hour

// Clock returns the current instant. Services take one so tests can pin now.
type Clock func() time.Time

// lenient only accepts complete calendar dates such as "March 5, 2025".
// Relative phrases, timestamps and partial dates are rejected so placeholder
// values keep reading as never donated.
var lenient = &dateparser.Parser{ParserTypes: []dateparser.ParserType{dateparser.AbsoluteTime}}

// ParseDate reads a stored lastDate. Plain dates are UTC midnight.
func ParseDate(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(timeutil.DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}

	if !strings.ContainsFunc(s, unicode.IsDigit) {
		return time.Time{}, false
	}
	res, err := lenient.Parse(&dateparser.Configuration{
		CurrentTime:   now.UTC(),
		StrictParsing: true,
		RequiredParts: []string{"day", "month", "year"},
	}, s)
	if err != nil || res.Time.IsZero() {
		return time.Time{}, false
	}
	return res.Time, true
}

// DaysSince returns the fractional days between lastDate and now. The
// second result is false when lastDate is absent or unparseable. Dates in
// the future count as zero days.
func DaysSince(lastDate string, now time.Time) (float64, bool) {
	t, ok := ParseDate(lastDate, now)
	if !ok {
		return 0, false
	}
	days := float64(now.Sub(t)) / float64(Day)
	return max(days, 0), true
}

// DateDiff is DaysSince as a nullable value for JSON output.
func DateDiff(lastDate string, now time.Time) *float64 {
	d, ok := DaysSince(lastDate, now)
	if !ok {
		return nil
	}
	return &d
}

// SortKey orders a nil dateDiff ahead of every known value.
func SortKey(dateDiff *float64) float64 {
	if dateDiff == nil {
		return math.Inf(1)
	}
	return *dateDiff
}

// Sort orders items by descending dateDiff, breaking ties by id so the
// order is stable for a fixed now and data set.
func Sort[T any](items []T, dateDiff func(T) *float64, id func(T) string) {
	slices.SortFunc(items, func(a, b T) int {
		if c := cmp.Compare(SortKey(dateDiff(b)), SortKey(dateDiff(a))); c != 0 {
			return c
		}
		return cmp.Compare(id(a), id(b))
	})
}

// Today is the lastDate value written when a donation is recorded.
func Today(now time.Time) string {
	return timeutil.Date(now)
}
