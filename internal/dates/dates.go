// Package dates generates the sample-date sequence a scrape run covers.
//
// transfermarkt publishes market-value snapshots for the 1st and 15th of
// each month, so a run samples those two days for every month in range.
// The range bounds themselves are always kept, even when they fall on a
// different day, so a caller asking for 2024-10-03 onward still gets a
// data point for 2024-10-03.
package dates

import (
	"fmt"
	"time"
)

// Format is the wire and CSV date layout.
const Format = "2006-01-02"

// InvalidRangeError reports an unusable date range: unparseable bounds
// or from after to. It is a startup error; the run never begins.
type InvalidRangeError struct {
	From   string
	To     string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range %q..%q: %s", e.From, e.To, e.Reason)
}

// Parse parses a YYYY-MM-DD date, rejecting out-of-range calendar
// components, and normalizes it to midnight UTC.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Format, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t.UTC(), nil
}

// Range parses both bounds and returns the sample-date sequence.
// All failures are reported as *InvalidRangeError.
func Range(from, to string) ([]time.Time, error) {
	f, err := Parse(from)
	if err != nil {
		return nil, &InvalidRangeError{From: from, To: to, Reason: err.Error()}
	}
	t, err := Parse(to)
	if err != nil {
		return nil, &InvalidRangeError{From: from, To: to, Reason: err.Error()}
	}
	return Sequence(f, t)
}

// Sequence returns every sample date in [from, to], ascending and
// duplicate-free: both bounds plus the 1st and 15th of every month that
// fall inside them. The output is fully determined by the two bounds.
func Sequence(from, to time.Time) ([]time.Time, error) {
	from = midnightUTC(from)
	to = midnightUTC(to)
	if from.After(to) {
		return nil, &InvalidRangeError{
			From:   from.Format(Format),
			To:     to.Format(Format),
			Reason: "from is after to",
		}
	}

	out := []time.Time{from}

	// Walk 1st -> 15th -> 1st-of-next-month starting at the first
	// pattern date not before from.
	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	if cur.Before(from) {
		cur = time.Date(from.Year(), from.Month(), 15, 0, 0, 0, 0, time.UTC)
		if cur.Before(from) {
			cur = time.Date(from.Year(), from.Month()+1, 1, 0, 0, 0, 0, time.UTC)
		}
	}
	for !cur.After(to) {
		if !cur.Equal(from) {
			out = append(out, cur)
		}
		if cur.Day() == 1 {
			cur = time.Date(cur.Year(), cur.Month(), 15, 0, 0, 0, 0, time.UTC)
		} else {
			cur = time.Date(cur.Year(), cur.Month()+1, 1, 0, 0, 0, 0, time.UTC)
		}
	}

	if last := out[len(out)-1]; !last.Equal(to) {
		out = append(out, to)
	}
	return out, nil
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
