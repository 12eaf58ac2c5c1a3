package daterange

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRange = errors.New("daterange: end must not be before start")

// DayFormat is the calendar-date layout used across the service.
const DayFormat = "2006-01-02"

// DateRange is a closed interval [Start, End] of calendar days.
// Both bounds are truncated to UTC midnight.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (DateRange, error) {
	dr := DateRange{Start: Day(start), End: Day(end)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Single returns the one-day range covering t.
func Single(t time.Time) DateRange {
	d := Day(t)
	return DateRange{Start: d, End: d}
}

// Parse builds a range from two YYYY-MM-DD strings.
func Parse(start, end string) (DateRange, error) {
	s, err := ParseDay(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDay(end)
	if err != nil {
		return DateRange{}, err
	}
	return New(s, e)
}

func (dr DateRange) Validate() error {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ErrInvalidRange
	}
	if dr.End.Before(dr.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Days returns the number of calendar days in the range, inclusive.
func (dr DateRange) Days() int {
	return int(dr.End.Sub(dr.Start)/(24*time.Hour)) + 1
}

// EachDay walks every day of the range in order.
func (dr DateRange) EachDay(fn func(day time.Time)) {
	for d := dr.Start; !d.After(dr.End); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return !dr.Start.After(other.End) && !other.Start.After(dr.End)
}

func (dr DateRange) Contains(other DateRange) bool {
	return !dr.Start.After(other.Start) && !dr.End.Before(other.End)
}

func (dr DateRange) ContainsDay(t time.Time) bool {
	d := Day(t)
	return !d.Before(dr.Start) && !d.After(dr.End)
}

// Adjacent reports whether the ranges touch without overlapping,
// e.g. [Jan 1, Jan 31] and [Feb 1, Feb 28].
func (dr DateRange) Adjacent(other DateRange) bool {
	return dr.End.AddDate(0, 0, 1).Equal(other.Start) || other.End.AddDate(0, 0, 1).Equal(dr.Start)
}

// Merge unions two ranges when they overlap or touch.
func (dr DateRange) Merge(other DateRange) (DateRange, bool) {
	if !(dr.Overlaps(other) || dr.Adjacent(other)) {
		return DateRange{}, false
	}
	start := dr.Start
	if other.Start.Before(start) {
		start = other.Start
	}
	end := dr.End
	if other.End.After(end) {
		end = other.End
	}
	return DateRange{Start: start, End: end}, true
}

func (dr DateRange) String() string {
	return fmt.Sprintf("%s..%s", dr.Start.Format(DayFormat), dr.End.Format(DayFormat))
}

// Day truncates t to UTC midnight.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("daterange: invalid day %q: %w", s, err)
	}
	return t, nil
}

func FormatDay(t time.Time) string {
	return Day(t).Format(DayFormat)
}

// StartOfMonth returns the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// Month returns the full calendar month containing t.
func Month(t time.Time) DateRange {
	return DateRange{Start: StartOfMonth(t), End: EndOfMonth(t)}
}
