package engine

import (
	"errors"
	"time"
)

// Period is a named analysis window.
type Period string

const (
	PeriodCurrentMonth Period = "current_month"
	PeriodLast3Months  Period = "last_3_months"
	PeriodLast6Months  Period = "last_6_months"
	PeriodAllTime      Period = "all_time"
)

// ErrInvalidPeriod reports a period specifier outside the known set.
var ErrInvalidPeriod = errors.New("invalid period specifier")

// allTimeEpoch anchors the all_time window so the repository contract stays
// uniform instead of needing an unbounded query.
var allTimeEpoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// DateRange is an inclusive [Start, End] window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// MonthRef identifies one calendar month.
type MonthRef struct {
	Year  int
	Month time.Month
}

// Label returns the three-letter month abbreviation used by the charts.
func (m MonthRef) Label() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("Jan")
}

// ParsePeriod validates a raw specifier. Empty defaults to current_month,
// mirroring the report API's behavior.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodCurrentMonth, PeriodLast3Months, PeriodLast6Months, PeriodAllTime:
		return Period(s), nil
	case "":
		return PeriodCurrentMonth, nil
	default:
		return "", ErrInvalidPeriod
	}
}

// Resolve converts a period specifier into a concrete date range ending at now.
func Resolve(p Period, now time.Time) (DateRange, error) {
	switch p {
	case PeriodCurrentMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: start, End: now}, nil
	case PeriodLast3Months:
		return DateRange{Start: shiftMonths(now, 3), End: now}, nil
	case PeriodLast6Months:
		return DateRange{Start: shiftMonths(now, 6), End: now}, nil
	case PeriodAllTime:
		return DateRange{Start: allTimeEpoch, End: now}, nil
	default:
		return DateRange{}, ErrInvalidPeriod
	}
}

// monthsBack walks n calendar months backward with year rollover.
func monthsBack(year int, month time.Month, n int) (int, time.Month) {
	for i := 0; i < n; i++ {
		if month == time.January {
			month = time.December
			year--
		} else {
			month--
		}
	}
	return year, month
}

// daysIn returns the number of days in the given month. Day 0 of the next
// month normalizes to the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// shiftMonths moves t exactly n calendar months back, clamping the day when
// the target month is shorter (e.g. May 31 minus 3 months lands on Feb 28/29).
// Never a fixed 30-day offset.
func shiftMonths(t time.Time, n int) time.Time {
	year, month := monthsBack(t.Year(), t.Month(), n)
	day := t.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// PreviousMonth returns the calendar month immediately before now's month.
func PreviousMonth(now time.Time) MonthRef {
	year, month := monthsBack(now.Year(), now.Month(), 1)
	return MonthRef{Year: year, Month: month}
}

// LastMonths returns the n calendar months ending at now's month, oldest
// first. Iteration walks backward from the current month; the result is
// always chronological.
func LastMonths(now time.Time, n int) []MonthRef {
	refs := make([]MonthRef, n)
	year, month := now.Year(), now.Month()
	for i := n - 1; i >= 0; i-- {
		refs[i] = MonthRef{Year: year, Month: month}
		year, month = monthsBack(year, month, 1)
	}
	return refs
}

// MonthsOfYear returns January through December of the given year in order.
func MonthsOfYear(year int) []MonthRef {
	refs := make([]MonthRef, 12)
	for i := 0; i < 12; i++ {
		refs[i] = MonthRef{Year: year, Month: time.Month(i + 1)}
	}
	return refs
}
