// Package timeutil holds the pure time/date helpers shared by the
// converters and the recurrence engine. Everything here is zone-aware:
// combining a date with a clock time means setting wall-clock fields in
// the target zone, never shifting a UTC instant by a duration, so DST
// transitions cannot corrupt event times.
package timeutil

import (
	"fmt"
	"time"
)

const (
	// ISODate is the canonical storage date layout.
	ISODate = "2006-01-02"
)

// clockLayouts are the accepted clock-time grammars, in preference order.
// The first successful parse wins.
var clockLayouts = []string{
	"3:04 PM",
	"15:04",
	"15:04:05",
}

// ParseClockTime parses a clock-time string into a duration since
// midnight. Accepted forms: "h:mm a", "HH:mm", "HH:mm:ss".
func ParseClockTime(text string) (time.Duration, error) {
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		return time.Duration(t.Hour())*time.Hour +
			time.Duration(t.Minute())*time.Minute +
			time.Duration(t.Second())*time.Second, nil
	}
	return 0, fmt.Errorf("timeutil: unparseable clock time %q", text)
}

// FormatClockTime renders an instant's wall-clock time as "HH:mm",
// suppressing seconds.
func FormatClockTime(t time.Time) string {
	return t.Format("15:04")
}

// ParseDate parses a canonical ISO date.
func ParseDate(text string) (time.Time, error) {
	t, err := time.Parse(ISODate, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: unparseable date %q", text)
	}
	return t, nil
}

// FormatDate renders an instant's calendar date in the canonical layout.
func FormatDate(t time.Time) string {
	return t.Format(ISODate)
}

// DateIn returns midnight of the given ISO date in loc.
func DateIn(dateText string, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(dateText)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc), nil
}

// CombineDateAndTime builds a zoned instant from an ISO date and a clock
// time string. It fails if either component fails to parse.
func CombineDateAndTime(dateText, timeText string, loc *time.Location) (time.Time, error) {
	day, err := DateIn(dateText, loc)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := ParseClockTime(timeText)
	if err != nil {
		return time.Time{}, err
	}
	return AtClock(day, clock), nil
}

// AtClock sets the wall-clock offset on day, in day's own zone.
func AtClock(day time.Time, sinceMidnight time.Duration) time.Time {
	h := int(sinceMidnight / time.Hour)
	m := int(sinceMidnight % time.Hour / time.Minute)
	s := int(sinceMidnight % time.Minute / time.Second)
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, s, 0, day.Location())
}

// StartOfDay truncates an instant to midnight in its own zone.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last second of the instant's calendar day in its
// own zone.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// SameDate reports whether two instants fall on the same calendar date,
// each judged in its own zone.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayOffset is the signed number of calendar days the date representation
// of instant t shifts by when moved from zone `from` to zone `to`.
// +1 means the `to` view lands one day later than the `from` view.
func DayOffset(t time.Time, from, to *time.Location) int {
	a := StartOfDay(t.In(from))
	b := StartOfDay(t.In(to))
	// Compare the naive date tuples, not the instants.
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}

// WallClockUTC copies an instant's local wall-clock fields verbatim into
// a UTC instant. This is not a timezone conversion; it reproduces the
// "floating" timestamp encoding some recurrence consumers expect for
// exception dates.
func WallClockUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
