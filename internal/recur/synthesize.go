// Package recur turns canonical recurring events into the recurrence-rule
// boundary format consumed by the rendering widget, and evaluates concrete
// occurrences for scheduling. The rule text is a small RFC5545-style
// subset (FREQ/BYDAY/BYMONTH/BYMONTHDAY/BYSETPOS/INTERVAL/UNTIL) carried
// together with a zoned DTSTART anchor and zoned EXDATE lines.
package recur

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"notecal/internal/model"
	"notecal/internal/timeutil"
)

// nowFunc is the clock used for the defensive default anchor; tests
// override it.
var nowFunc = time.Now

// Synthesized is the recurrence description handed to the render boundary.
type Synthesized struct {
	// Anchor is the zoned start instant (DTSTART) of the series, in the
	// target display zone.
	Anchor time.Time
	// RuleValue is the RRULE clause text, e.g. "FREQ=WEEKLY;BYDAY=MO,WE".
	RuleValue string
	// Exceptions are the zoned exception instants (EXDATE lines).
	Exceptions []time.Time
	// Duration is the wall-clock length of each occurrence; zero means
	// "unspecified" and must not be emitted.
	Duration time.Duration
}

// Text renders the newline-joined DTSTART / RRULE / EXDATE block.
func (s *Synthesized) Text() (string, error) {
	opt, err := rrule.StrToROption(s.RuleValue)
	if err != nil {
		return "", fmt.Errorf("recur: bad rule value %q: %w", s.RuleValue, err)
	}
	opt.Dtstart = s.Anchor
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return "", err
	}

	var set rrule.Set
	set.RRule(r)
	set.DTStart(s.Anchor)
	for _, ex := range s.Exceptions {
		set.ExDate(ex)
	}
	return strings.Join(set.Recurrence(), "\n"), nil
}

// ResolveZone picks the zone a recurrence should be rendered in:
// explicit override first, then the event's own zone, then the fallback
// (configured display zone).
func ResolveZone(ev model.Event, override, fallback *time.Location) (*time.Location, error) {
	if override != nil {
		return override, nil
	}
	return sourceZone(ev, fallback)
}

// sourceZone resolves the zone the event itself is defined in.
func sourceZone(ev model.Event, fallback *time.Location) (*time.Location, error) {
	if tz := ev.Common().Timezone; tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("recur: unknown timezone %q: %w", tz, err)
		}
		return loc, nil
	}
	return fallback, nil
}

// Synthesize builds the recurrence description for a recurring or
// rule-based canonical event. target is the display zone the output must
// be anchored in; fallback is the configured default zone used when the
// event names no zone of its own. Any parse failure fails the whole
// conversion; no partial output is returned.
func Synthesize(ev model.Event, target, fallback *time.Location) (*Synthesized, error) {
	switch e := ev.(type) {
	case *model.Recurring:
		return synthesizeRecurring(e, target)
	case *model.Rule:
		src, err := sourceZone(e, fallback)
		if err != nil {
			return nil, err
		}
		return synthesizeRule(e, src, target)
	default:
		return nil, fmt.Errorf("recur: event type %q has no recurrence", ev.Type())
	}
}

func synthesizeRecurring(e *model.Recurring, target *time.Location) (*Synthesized, error) {
	// Anchor date: StartRecur, else start of the current year. The
	// default keeps a missing anchor from expanding backwards towards
	// the epoch once the renderer materializes the rule.
	var day time.Time
	if e.StartRecur != "" {
		var err error
		day, err = timeutil.DateIn(e.StartRecur, target)
		if err != nil {
			return nil, err
		}
	} else {
		now := nowFunc().In(target)
		day = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, target)
	}

	var startClock time.Duration
	if !e.AllDay {
		var err error
		startClock, err = timeutil.ParseClockTime(e.StartTime)
		if err != nil {
			return nil, err
		}
	}
	anchor := timeutil.AtClock(day, startClock)

	opt := rrule.ROption{Dtstart: anchor}
	switch {
	case len(e.DaysOfWeek) > 0:
		opt.Freq = rrule.WEEKLY
		for _, d := range e.DaysOfWeek {
			opt.Byweekday = append(opt.Byweekday, toRRuleWeekday(d))
		}
	case e.NthWeekdayOfMonth != nil:
		opt.Freq = rrule.MONTHLY
		opt.Byweekday = []rrule.Weekday{toRRuleWeekday(e.NthWeekdayOfMonth.Weekday)}
		opt.Bysetpos = []int{e.NthWeekdayOfMonth.Ordinal}
	case e.Month != nil && e.DayOfMonth != nil:
		opt.Freq = rrule.YEARLY
		opt.Bymonth = []int{*e.Month}
		opt.Bymonthday = []int{*e.DayOfMonth}
	case e.DayOfMonth != nil:
		opt.Freq = rrule.MONTHLY
		opt.Bymonthday = []int{*e.DayOfMonth}
	default:
		return nil, errors.New("recur: recurring event has no recognized pattern")
	}

	if e.RepeatInterval > 1 {
		opt.Interval = e.RepeatInterval
	}

	// An end bound is only attached when it does not precede the first
	// generated occurrence; a bound that would empty the series is
	// dropped and the series stays open-ended.
	if e.EndRecur != "" {
		r, err := rrule.NewRRule(opt)
		if err != nil {
			return nil, err
		}
		first := r.After(anchor, true)

		endDay, err := timeutil.DateIn(e.EndRecur, target)
		if err != nil {
			return nil, err
		}
		until := timeutil.EndOfDay(endDay)
		if first.IsZero() || !until.Before(timeutil.StartOfDay(first)) {
			opt.Until = until
		}
	}

	if _, err := rrule.NewRRule(opt); err != nil {
		return nil, err
	}

	out := &Synthesized{
		Anchor:    anchor,
		RuleValue: opt.RRuleString(),
	}

	for _, sd := range e.SkipDates {
		d, err := timeutil.DateIn(sd, target)
		if err != nil {
			return nil, err
		}
		out.Exceptions = append(out.Exceptions, timeutil.AtClock(d, startClock))
	}

	if !e.AllDay && e.EndTime != "" {
		endClock, err := timeutil.ParseClockTime(e.EndTime)
		if err != nil {
			return nil, err
		}
		if d := endClock - startClock; d > 0 {
			out.Duration = d
		}
	}

	return out, nil
}

func synthesizeRule(e *model.Rule, src, target *time.Location) (*Synthesized, error) {
	var startClock time.Duration
	if !e.AllDay {
		var err error
		startClock, err = timeutil.ParseClockTime(e.StartTime)
		if err != nil {
			return nil, err
		}
	}

	srcDay, err := timeutil.DateIn(e.StartDate, src)
	if err != nil {
		return nil, err
	}
	srcStart := timeutil.AtClock(srcDay, startClock)
	tgtStart := srcStart.In(target)

	opt, err := rrule.StrToROption(e.RuleText)
	if err != nil {
		return nil, fmt.Errorf("recur: bad rule text %q: %w", e.RuleText, err)
	}
	opt.Dtstart = tgtStart

	// Viewing the same instant in the display zone can land it on a
	// different calendar day than in the source zone. A weekday-based
	// rule written for the source day grid would then expand onto the
	// wrong local weekdays, so every BYDAY symbol is rotated by the
	// day-shift offset to stay consistent with the target-zone anchor.
	if offset := timeutil.DayOffset(srcStart, src, target); offset != 0 && len(opt.Byweekday) > 0 {
		for i := range opt.Byweekday {
			opt.Byweekday[i] = rotateWeekday(opt.Byweekday[i], offset)
		}
	}

	if _, err := rrule.NewRRule(*opt); err != nil {
		return nil, err
	}

	out := &Synthesized{
		Anchor:    tgtStart,
		RuleValue: opt.RRuleString(),
	}

	// Exception instants use the wall-clock-preserved encoding the
	// rendering engine matches its internally-adjusted occurrences
	// against: the target-zone wall-clock fields of the skip instant,
	// re-labelled as UTC. This is a format shim, not a conversion.
	for _, sd := range e.SkipDates {
		exDay, derr := timeutil.DateIn(sd, src)
		if derr != nil {
			return nil, derr
		}
		exInTarget := timeutil.AtClock(exDay, startClock).In(target)
		out.Exceptions = append(out.Exceptions, timeutil.WallClockUTC(exInTarget))
	}

	if !e.AllDay && e.EndTime != "" {
		endClock, cerr := timeutil.ParseClockTime(e.EndTime)
		if cerr != nil {
			return nil, cerr
		}
		srcEnd := timeutil.AtClock(srcDay, endClock)
		if endClock < startClock {
			// End clock before start clock means the occurrence rolls
			// over midnight.
			srcEnd = srcEnd.AddDate(0, 0, 1)
		}
		if d := srcEnd.Sub(srcStart); d > 0 {
			out.Duration = d
		}
	}

	return out, nil
}

// byModelWeekday maps the canonical Sunday-first weekday index onto the
// rule grammar's symbols.
var byModelWeekday = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// mondayFirst indexes rule weekdays by their grammar position (MO=0).
var mondayFirst = [7]rrule.Weekday{
	rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU,
}

func toRRuleWeekday(w model.Weekday) rrule.Weekday {
	return byModelWeekday[int(w)%7]
}

// rotateWeekday shifts a weekday symbol by offset calendar days, wrapping
// through the 7-day cycle and preserving any Nth prefix.
func rotateWeekday(wd rrule.Weekday, offset int) rrule.Weekday {
	idx := ((wd.Day()+offset)%7 + 7) % 7
	out := mondayFirst[idx]
	if n := wd.N(); n != 0 {
		out = out.Nth(n)
	}
	return out
}
