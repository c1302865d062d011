package recur

import (
	"time"

	"github.com/teambition/rrule-go"

	appLog "notecal/internal/log"
	"notecal/internal/model"
	"notecal/internal/timeutil"
)

// Occurrence is one concrete instance of a recurring series.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// Next returns the earliest occurrence strictly after ref, or ok=false
// when there is none, the rule cannot be constructed, or the occurrence
// date is skipped. A skipped date is reported as "no occurrence" rather
// than searching past it; callers poll again on their own cadence.
func Next(ev model.Event, ref time.Time, target, fallback *time.Location) (Occurrence, bool) {
	return occurrenceAfter(ev, ref, false, target, fallback)
}

// First returns the earliest occurrence at or after ref, under the same
// rules as Next.
func First(ev model.Event, ref time.Time, target, fallback *time.Location) (Occurrence, bool) {
	return occurrenceAfter(ev, ref, true, target, fallback)
}

func occurrenceAfter(ev model.Event, ref time.Time, inclusive bool, target, fallback *time.Location) (Occurrence, bool) {
	s, err := Synthesize(ev, target, fallback)
	if err != nil {
		appLog.Error("recur: occurrence query failed", err, "event_id", ev.Common().ID)
		return Occurrence{}, false
	}

	opt, err := rrule.StrToROption(s.RuleValue)
	if err != nil {
		appLog.Error("recur: synthesized rule did not parse back", err, "event_id", ev.Common().ID, "rule", s.RuleValue)
		return Occurrence{}, false
	}
	opt.Dtstart = s.Anchor
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		appLog.Error("recur: rule construction failed", err, "event_id", ev.Common().ID, "rule", s.RuleValue)
		return Occurrence{}, false
	}

	next := r.After(ref, inclusive)
	if next.IsZero() {
		return Occurrence{}, false
	}

	if skipped(ev, next, fallback) {
		return Occurrence{}, false
	}

	occ := Occurrence{Start: next, End: next}
	if s.Duration > 0 {
		occ.End = next.Add(s.Duration)
	}
	return occ, true
}

// skipped reports whether the occurrence's calendar date is excluded.
// Matching is by date, never by time. Skip dates on rule events name
// calendar days in the event's own zone, so the occurrence is viewed in
// that zone before comparing; the display zone may put the same instant
// on a different day.
func skipped(ev model.Event, occ time.Time, fallback *time.Location) bool {
	var dates []string
	switch e := ev.(type) {
	case *model.Recurring:
		dates = e.SkipDates
	case *model.Rule:
		dates = e.SkipDates
		if src, err := sourceZone(e, fallback); err == nil {
			occ = occ.In(src)
		}
	default:
		return false
	}

	date := timeutil.FormatDate(occ)
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}
