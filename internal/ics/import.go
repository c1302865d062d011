// Package ics imports iCalendar payloads into canonical events. It is the
// "import step" that produces rule-based events: a VEVENT with an RRULE
// becomes a Rule variant carrying the raw clause text, anything else
// becomes a Single. Expansion and rule synthesis happen elsewhere.
package ics

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	appLog "notecal/internal/log"
	"notecal/internal/model"
	"notecal/internal/timeutil"
	"notecal/internal/title"
)

// Import parses a single ICS payload into canonical events. Events that
// fail to parse are logged and skipped; the rest are returned.
func Import(sourceID string, body []byte) ([]model.Event, error) {
	if len(body) == 0 {
		return nil, errors.New("ics: empty payload")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "source", sourceID)
		return nil, err
	}

	events := make([]model.Event, 0)
	for _, comp := range cal.Events() {
		ev, perr := importVEvent(comp)
		if perr != nil {
			appLog.Warn("skipping vevent", "source", sourceID, "err", perr)
			continue
		}
		events = append(events, ev)
	}

	appLog.Info("ics import completed", "source", sourceID, "event_count", len(events))
	return events, nil
}

func importVEvent(ve *ical.VEvent) (model.Event, error) {
	var common model.EventCommon

	if uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId); uidProp != nil && uidProp.Value != "" {
		common.ID = uidProp.Value
	} else {
		common.ID = uuid.NewString()
	}

	summary := ""
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		summary = p.Value
	}
	if summary == "" {
		return nil, errors.New("missing summary")
	}
	parsed := title.Parse(summary)
	common.Title = parsed.Title
	common.Category = parsed.Category

	common.AllDay = isAllDay(ve)
	if tz := startTZID(ve); tz != "" {
		common.Timezone = tz
	}

	var start time.Time
	startTime, endTime := "", ""
	var end time.Time
	hasEnd := false

	if common.AllDay {
		// Date-only values are parsed directly; libraries disagree on
		// how to zone them and only the calendar date matters here.
		prop := ve.GetProperty(ical.ComponentPropertyDtStart)
		var perr error
		start, perr = parseICSTime(prop.Value)
		if perr != nil {
			return nil, perr
		}
		if endProp := ve.GetProperty(ical.ComponentPropertyDtEnd); endProp != nil {
			if e, eerr := parseICSTime(endProp.Value); eerr == nil {
				end, hasEnd = e, true
			}
		}
	} else {
		var serr error
		start, serr = ve.GetStartAt()
		if serr != nil {
			return nil, serr
		}
		startTime = timeutil.FormatClockTime(start)
		if e, eerr := ve.GetEndAt(); eerr == nil {
			end, hasEnd = e, true
			endTime = timeutil.FormatClockTime(e)
		}
	}

	skipDates := exceptionDates(ve)

	if rruleProp := ve.GetProperty(ical.ComponentPropertyRrule); rruleProp != nil && rruleProp.Value != "" {
		return &model.Rule{
			EventCommon: common,
			StartDate:   timeutil.FormatDate(start),
			StartTime:   startTime,
			EndTime:     endTime,
			RuleText:    rruleProp.Value,
			SkipDates:   skipDates,
		}, nil
	}

	single := &model.Single{
		EventCommon: common,
		Date:        timeutil.FormatDate(start),
		StartTime:   startTime,
		EndTime:     endTime,
	}
	if hasEnd {
		// DTEND is exclusive; the canonical end date is inclusive.
		inclusive := end
		if common.AllDay {
			inclusive = inclusive.AddDate(0, 0, -1)
		}
		if !timeutil.SameDate(start, inclusive) {
			single.EndDate = timeutil.FormatDate(inclusive)
		}
	}
	return single, nil
}

// isAllDay detects all-day events by VALUE=DATE or a date-shaped DTSTART.
func isAllDay(ve *ical.VEvent) bool {
	dtStartProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStartProp == nil {
		return false
	}
	if params := dtStartProp.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(dtStartProp.Value, "T")
}

func startTZID(ve *ical.VEvent) string {
	dtStartProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStartProp == nil || dtStartProp.ICalParameters == nil {
		return ""
	}
	if tzs, ok := dtStartProp.ICalParameters["TZID"]; ok && len(tzs) > 0 {
		return tzs[0]
	}
	return ""
}

// exceptionDates collects EXDATE entries as canonical skip dates. Only
// the date portion matters; skip matching is by calendar date.
func exceptionDates(ve *ical.VEvent) []string {
	var out []string
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part); err == nil {
				out = append(out, timeutil.FormatDate(t))
			}
		}
	}
	return out
}

// parseICSTime parses basic ICS DATE / DATE-TIME / UTC forms.
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}
	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}
	if strings.Contains(v, "T") {
		return time.Parse("20060102T150405", v)
	}
	return time.Parse("20060102", v)
}
