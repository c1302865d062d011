package convert

import (
	"errors"
	"time"

	appLog "notecal/internal/log"
	"notecal/internal/model"
	"notecal/internal/recur"
	"notecal/internal/timeutil"
	"notecal/internal/title"
)

var errBadEndDate = errors.New("unparseable end date")

// ToRenderEvent produces the render-friendly description of one canonical
// event. ok=false means the event cannot be rendered (logged); the caller
// must skip it, never crash on it.
func ToRenderEvent(ev model.Event, opts Options) (*RenderEvent, bool) {
	if err := model.Validate(ev); err != nil {
		appLog.Error("convert: invalid event", err, "event_id", ev.Common().ID)
		return nil, false
	}

	c := ev.Common()
	out := &RenderEvent{
		ID:     c.ID,
		Title:  c.Title,
		AllDay: c.AllDay,
		Extended: ExtendedProps{
			Category:         c.Category,
			SubCategory:      c.SubCategory,
			IsTask:           c.IsTask,
			Completed:        c.Completed,
			RecurringEventID: c.RecurringEventID,
		},
	}

	if c.SubCategory != "" {
		out.Title = title.Construct(c.Category, c.Title)
	}

	if style, ok := opts.Palette[c.Category]; ok {
		out.Color = style.Color
		out.TextColor = style.TextColor
	}

	if opts.GroupByCategory && c.Category != "" {
		sub := c.SubCategory
		if sub == "" {
			sub = NoSubCategory
		}
		out.ResourceID = c.Category + ResourceSeparator + sub
	}

	switch e := ev.(type) {
	case *model.Single:
		if !fillSingle(out, e, opts) {
			return nil, false
		}
	case *model.Recurring:
		out.Extended.DaysOfWeek = model.Codes(e.DaysOfWeek)
		out.Extended.StartRecur = e.StartRecur
		out.Extended.EndRecur = e.EndRecur
		out.Extended.StartTime = e.StartTime
		out.Extended.EndTime = e.EndTime
		if !fillRecurrence(out, ev, opts) {
			return nil, false
		}
	case *model.Rule:
		out.Extended.StartTime = e.StartTime
		out.Extended.EndTime = e.EndTime
		if !fillRecurrence(out, ev, opts) {
			return nil, false
		}
	}

	return out, true
}

func fillSingle(out *RenderEvent, e *model.Single, opts Options) bool {
	zone, err := recur.ResolveZone(e, opts.ZoneOverride, opts.DisplayZone)
	if err != nil {
		appLog.Error("convert: zone resolution failed", err, "event_id", e.ID)
		return false
	}

	if e.AllDay {
		start, err := timeutil.DateIn(e.Date, zone)
		if err != nil {
			appLog.Error("convert: bad event date", err, "event_id", e.ID, "date", e.Date)
			return false
		}
		out.Start = start
		end, ok := exclusiveEndDay(e, zone, opts.Local)
		if !ok {
			return false
		}
		out.End = end
		return true
	}

	start, err := timeutil.CombineDateAndTime(e.Date, e.StartTime, zone)
	if err != nil {
		appLog.Error("convert: bad event start", err, "event_id", e.ID)
		return false
	}
	out.Start = start

	endDay := e.Date
	if e.EndDate != "" {
		d, ok := adjustEndDate(e.EndDate, zone, opts.Local)
		if !ok {
			appLog.Error("convert: bad event end date", errBadEndDate, "event_id", e.ID, "end_date", e.EndDate)
			return false
		}
		endDay = d
	}
	end, err := timeutil.CombineDateAndTime(endDay, e.EndTime, zone)
	if err != nil {
		appLog.Error("convert: bad event end", err, "event_id", e.ID)
		return false
	}
	out.End = end
	return true
}

// exclusiveEndDay computes the exclusive all-day end instant. A locally
// owned calendar stores inclusive end dates, so those gain one day; an
// external calendar's end date passes through unchanged.
func exclusiveEndDay(e *model.Single, zone *time.Location, local bool) (time.Time, bool) {
	if e.EndDate == "" {
		start, err := timeutil.DateIn(e.Date, zone)
		if err != nil {
			return time.Time{}, false
		}
		return start.AddDate(0, 0, 1), true
	}

	day, err := timeutil.DateIn(e.EndDate, zone)
	if err != nil {
		appLog.Error("convert: bad event end date", err, "event_id", e.ID, "end_date", e.EndDate)
		return time.Time{}, false
	}
	if local {
		day = day.AddDate(0, 0, 1)
	}
	return day, true
}

// adjustEndDate applies the inclusive-to-exclusive shift on a date string.
func adjustEndDate(endDate string, zone *time.Location, local bool) (string, bool) {
	if !local {
		return endDate, true
	}
	day, err := timeutil.DateIn(endDate, zone)
	if err != nil {
		return "", false
	}
	return timeutil.FormatDate(day.AddDate(0, 0, 1)), true
}

func fillRecurrence(out *RenderEvent, ev model.Event, opts Options) bool {
	zone, err := recur.ResolveZone(ev, opts.ZoneOverride, opts.DisplayZone)
	if err != nil {
		appLog.Error("convert: zone resolution failed", err, "event_id", ev.Common().ID)
		return false
	}

	s, err := recur.Synthesize(ev, zone, opts.DisplayZone)
	if err != nil {
		appLog.Error("convert: recurrence synthesis failed", err, "event_id", ev.Common().ID)
		return false
	}
	text, err := s.Text()
	if err != nil {
		appLog.Error("convert: recurrence text rendering failed", err, "event_id", ev.Common().ID)
		return false
	}

	out.RuleText = text
	out.Duration = s.Duration
	return true
}
