package convert

import (
	"strings"

	appLog "notecal/internal/log"
	"notecal/internal/model"
	"notecal/internal/timeutil"
	"notecal/internal/title"
)

// FromRenderEvent maps an edited occurrence back into a canonical event
// patch. newResource, when non-empty, is an explicit lane reassignment
// and wins over the occurrence's own resource key. ok=false means the
// edit could not be decoded (logged); the caller drops the edit.
func FromRenderEvent(occ EditedOccurrence, newResource string) (model.Event, bool) {
	category, subCategory := decodeResource(occ, newResource)

	common := model.EventCommon{
		ID:               occ.ID,
		Title:            cleanTitle(occ),
		Category:         category,
		SubCategory:      subCategory,
		AllDay:           occ.AllDay,
		IsTask:           occ.Extended.IsTask,
		Completed:        occ.Extended.Completed,
		RecurringEventID: occ.Extended.RecurringEventID,
	}

	// A task instance with no recorded completion state defaults to
	// "not completed" so the patch is never ambiguous.
	if common.IsTask && common.Completed == nil {
		f := false
		common.Completed = &f
	}

	// Weekday-set metadata marks the occurrence as part of a simple
	// recurring series.
	if len(occ.Extended.DaysOfWeek) > 0 {
		return reverseRecurring(occ, common)
	}
	return reverseSingle(occ, common)
}

func reverseRecurring(occ EditedOccurrence, common model.EventCommon) (model.Event, bool) {
	days, err := model.ParseWeekdays(occ.Extended.DaysOfWeek)
	if err != nil {
		appLog.Error("convert: bad weekday metadata", err, "event_id", occ.ID)
		return nil, false
	}

	ev := &model.Recurring{
		EventCommon: common,
		DaysOfWeek:  days,
		StartRecur:  occ.Extended.StartRecur,
		EndRecur:    occ.Extended.EndRecur,
		// The renderer does not expose exception info on an instance, so
		// the patch starts with no skips; merging is the caller's job.
		SkipDates: []string{},
	}
	if !occ.AllDay {
		ev.StartTime = timeutil.FormatClockTime(occ.Start)
		if !occ.End.IsZero() {
			ev.EndTime = timeutil.FormatClockTime(occ.End)
		}
	}
	return ev, true
}

func reverseSingle(occ EditedOccurrence, common model.EventCommon) (model.Event, bool) {
	ev := &model.Single{
		EventCommon: common,
		Date:        timeutil.FormatDate(occ.Start),
	}

	if !occ.AllDay {
		ev.StartTime = timeutil.FormatClockTime(occ.Start)
		if !occ.End.IsZero() {
			ev.EndTime = timeutil.FormatClockTime(occ.End)
		}
	}

	// The render layer's end is exclusive; stepping back one day
	// restores the inclusive end date. It is only recorded when it still
	// lands after the start date, so single-day events stay without one.
	if !occ.End.IsZero() {
		inclusive := occ.End.AddDate(0, 0, -1)
		if timeutil.StartOfDay(inclusive).After(timeutil.StartOfDay(occ.Start)) {
			ev.EndDate = timeutil.FormatDate(inclusive)
		}
	}

	return ev, true
}

// decodeResource resolves category and sub-category from, in order: the
// explicit reassignment, the occurrence's resource key, the metadata bag.
func decodeResource(occ EditedOccurrence, newResource string) (string, string) {
	key := newResource
	if key == "" {
		key = occ.ResourceID
	}
	if key == "" {
		return occ.Extended.Category, occ.Extended.SubCategory
	}

	parts := strings.SplitN(key, ResourceSeparator, 2)
	category := parts[0]
	subCategory := ""
	if len(parts) == 2 && parts[1] != NoSubCategory {
		subCategory = parts[1]
	}
	return category, subCategory
}

// cleanTitle strips the display prefix the forward converter added for
// sub-categorized events; otherwise the title is already clean.
func cleanTitle(occ EditedOccurrence) string {
	if occ.Extended.SubCategory == "" {
		return occ.Title
	}
	p := title.Parse(occ.Title)
	if p.Category == "" {
		return occ.Title
	}
	return p.Title
}
