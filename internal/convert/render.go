// Package convert translates canonical events into render-friendly
// occurrence descriptions for the calendar widget, and maps user-edited
// occurrences back into canonical patches. It never mutates its inputs;
// a conversion that cannot complete returns ok=false and logs, and the
// caller skips the event.
package convert

import (
	"time"
)

// NoSubCategory is the resource-key sentinel for "category without a
// sub-category lane".
const NoSubCategory = "__none__"

// ResourceSeparator joins category and sub-category in a resource key.
const ResourceSeparator = "::"

// Colors is the display palette entry for one category.
type Colors struct {
	Color     string
	TextColor string
}

// ExtendedProps is the metadata bag attached to a render event so that
// edits can be mapped back into a canonical patch.
type ExtendedProps struct {
	Category    string
	SubCategory string

	IsTask    bool
	Completed *bool

	// DaysOfWeek (weekday storage codes) marks the occurrence as part of
	// a simple recurring series; the reverse converter branches on it.
	DaysOfWeek []string
	StartRecur string
	EndRecur   string

	StartTime string
	EndTime   string

	RecurringEventID string
}

// RenderEvent is the occurrence description handed to the rendering
// widget. Single events carry explicit Start/End instants; recurring and
// rule-based events carry the recurrence block text plus a duration.
type RenderEvent struct {
	ID     string
	Title  string
	AllDay bool

	Start time.Time
	End   time.Time

	// RuleText is the newline-joined DTSTART/RRULE/EXDATE block; empty
	// for single events.
	RuleText string
	// Duration is each occurrence's length; zero means unspecified.
	Duration time.Duration

	Color     string
	TextColor string

	// ResourceID is "category::subCategory" (or the NoSubCategory
	// sentinel) when category grouping is enabled.
	ResourceID string

	Extended ExtendedProps
}

// Options carries the caller-side context a conversion needs. Zones are
// explicit parameters so the converters stay pure and testable.
type Options struct {
	// DisplayZone is the configured default display zone. Required.
	DisplayZone *time.Location
	// ZoneOverride, when non-nil, wins over the event's own zone.
	ZoneOverride *time.Location

	// Palette maps category names to display colors.
	Palette map[string]Colors

	// GroupByCategory enables resource-key emission.
	GroupByCategory bool

	// Local marks the source calendar as locally owned: its inclusive
	// end dates need the +1-day exclusive adjustment. Externally sourced
	// calendars are assumed to carry exclusive end dates already.
	Local bool
}

// EditedOccurrence is what comes back from the render layer after a user
// edit (drag, resize, lane reassignment).
type EditedOccurrence struct {
	ID     string
	Title  string
	AllDay bool

	Start time.Time
	End   time.Time

	ResourceID string
	Extended   ExtendedProps
}
