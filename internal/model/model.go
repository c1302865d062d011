package model

import (
	"errors"
	"fmt"
)

// EventType discriminates the canonical event variants.
type EventType string

const (
	TypeSingle    EventType = "single"
	TypeRecurring EventType = "recurring"
	TypeRule      EventType = "rrule"
)

// Event is the closed set of canonical calendar event variants. The storage
// layer and the converters only ever see one of Single, Recurring or Rule;
// fields that do not belong to a variant simply do not exist on it.
type Event interface {
	Type() EventType
	Common() *EventCommon
}

// EventCommon holds the fields shared by every variant.
type EventCommon struct {
	// ID references the storage-layer identity of the event. This package
	// never mints or interprets it.
	ID string `yaml:"id,omitempty"`

	// Title is the clean, category-stripped title.
	Title       string `yaml:"title"`
	Category    string `yaml:"category,omitempty"`
	SubCategory string `yaml:"subCategory,omitempty"`

	AllDay bool `yaml:"allDay"`

	// Timezone is an IANA zone name. Empty means "inherit the display
	// timezone".
	Timezone string `yaml:"timezone,omitempty"`

	// IsTask marks events with task semantics; Completed is tri-state so
	// that "task with no recorded completion" stays distinguishable.
	IsTask    bool  `yaml:"isTask,omitempty"`
	Completed *bool `yaml:"completed,omitempty"`

	// RecurringEventID back-references the series this event overrides,
	// when it is a single-instance override of a recurring event.
	RecurringEventID string `yaml:"recurringEventId,omitempty"`
}

// Single is a one-off event on a calendar date, optionally spanning
// multiple days (EndDate is inclusive) and optionally timed.
type Single struct {
	EventCommon `yaml:",inline"`

	Date    string `yaml:"date"`              // ISO date, YYYY-MM-DD
	EndDate string `yaml:"endDate,omitempty"` // inclusive; empty = single day

	StartTime string `yaml:"startTime,omitempty"` // HH:mm[:ss], empty when AllDay
	EndTime   string `yaml:"endTime,omitempty"`
}

// NthWeekday names the Nth occurrence of a weekday within a month,
// e.g. {Weekday: Tuesday, Ordinal: 2} for "second Tuesday".
type NthWeekday struct {
	Weekday Weekday `yaml:"weekday"`
	Ordinal int     `yaml:"ordinal"` // 1..5, or -1 for "last"
}

// Recurring is a simple-pattern recurring event. Exactly one pattern must
// be present: DaysOfWeek (weekly), NthWeekdayOfMonth (monthly by position),
// Month+DayOfMonth (yearly), or DayOfMonth alone (monthly).
type Recurring struct {
	EventCommon `yaml:",inline"`

	DaysOfWeek        []Weekday   `yaml:"daysOfWeek,omitempty"`
	DayOfMonth        *int        `yaml:"dayOfMonth,omitempty"`
	Month             *int        `yaml:"month,omitempty"` // 1..12
	NthWeekdayOfMonth *NthWeekday `yaml:"nthWeekday,omitempty"`

	// StartRecur anchors the series; empty falls back to a defensive
	// default (start of the current year) at conversion time.
	StartRecur string `yaml:"startRecur,omitempty"`
	// EndRecur, when present, bounds the series inclusively.
	EndRecur string `yaml:"endRecur,omitempty"`

	// RepeatInterval > 1 means "every N periods".
	RepeatInterval int `yaml:"repeatInterval,omitempty"`

	// SkipDates are ISO dates excluded from the series. Exclusion matches
	// the calendar date of a generated occurrence, never its time.
	SkipDates []string `yaml:"skipDates,omitempty"`

	StartTime string `yaml:"startTime,omitempty"`
	EndTime   string `yaml:"endTime,omitempty"`
}

// Rule is a recurring event carrying explicit recurrence-rule text
// (FREQ=...;BYDAY=... clauses), as produced by an import step or typed in
// by the user.
type Rule struct {
	EventCommon `yaml:",inline"`

	StartDate string `yaml:"startDate"`
	StartTime string `yaml:"startTime,omitempty"`
	EndTime   string `yaml:"endTime,omitempty"`

	RuleText  string   `yaml:"rrule"`
	SkipDates []string `yaml:"skipDates,omitempty"`
}

func (*Single) Type() EventType    { return TypeSingle }
func (*Recurring) Type() EventType { return TypeRecurring }
func (*Rule) Type() EventType      { return TypeRule }

func (e *Single) Common() *EventCommon    { return &e.EventCommon }
func (e *Recurring) Common() *EventCommon { return &e.EventCommon }
func (e *Rule) Common() *EventCommon      { return &e.EventCommon }

// HasPattern reports whether the event carries at least one recognized
// recurrence pattern clause.
func (e *Recurring) HasPattern() bool {
	if len(e.DaysOfWeek) > 0 {
		return true
	}
	if e.NthWeekdayOfMonth != nil {
		return true
	}
	return e.DayOfMonth != nil
}

// Validate checks variant-specific required fields. A failed validation
// means the event must not be converted; it never means "guess".
func Validate(ev Event) error {
	if ev == nil {
		return errors.New("model: nil event")
	}
	if ev.Common().Title == "" {
		return errors.New("model: missing title")
	}

	switch e := ev.(type) {
	case *Single:
		if e.Date == "" {
			return errors.New("model: single event missing date")
		}
		if !e.AllDay && (e.StartTime == "" || e.EndTime == "") {
			return errors.New("model: timed single event missing start/end time")
		}
	case *Recurring:
		if !e.HasPattern() {
			return errors.New("model: recurring event has no recognized pattern")
		}
		if !e.AllDay && e.StartTime == "" {
			return errors.New("model: timed recurring event missing start time")
		}
	case *Rule:
		if e.StartDate == "" {
			return errors.New("model: rule event missing start date")
		}
		if e.RuleText == "" {
			return errors.New("model: rule event missing rule text")
		}
	default:
		return fmt.Errorf("model: unknown event type %T", ev)
	}
	return nil
}
