package ics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notecal/internal/model"
)

func icsPayload(body string) []byte {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//notecal//test//EN",
		body,
		"END:VCALENDAR",
		"",
	}
	return []byte(strings.Join(lines, "\r\n"))
}

func TestImportRecurringVEvent(t *testing.T) {
	payload := icsPayload(strings.Join([]string{
		"BEGIN:VEVENT",
		"UID:abc-1",
		"SUMMARY:Work - Standup",
		"DTSTART:20250106T093000Z",
		"DTEND:20250106T101500Z",
		"RRULE:FREQ=WEEKLY;BYDAY=MO",
		"EXDATE:20250113T093000Z",
		"END:VEVENT",
	}, "\r\n"))

	events, err := Import("test", payload)
	require.NoError(t, err)
	require.Len(t, events, 1)

	rule, ok := events[0].(*model.Rule)
	require.True(t, ok, "a VEVENT with an RRULE imports as a rule event")

	assert.Equal(t, "abc-1", rule.ID)
	assert.Equal(t, "Standup", rule.Title)
	assert.Equal(t, "Work", rule.Category)
	assert.Equal(t, "2025-01-06", rule.StartDate)
	assert.Equal(t, "09:30", rule.StartTime)
	assert.Equal(t, "10:15", rule.EndTime)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=MO", rule.RuleText)
	assert.Equal(t, []string{"2025-01-13"}, rule.SkipDates)
	assert.False(t, rule.AllDay)
}

func TestImportSingleAllDay(t *testing.T) {
	payload := icsPayload(strings.Join([]string{
		"BEGIN:VEVENT",
		"UID:abc-2",
		"SUMMARY:Offsite",
		"DTSTART;VALUE=DATE:20250310",
		"DTEND;VALUE=DATE:20250312",
		"END:VEVENT",
	}, "\r\n"))

	events, err := Import("test", payload)
	require.NoError(t, err)
	require.Len(t, events, 1)

	single, ok := events[0].(*model.Single)
	require.True(t, ok)
	assert.True(t, single.AllDay)
	assert.Equal(t, "2025-03-10", single.Date)
	// DTEND is exclusive; the canonical end date is inclusive.
	assert.Equal(t, "2025-03-11", single.EndDate)
	assert.Empty(t, single.StartTime)
}

func TestImportSkipsBrokenVEvent(t *testing.T) {
	payload := icsPayload(strings.Join([]string{
		"BEGIN:VEVENT",
		"UID:abc-3",
		"DTSTART:20250106T093000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:abc-4",
		"SUMMARY:Kept",
		"DTSTART:20250107T100000Z",
		"DTEND:20250107T110000Z",
		"END:VEVENT",
	}, "\r\n"))

	events, err := Import("test", payload)
	require.NoError(t, err)
	require.Len(t, events, 1, "the summary-less event is skipped")
	assert.Equal(t, "Kept", events[0].Common().Title)
}

func TestImportMintsIDWhenUIDMissing(t *testing.T) {
	payload := icsPayload(strings.Join([]string{
		"BEGIN:VEVENT",
		"SUMMARY:No UID",
		"DTSTART:20250106T093000Z",
		"DTEND:20250106T100000Z",
		"END:VEVENT",
	}, "\r\n"))

	events, err := Import("test", payload)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].Common().ID)
}

func TestImportEmptyPayload(t *testing.T) {
	_, err := Import("test", nil)
	assert.Error(t, err)
}
