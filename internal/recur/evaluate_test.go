package recur

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notecal/internal/model"
	"notecal/internal/timeutil"
)

func weeklyStandup() *model.Recurring {
	return &model.Recurring{
		EventCommon: model.EventCommon{ID: "s1", Title: "Standup"},
		DaysOfWeek:  []model.Weekday{model.Monday},
		StartRecur:  "2025-01-06",
		StartTime:   "09:00",
		EndTime:     "10:00",
	}
}

func TestNextOccurrence(t *testing.T) {
	ev := weeklyStandup()
	ref := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)

	occ, ok := Next(ev, ref, time.UTC, time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC), occ.Start)
	assert.Equal(t, time.Date(2025, 1, 13, 10, 0, 0, 0, time.UTC), occ.End)
}

func TestNextIsStrictlyAfter(t *testing.T) {
	ev := weeklyStandup()
	at := time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC)

	occ, ok := Next(ev, at, time.UTC, time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC), occ.Start)
}

func TestFirstIsInclusive(t *testing.T) {
	ev := weeklyStandup()
	at := time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC)

	occ, ok := First(ev, at, time.UTC, time.UTC)
	require.True(t, ok)
	assert.Equal(t, at, occ.Start)
}

func TestSkippedDateYieldsNoOccurrence(t *testing.T) {
	ev := weeklyStandup()
	ev.SkipDates = []string{"2025-01-13"}

	// The next generated occurrence falls on a skipped date: the query
	// reports "no occurrence" instead of searching past it.
	ref := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
	_, ok := Next(ev, ref, time.UTC, time.UTC)
	assert.False(t, ok)

	// Once the reference moves past the skipped instance the following
	// one is visible again.
	ref = time.Date(2025, 1, 13, 12, 0, 0, 0, time.UTC)
	occ, ok := Next(ev, ref, time.UTC, time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC), occ.Start)
}

func TestSkippedDateMatchesSourceZone(t *testing.T) {
	tokyo := mustZone(t, "Asia/Tokyo")

	// Monday 22:00 in New York is already Tuesday in Tokyo, so the
	// Tokyo-anchored series runs on Tuesdays. The skip date names the
	// New York calendar day; the Jan 14 Tokyo instance is the excluded
	// Jan 13 New York one and must not come back.
	ev := &model.Rule{
		EventCommon: model.EventCommon{ID: "z1", Title: "Late sync", Timezone: "America/New_York"},
		StartDate:   "2025-01-06",
		StartTime:   "22:00",
		EndTime:     "23:00",
		RuleText:    "FREQ=WEEKLY;BYDAY=MO",
		SkipDates:   []string{"2025-01-13"},
	}

	ref := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	_, ok := Next(ev, ref, tokyo, tokyo)
	assert.False(t, ok)

	// The following instance is visible again and still lands on a New
	// York Monday.
	ref = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	occ, ok := Next(ev, ref, tokyo, tokyo)
	require.True(t, ok)
	ny := mustZone(t, "America/New_York")
	assert.Equal(t, "2025-01-20", timeutil.FormatDate(occ.Start.In(ny)))
	assert.Equal(t, time.Monday, occ.Start.In(ny).Weekday())
}

func TestNextHonorsEndBound(t *testing.T) {
	ev := weeklyStandup()
	ev.EndRecur = "2025-01-20"

	ref := time.Date(2025, 1, 21, 0, 0, 0, 0, time.UTC)
	_, ok := Next(ev, ref, time.UTC, time.UTC)
	assert.False(t, ok)
}

func TestNextAllDayHasNoDuration(t *testing.T) {
	ev := &model.Recurring{
		EventCommon: model.EventCommon{ID: "g1", Title: "Gym", AllDay: true},
		DaysOfWeek:  []model.Weekday{model.Wednesday},
		StartRecur:  "2025-01-01",
	}

	ref := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	occ, ok := Next(ev, ref, time.UTC, time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), occ.Start)
	assert.Equal(t, occ.Start, occ.End)
}

func TestNextRuleVariant(t *testing.T) {
	ev := &model.Rule{
		EventCommon: model.EventCommon{ID: "r1", Title: "Payday", AllDay: true},
		StartDate:   "2025-01-01",
		RuleText:    "FREQ=MONTHLY;BYMONTHDAY=1",
	}

	ref := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	occ, ok := Next(ev, ref, time.UTC, time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), occ.Start)
}

func TestNextOnBrokenEvent(t *testing.T) {
	ev := &model.Recurring{
		EventCommon: model.EventCommon{ID: "b1", Title: "Broken"},
		DaysOfWeek:  []model.Weekday{model.Monday},
		StartRecur:  "2025-01-06",
		StartTime:   "whenever",
	}

	_, ok := Next(ev, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.UTC, time.UTC)
	assert.False(t, ok)
}

func TestNextOnSingleEvent(t *testing.T) {
	ev := &model.Single{
		EventCommon: model.EventCommon{ID: "x1", Title: "One-off", AllDay: true},
		Date:        "2025-01-06",
	}

	_, ok := Next(ev, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.UTC, time.UTC)
	assert.False(t, ok)
}
