package remind

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notecal/internal/model"
)

type captureNotifier struct {
	calls []string
}

func (c *captureNotifier) Notify(ev model.Event, kind Boundary, at time.Time) {
	c.calls = append(c.calls, ev.Common().ID+"|"+string(kind)+"|"+at.Format(time.RFC3339))
}

func fixedSource(events ...model.Event) EventSource {
	return func() []model.Event { return events }
}

func TestSweepNotifiesOncePerBoundary(t *testing.T) {
	ev := &model.Single{
		EventCommon: model.EventCommon{ID: "e1", Title: "Standup"},
		Date:        "2025-03-10",
		StartTime:   "09:05",
		EndTime:     "09:08",
	}

	n := &captureNotifier{}
	s := New(fixedSource(ev), n, time.UTC, 10*time.Minute)

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s.Sweep(now)
	require.Len(t, n.calls, 2, "start and end boundaries are both within the lead window")

	// Re-sweeping the same window must not notify again.
	s.Sweep(now.Add(time.Minute))
	assert.Len(t, n.calls, 2)
}

func TestSweepHonorsLeadWindow(t *testing.T) {
	ev := &model.Single{
		EventCommon: model.EventCommon{ID: "e2", Title: "Lunch"},
		Date:        "2025-03-10",
		StartTime:   "12:00",
		EndTime:     "13:00",
	}

	n := &captureNotifier{}
	s := New(fixedSource(ev), n, time.UTC, 10*time.Minute)

	// Too early: nothing due yet.
	s.Sweep(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	assert.Empty(t, n.calls)

	// Start enters the lead window.
	s.Sweep(time.Date(2025, 3, 10, 11, 55, 0, 0, time.UTC))
	require.Len(t, n.calls, 1)
	assert.Contains(t, n.calls[0], "e2|start|")

	// Later the end boundary becomes due as well.
	s.Sweep(time.Date(2025, 3, 10, 12, 55, 0, 0, time.UTC))
	assert.Len(t, n.calls, 2)
	assert.Contains(t, n.calls[1], "e2|end|")
}

func TestSweepRecurringUsesEvaluator(t *testing.T) {
	ev := &model.Recurring{
		EventCommon: model.EventCommon{ID: "e3", Title: "Standup"},
		DaysOfWeek:  []model.Weekday{model.Monday},
		StartRecur:  "2025-01-06",
		StartTime:   "09:00",
		EndTime:     "09:15",
	}

	n := &captureNotifier{}
	s := New(fixedSource(ev), n, time.UTC, 10*time.Minute)

	s.Sweep(time.Date(2025, 1, 13, 8, 55, 0, 0, time.UTC))
	require.Len(t, n.calls, 1)
	assert.Equal(t, "e3|start|2025-01-13T09:00:00Z", n.calls[0])
}

func TestSweepAnchorsRecurringInEventZone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// The standup happens at 09:00 New York time; a Tokyo-zone scheduler
	// must still fire against that absolute instant (14:00 UTC).
	ev := &model.Recurring{
		EventCommon: model.EventCommon{ID: "e6", Title: "NY standup", Timezone: "America/New_York"},
		DaysOfWeek:  []model.Weekday{model.Monday},
		StartRecur:  "2025-01-06",
		StartTime:   "09:00",
		EndTime:     "09:15",
	}

	n := &captureNotifier{}
	s := New(fixedSource(ev), n, tokyo, 10*time.Minute)

	s.Sweep(time.Date(2025, 1, 13, 13, 55, 0, 0, time.UTC))
	require.Len(t, n.calls, 1)
	assert.Contains(t, n.calls[0], "e6|start|")
	assert.Contains(t, n.calls[0], "2025-01-13T09:00:00-05:00")
}

func TestSweepSkippedOccurrenceStaysSilent(t *testing.T) {
	ev := &model.Recurring{
		EventCommon: model.EventCommon{ID: "e4", Title: "Standup"},
		DaysOfWeek:  []model.Weekday{model.Monday},
		StartRecur:  "2025-01-06",
		StartTime:   "09:00",
		EndTime:     "09:15",
		SkipDates:   []string{"2025-01-13"},
	}

	n := &captureNotifier{}
	s := New(fixedSource(ev), n, time.UTC, 10*time.Minute)

	s.Sweep(time.Date(2025, 1, 13, 8, 55, 0, 0, time.UTC))
	assert.Empty(t, n.calls)
}

func TestSweepPastBoundaryNotNotified(t *testing.T) {
	ev := &model.Single{
		EventCommon: model.EventCommon{ID: "e5", Title: "Gone"},
		Date:        "2025-03-09",
		StartTime:   "09:00",
		EndTime:     "10:00",
	}

	n := &captureNotifier{}
	s := New(fixedSource(ev), n, time.UTC, 10*time.Minute)

	s.Sweep(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	assert.Empty(t, n.calls)
}
