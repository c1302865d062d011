// Package remind implements the polling reminder scheduler: a fixed
// cadence sweep over all known events that asks the occurrence evaluator
// for the next start/end boundary and notifies at most once per
// (event, boundary, occurrence date). The de-duplication set lives in
// memory only; a restart clears it.
package remind

import (
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	appLog "notecal/internal/log"
	"notecal/internal/model"
	"notecal/internal/recur"
	"notecal/internal/timeutil"
)

// Boundary names which edge of an occurrence a notification is for.
type Boundary string

const (
	BoundaryStart Boundary = "start"
	BoundaryEnd   Boundary = "end"
)

// Notifier receives due notifications. Delivery mechanics live with the
// caller; this package only decides when.
type Notifier interface {
	Notify(ev model.Event, kind Boundary, at time.Time)
}

// EventSource supplies the current set of canonical events on each sweep.
type EventSource func() []model.Event

// Scheduler polls events and fires boundary notifications.
type Scheduler struct {
	source   EventSource
	notifier Notifier
	zone     *time.Location
	lead     time.Duration

	cron *cron.Cron

	mu   sync.Mutex
	seen map[string]struct{}
}

// New builds a scheduler. zone is the display zone used when events do
// not name their own; lead is how far ahead of a boundary to notify.
func New(source EventSource, notifier Notifier, zone *time.Location, lead time.Duration) *Scheduler {
	return &Scheduler{
		source:   source,
		notifier: notifier,
		zone:     zone,
		lead:     lead,
		seen:     make(map[string]struct{}),
	}
}

// Start begins polling on the given cron spec (e.g. "@every 1m").
func (s *Scheduler) Start(pollSpec string) error {
	if s.cron != nil {
		return errors.New("remind: scheduler already started")
	}
	c := cron.New(cron.WithLocation(s.zone))
	if _, err := c.AddFunc(pollSpec, func() { s.Sweep(time.Now()) }); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	appLog.Info("reminder scheduler started", "poll", pollSpec, "lead", s.lead.String())
	return nil
}

// Stop halts polling. Pending sweep runs finish on their own.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}

// Sweep runs one poll pass at the given instant. Exported so callers and
// tests can drive it without the cron loop.
func (s *Scheduler) Sweep(now time.Time) {
	for _, ev := range s.source() {
		start, end, ok := s.upcoming(ev, now)
		if !ok {
			continue
		}
		s.maybeNotify(ev, BoundaryStart, start, now)
		if end.After(start) {
			s.maybeNotify(ev, BoundaryEnd, end, now)
		}
	}
}

// upcoming resolves the next occurrence boundaries for one event.
func (s *Scheduler) upcoming(ev model.Event, now time.Time) (time.Time, time.Time, bool) {
	switch e := ev.(type) {
	case *model.Single:
		return s.singleSpan(e)
	case *model.Recurring, *model.Rule:
		// The series must be anchored in the event's own zone, not the
		// scheduler's; 09:00 in New York is not 09:00 here.
		zone, err := recur.ResolveZone(ev, nil, s.zone)
		if err != nil {
			appLog.Error("remind: zone resolution failed", err, "event_id", ev.Common().ID)
			return time.Time{}, time.Time{}, false
		}
		occ, ok := recur.Next(ev, now, zone, s.zone)
		if !ok {
			return time.Time{}, time.Time{}, false
		}
		return occ.Start, occ.End, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func (s *Scheduler) singleSpan(e *model.Single) (time.Time, time.Time, bool) {
	zone, err := recur.ResolveZone(e, nil, s.zone)
	if err != nil {
		appLog.Error("remind: zone resolution failed", err, "event_id", e.ID)
		return time.Time{}, time.Time{}, false
	}

	if e.AllDay {
		start, derr := timeutil.DateIn(e.Date, zone)
		if derr != nil {
			appLog.Error("remind: bad event date", derr, "event_id", e.ID)
			return time.Time{}, time.Time{}, false
		}
		return start, start, true
	}

	start, serr := timeutil.CombineDateAndTime(e.Date, e.StartTime, zone)
	if serr != nil {
		appLog.Error("remind: bad event start", serr, "event_id", e.ID)
		return time.Time{}, time.Time{}, false
	}
	end, eerr := timeutil.CombineDateAndTime(e.Date, e.EndTime, zone)
	if eerr != nil {
		appLog.Error("remind: bad event end", eerr, "event_id", e.ID)
		return start, start, true
	}
	return start, end, true
}

func (s *Scheduler) maybeNotify(ev model.Event, kind Boundary, at, now time.Time) {
	if !at.After(now) || at.Sub(now) > s.lead {
		return
	}

	key := ev.Common().ID + "|" + string(kind) + "|" + timeutil.FormatDate(at)

	s.mu.Lock()
	_, dup := s.seen[key]
	if !dup {
		s.seen[key] = struct{}{}
	}
	s.mu.Unlock()
	if dup {
		return
	}

	appLog.Debug("reminder due", "event_id", ev.Common().ID, "boundary", string(kind), "at", at.Format(time.RFC3339))
	s.notifier.Notify(ev, kind, at)
}
