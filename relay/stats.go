package relay

import (
	"context"
	"sync/atomic"

	"discord-audit-relay/models"
)

// Stats counts handled events. It is safe for concurrent use.
type Stats struct {
	created atomic.Int64
	edited  atomic.Int64
	deleted atomic.Int64
	skipped atomic.Int64
	dropped atomic.Int64
	posted  atomic.Int64
	replied atomic.Int64
	failed  atomic.Int64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Created int64
	Edited  int64
	Deleted int64
	Skipped int64
	Dropped int64
	Posted  int64
	Replied int64
	Failed  int64
}

// Handled implements Observer.
func (s *Stats) Handled(_ context.Context, ev models.Event, outcome Outcome, _ *models.LogEntry) {
	switch ev.Kind {
	case models.EventCreated:
		s.created.Add(1)
	case models.EventEdited:
		s.edited.Add(1)
	case models.EventDeleted:
		s.deleted.Add(1)
	}
	switch outcome {
	case OutcomeSkipped:
		s.skipped.Add(1)
	case OutcomeDropped:
		s.dropped.Add(1)
	case OutcomePosted:
		s.posted.Add(1)
	case OutcomeReplied:
		s.replied.Add(1)
	case OutcomeFailed:
		s.failed.Add(1)
	}
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Created: s.created.Load(),
		Edited:  s.edited.Load(),
		Deleted: s.deleted.Load(),
		Skipped: s.skipped.Load(),
		Dropped: s.dropped.Load(),
		Posted:  s.posted.Load(),
		Replied: s.replied.Load(),
		Failed:  s.failed.Load(),
	}
}
