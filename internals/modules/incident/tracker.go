package incident

import (
	"context"
	"time"

	"certwatch/internals/modules/status"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Tracker turns the per-target stream of classified uptime statuses into
// downtime incident open/close events.
//
// The authoritative state is the persisted "open incident for this target"
// lookup, not the previous check: checks can arrive out of real-time order
// (manual check-now, backfills) and the two-check transition alone would
// misfire on them.
type Tracker struct {
	store  Store
	logger *zerolog.Logger
}

func NewTracker(store Store, logger *zerolog.Logger) *Tracker {
	return &Tracker{
		store:  store,
		logger: logger,
	}
}

// Observe feeds one classified check into the state machine and returns the
// resulting incident event, or nil when nothing incident-relevant happened.
// reason is the classifier's human reason for a non-up status.
func (t *Tracker) Observe(ctx context.Context, targetID uuid.UUID, st status.UptimeStatus, reason string, observedAt time.Time) (*Event, error) {
	const op string = "tracker.incident.observe"

	// unknown states absence of evidence, not downtime
	if st == status.UptimeUnknown {
		return nil, nil
	}

	if st == status.UptimeUp {
		closed, err := t.store.Close(ctx, targetID, observedAt)
		if err != nil {
			return nil, err
		}
		if closed == nil {
			// healthy and no open incident, nothing to do
			return nil, nil
		}
		return &Event{
			Kind:            EventResolved,
			Incident:        *closed,
			DurationMinutes: closed.DurationMinutes,
			Automatic:       closed.ResolvedAutomatically,
		}, nil
	}

	// non-up: continue the open incident if one exists
	open, err := t.store.GetOpen(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return &Event{Kind: EventContinuing, Incident: *open}, nil
	}

	inc, created, err := t.store.Open(ctx, DowntimeIncident{
		TargetID:     targetID,
		StartedAt:    observedAt,
		IncidentType: TypeForStatus(st),
		Reason:       reason,
	})
	if err != nil {
		return nil, err
	}
	if !created {
		// a concurrent observation opened it first, this one continues it
		t.logger.Debug().
			Str("op", op).
			Str("target_id", targetID.String()).
			Msg("lost incident open race, treating as continuing")
		return &Event{Kind: EventContinuing, Incident: *inc}, nil
	}

	return &Event{Kind: EventOpened, Incident: *inc}, nil
}
