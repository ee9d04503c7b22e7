package incident

import (
	"context"
	"testing"
	"time"

	"certwatch/internals/modules/status"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newTestTracker() (*Tracker, *MemoryStore) {
	store := NewMemoryStore()
	logger := zerolog.Nop()
	return NewTracker(store, &logger), store
}

func TestObserveFullOutage(t *testing.T) {
	t.Parallel()

	tracker, store := newTestTracker()
	ctx := context.Background()
	targetID := uuid.New()
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// healthy baseline produces nothing
	ev, err := tracker.Observe(ctx, targetID, status.UptimeUp, "", start)
	if err != nil {
		t.Fatalf("observe up: %v", err)
	}
	if ev != nil {
		t.Fatalf("healthy target with no incident produced event %v", ev.Kind)
	}

	// first failure opens
	ev, err = tracker.Observe(ctx, targetID, status.UptimeDown, "server error 503", start.Add(time.Minute))
	if err != nil {
		t.Fatalf("observe down: %v", err)
	}
	if ev == nil || ev.Kind != EventOpened {
		t.Fatalf("expected opened event, got %+v", ev)
	}
	if ev.Incident.IncidentType != TypeHTTPError {
		t.Fatalf("incident type = %q, want %q", ev.Incident.IncidentType, TypeHTTPError)
	}
	if ev.Incident.Reason != "server error 503" {
		t.Fatalf("incident reason = %q", ev.Incident.Reason)
	}

	// second failure continues, no duplicate open
	ev, err = tracker.Observe(ctx, targetID, status.UptimeDown, "server error 503", start.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("observe continuing: %v", err)
	}
	if ev == nil || ev.Kind != EventContinuing {
		t.Fatalf("expected continuing event, got %+v", ev)
	}

	// recovery resolves with duration
	ev, err = tracker.Observe(ctx, targetID, status.UptimeUp, "", start.Add(31*time.Minute))
	if err != nil {
		t.Fatalf("observe recovery: %v", err)
	}
	if ev == nil || ev.Kind != EventResolved {
		t.Fatalf("expected resolved event, got %+v", ev)
	}
	if !ev.Automatic {
		t.Fatalf("recovery should resolve automatically")
	}
	if ev.DurationMinutes != 30 {
		t.Fatalf("duration = %d minutes, want 30", ev.DurationMinutes)
	}

	closed := store.Closed()
	if len(closed) != 1 {
		t.Fatalf("closed incidents = %d, want 1", len(closed))
	}
	if closed[0].EndedAt == nil {
		t.Fatalf("closed incident has nil EndedAt")
	}
}

func TestObserveSingleOpenInvariant(t *testing.T) {
	t.Parallel()

	tracker, store := newTestTracker()
	ctx := context.Background()
	targetID := uuid.New()
	now := time.Now()

	for i := range 5 {
		if _, err := tracker.Observe(ctx, targetID, status.UptimeDown, "timeout", now.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("observe %d: %v", i, err)
		}
	}

	open, err := store.GetOpen(ctx, targetID)
	if err != nil {
		t.Fatalf("get open: %v", err)
	}
	if open == nil {
		t.Fatalf("expected one open incident")
	}
	if len(store.Closed()) != 0 {
		t.Fatalf("no incident should have closed")
	}
}

func TestObserveSlowOpensTimeoutIncident(t *testing.T) {
	t.Parallel()

	tracker, _ := newTestTracker()
	ctx := context.Background()

	ev, err := tracker.Observe(ctx, uuid.New(), status.UptimeSlow, "response took 9000ms (limit 5000ms)", time.Now())
	if err != nil {
		t.Fatalf("observe slow: %v", err)
	}
	if ev == nil || ev.Kind != EventOpened {
		t.Fatalf("expected opened event, got %+v", ev)
	}
	if ev.Incident.IncidentType != TypeTimeout {
		t.Fatalf("incident type = %q, want %q", ev.Incident.IncidentType, TypeTimeout)
	}
}

func TestObserveContentMismatchType(t *testing.T) {
	t.Parallel()

	tracker, _ := newTestTracker()
	ctx := context.Background()

	ev, err := tracker.Observe(ctx, uuid.New(), status.UptimeContentMismatch, "forbidden content present", time.Now())
	if err != nil {
		t.Fatalf("observe: %v", err)
	}
	if ev == nil || ev.Incident.IncidentType != TypeContentMismatch {
		t.Fatalf("expected content_mismatch incident, got %+v", ev)
	}
}

func TestObserveUnknownIsNoOp(t *testing.T) {
	t.Parallel()

	tracker, store := newTestTracker()
	ctx := context.Background()
	targetID := uuid.New()
	now := time.Now()

	// open an incident first
	if _, err := tracker.Observe(ctx, targetID, status.UptimeDown, "timeout", now); err != nil {
		t.Fatalf("observe down: %v", err)
	}

	// unknown must neither continue nor resolve it
	ev, err := tracker.Observe(ctx, targetID, status.UptimeUnknown, "", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("observe unknown: %v", err)
	}
	if ev != nil {
		t.Fatalf("unknown produced event %+v", ev)
	}

	open, err := store.GetOpen(ctx, targetID)
	if err != nil {
		t.Fatalf("get open: %v", err)
	}
	if open == nil {
		t.Fatalf("open incident must survive an unknown observation")
	}
}

func TestObserveRecoveryWithoutIncident(t *testing.T) {
	t.Parallel()

	tracker, _ := newTestTracker()
	ctx := context.Background()

	ev, err := tracker.Observe(ctx, uuid.New(), status.UptimeUp, "", time.Now())
	if err != nil {
		t.Fatalf("observe: %v", err)
	}
	if ev != nil {
		t.Fatalf("up with no open incident produced event %+v", ev)
	}
}
