package incident

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence contract the tracker drives. Implementations must
// make Open and Close conditional writes so that two racing observations
// cannot produce two open incidents or close the same incident twice.
type Store interface {
	// GetOpen returns the open incident for the target, or nil when none.
	GetOpen(ctx context.Context, targetID uuid.UUID) (*DowntimeIncident, error)
	// Open inserts a new open incident unless one is already open for the
	// target. Returns the stored incident and false when it lost the race.
	Open(ctx context.Context, inc DowntimeIncident) (*DowntimeIncident, bool, error)
	// Close closes the open incident for the target, computing the duration.
	// Returns nil when there was no open incident (the losing writer's
	// update is discarded, not retried).
	Close(ctx context.Context, targetID uuid.UUID, endedAt time.Time) (*DowntimeIncident, error)
}

// MemoryStore keeps incidents in process memory. Used by tests and as a
// reference for the conditional-write semantics the SQL store implements.
type MemoryStore struct {
	mu     sync.Mutex
	open   map[uuid.UUID]*DowntimeIncident
	closed []DowntimeIncident
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{open: make(map[uuid.UUID]*DowntimeIncident)}
}

func (s *MemoryStore) GetOpen(ctx context.Context, targetID uuid.UUID) (*DowntimeIncident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inc, ok := s.open[targetID]
	if !ok {
		return nil, nil
	}
	cp := *inc
	return &cp, nil
}

func (s *MemoryStore) Open(ctx context.Context, inc DowntimeIncident) (*DowntimeIncident, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.open[inc.TargetID]; ok {
		cp := *existing
		return &cp, false, nil
	}

	if inc.ID == uuid.Nil {
		inc.ID = uuid.New()
	}
	inc.CreatedAt = inc.StartedAt
	stored := inc
	s.open[inc.TargetID] = &stored

	cp := stored
	return &cp, true, nil
}

func (s *MemoryStore) Close(ctx context.Context, targetID uuid.UUID, endedAt time.Time) (*DowntimeIncident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inc, ok := s.open[targetID]
	if !ok {
		return nil, nil
	}
	delete(s.open, targetID)

	ended := endedAt
	inc.EndedAt = &ended
	inc.ResolvedAutomatically = true
	inc.DurationMinutes = int64(endedAt.Sub(inc.StartedAt).Minutes())
	s.closed = append(s.closed, *inc)

	cp := *inc
	return &cp, nil
}

// Closed returns closed incidents, oldest first.
func (s *MemoryStore) Closed() []DowntimeIncident {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]DowntimeIncident(nil), s.closed...)
}
