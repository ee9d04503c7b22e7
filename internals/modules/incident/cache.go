package incident

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OpenMarker is the redis-side marker for "does this target have an open
// incident". It is a fast path only, postgres stays authoritative.
type OpenMarker interface {
	GetOpenIncidentMark(ctx context.Context, targetID uuid.UUID) (string, bool, error)
	SetOpenIncidentMark(ctx context.Context, targetID uuid.UUID, mark string) error
	ClearOpenIncidentMark(ctx context.Context, targetID uuid.UUID) error
}

// markNone is cached when a target is known to have no open incident, so the
// steady healthy stream of checks skips the database lookup.
const markNone = "none"

// CachedStore layers the redis open-incident marker over the authoritative
// store. All conditional-write guarantees come from the inner store; a stale
// or missing marker only costs one extra database query.
type CachedStore struct {
	inner  Store
	marker OpenMarker
	logger *zerolog.Logger
}

func NewCachedStore(inner Store, marker OpenMarker, logger *zerolog.Logger) *CachedStore {
	return &CachedStore{
		inner:  inner,
		marker: marker,
		logger: logger,
	}
}

func (s *CachedStore) GetOpen(ctx context.Context, targetID uuid.UUID) (*DowntimeIncident, error) {
	mark, ok, err := s.marker.GetOpenIncidentMark(ctx, targetID)
	if err == nil && ok && mark == markNone {
		return nil, nil
	}
	if err != nil {
		// cache trouble never fails the observation
		s.logger.Warn().Err(err).Msg("open incident marker read failed")
	}

	open, err := s.inner.GetOpen(ctx, targetID)
	if err != nil {
		return nil, err
	}
	s.storeMark(ctx, targetID, open)
	return open, nil
}

func (s *CachedStore) Open(ctx context.Context, inc DowntimeIncident) (*DowntimeIncident, bool, error) {
	stored, created, err := s.inner.Open(ctx, inc)
	if err != nil {
		return nil, false, err
	}
	s.storeMark(ctx, inc.TargetID, stored)
	return stored, created, nil
}

func (s *CachedStore) Close(ctx context.Context, targetID uuid.UUID, endedAt time.Time) (*DowntimeIncident, error) {
	closed, err := s.inner.Close(ctx, targetID, endedAt)
	if err != nil {
		return nil, err
	}
	s.storeMark(ctx, targetID, nil)
	return closed, nil
}

func (s *CachedStore) storeMark(ctx context.Context, targetID uuid.UUID, open *DowntimeIncident) {
	var err error
	if open == nil {
		err = s.marker.SetOpenIncidentMark(ctx, targetID, markNone)
	} else {
		err = s.marker.SetOpenIncidentMark(ctx, targetID, open.ID.String())
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("open incident marker write failed")
	}
}
