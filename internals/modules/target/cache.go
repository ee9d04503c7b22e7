package target

import (
	"context"
	"time"

	"certwatch/internals/modules/status"

	"github.com/google/uuid"
)

// Cache is the redis surface the target module needs: the target record
// cache, the schedule entry, and the per-target status and incident marks
// that must go when a target is disabled or deleted.
type Cache interface {
	SetTarget(ctx context.Context, t Target) error
	GetTarget(ctx context.Context, id uuid.UUID) (Target, bool)
	DelTarget(ctx context.Context, id uuid.UUID) error
	Schedule(ctx context.Context, targetID string, nextRun time.Time) error
	DelSchedule(ctx context.Context, targetID string) error
	ClearOpenIncidentMark(ctx context.Context, targetID uuid.UUID) error
	DelStatus(ctx context.Context, targetID uuid.UUID) error
	GetHTTPStatus(ctx context.Context, targetID uuid.UUID) (*status.LatestHTTPStatus, error)
	GetSSLStatus(ctx context.Context, targetID uuid.UUID) (*status.LatestSSLStatus, error)
}
