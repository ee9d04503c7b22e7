package incident

import (
	"time"

	"certwatch/internals/modules/status"

	"github.com/google/uuid"
)

type Type string

const (
	TypeHTTPError       Type = "http_error"
	TypeTimeout         Type = "timeout"
	TypeContentMismatch Type = "content_mismatch"
)

// TypeForStatus derives the incident cause from the triggering status.
func TypeForStatus(st status.UptimeStatus) Type {
	switch st {
	case status.UptimeSlow:
		return TypeTimeout
	case status.UptimeContentMismatch:
		return TypeContentMismatch
	default:
		return TypeHTTPError
	}
}

// DowntimeIncident is one bounded interval of non-up status for a target.
// EndedAt == nil means the incident is still open; at most one open incident
// exists per target at any time.
type DowntimeIncident struct {
	ID                    uuid.UUID
	TargetID              uuid.UUID
	StartedAt             time.Time
	EndedAt               *time.Time
	IncidentType          Type
	Reason                string
	ResolvedAutomatically bool
	DurationMinutes       int64 // derived on close, truncated
	CreatedAt             time.Time
}

type EventKind string

const (
	EventOpened     EventKind = "opened"
	EventContinuing EventKind = "continuing"
	EventResolved   EventKind = "resolved"
)

// Event is what one observation did to the incident state of a target.
type Event struct {
	Kind            EventKind
	Incident        DowntimeIncident
	DurationMinutes int64
	Automatic       bool
}
