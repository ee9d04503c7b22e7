package dispatch

import (
	"time"

	"certwatch/internals/modules/alertrule"
	"certwatch/internals/modules/incident"
	"certwatch/internals/modules/status"

	"github.com/google/uuid"
)

// Payload carries everything a notification channel needs to render a message
// without re-querying: the classified status and the relevant facts.
type Payload struct {
	TargetURL      string                  `json:"target_url"`
	CheckKind      alertrule.CheckKind     `json:"check_kind"`
	SSLStatus      status.SSLStatus        `json:"ssl_status,omitempty"`
	DaysRemaining  int                     `json:"days_remaining,omitempty"`
	CertIssuer     string                  `json:"cert_issuer,omitempty"`
	CertNotAfter   time.Time               `json:"cert_not_after,omitempty"`
	UptimeStatus   status.UptimeStatus     `json:"uptime_status,omitempty"`
	StatusCode     int                     `json:"status_code,omitempty"`
	ResponseTimeMs int64                   `json:"response_time_ms,omitempty"`
	Reason         string                  `json:"reason,omitempty"`
	IncidentID     string                  `json:"incident_id,omitempty"`
	IncidentEvent  incident.EventKind      `json:"incident_event,omitempty"`
	DurationMin    int64                   `json:"duration_minutes,omitempty"`
	CheckedAt      time.Time               `json:"checked_at"`
}

// Decision is one rule's dispatch outcome for one check event. Decisions with
// ShouldFire false are still emitted when the reason is worth surfacing
// (unsupported configuration is never silently dropped).
type Decision struct {
	RuleID     uuid.UUID           `json:"rule_id"`
	TargetID   uuid.UUID           `json:"target_id"`
	Severity   alertrule.Severity  `json:"severity"`
	ShouldFire bool                `json:"should_fire"`
	ReasonCode alertrule.Reason    `json:"reason_code"`
	Channels   []alertrule.Channel `json:"channels"`
	Payload    Payload             `json:"payload"`
}

// Notification is one channel-specific fan-out of a firing decision, published
// for the external delivery collaborator.
type Notification struct {
	Channel   alertrule.Channel  `json:"channel"`
	RuleID    uuid.UUID          `json:"rule_id"`
	TargetID  uuid.UUID          `json:"target_id"`
	Severity  alertrule.Severity `json:"severity"`
	Reason    alertrule.Reason   `json:"reason_code"`
	Payload   Payload            `json:"payload"`
	CreatedAt time.Time          `json:"created_at"`
}
