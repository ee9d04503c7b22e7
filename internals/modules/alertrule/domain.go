package alertrule

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeSSLExpiry       Type = "ssl_expiry"
	TypeSSLInvalid      Type = "ssl_invalid"
	TypeUptimeDown      Type = "uptime_down"
	TypeUptimeRecovered Type = "uptime_recovered"
	TypeResponseTime    Type = "response_time"
)

func (t Type) Known() bool {
	switch t {
	case TypeSSLExpiry, TypeSSLInvalid, TypeUptimeDown, TypeUptimeRecovered, TypeResponseTime:
		return true
	default:
		return false
	}
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityUrgent   Severity = "urgent"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// SeverityForThresholdDays buckets an SSL expiry threshold into a static
// severity. A nil or zero threshold means the certificate is expiring today,
// which is always critical.
func SeverityForThresholdDays(thresholdDays *int32) Severity {
	if thresholdDays == nil || *thresholdDays <= 0 {
		return SeverityCritical
	}
	switch d := *thresholdDays; {
	case d <= 3:
		return SeverityCritical
	case d <= 7:
		return SeverityUrgent
	case d <= 14:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Channel is the enumerated notification capability set. Unknown channel
// strings are rejected at rule write time, not logged-and-ignored at dispatch.
type Channel string

const (
	ChannelEmail     Channel = "email"
	ChannelDashboard Channel = "dashboard"
	ChannelWebhook   Channel = "webhook"
)

func (c Channel) Known() bool {
	switch c {
	case ChannelEmail, ChannelDashboard, ChannelWebhook:
		return true
	default:
		return false
	}
}

// Rule is one user-configured alert condition. A nil TargetID makes the rule
// a template applied to every target the user owns.
type Rule struct {
	ID                      uuid.UUID
	UserID                  uuid.UUID
	TargetID                *uuid.UUID
	Type                    Type
	ThresholdDays           *int32
	ThresholdResponseTimeMs *int64
	Severity                Severity
	Enabled                 bool
	Cooldown                time.Duration
	LastTriggeredAt         *time.Time
	Channels                []Channel
	CreatedAt               time.Time
}

// AppliesTo reports whether the rule is in scope for a target: either scoped
// to exactly that target or an unscoped user template.
func (r Rule) AppliesTo(targetID uuid.UUID) bool {
	return r.TargetID == nil || *r.TargetID == targetID
}

type CreateRuleCmd struct {
	UserID                  uuid.UUID
	TargetID                *uuid.UUID
	Type                    Type
	ThresholdDays           *int32
	ThresholdResponseTimeMs *int64
	Enabled                 bool
	Cooldown                time.Duration
	Channels                []Channel
}
