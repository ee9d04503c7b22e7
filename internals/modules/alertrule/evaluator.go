package alertrule

import (
	"time"

	"certwatch/internals/modules/incident"
	"certwatch/internals/modules/status"
)

// Mode selects the evaluation entry point. The scheduled pipeline always runs
// ModeScheduled; ModeManualOverride is the check-now/debug path and is the
// only way past the enabled and cooldown gates.
type Mode int

const (
	ModeScheduled Mode = iota
	ModeManualOverride
)

type CheckKind string

const (
	CheckHTTP CheckKind = "http"
	CheckSSL  CheckKind = "ssl"
)

// Input is everything one check event exposes to rule evaluation: the
// classified status, the facts a rule may threshold on, and the incident
// transition (if any) the tracker derived from this observation.
type Input struct {
	CheckKind      CheckKind
	SSLStatus      status.SSLStatus
	DaysRemaining  int
	UptimeStatus   status.UptimeStatus
	ResponseTimeMs int64
	IncidentEvent  incident.EventKind // empty when no incident transition
}

type Reason string

const (
	ReasonThresholdCrossed     Reason = "threshold_crossed"
	ReasonCertificateInvalid   Reason = "certificate_invalid"
	ReasonIncidentOpened       Reason = "incident_opened"
	ReasonIncidentResolved     Reason = "incident_resolved"
	ReasonResponseTimeExceeded Reason = "response_time_exceeded"
	ReasonCooldownActive       Reason = "cooldown_active"
	ReasonRuleDisabled         Reason = "rule_disabled"
	ReasonNotApplicable        Reason = "not_applicable"
	ReasonUnsupported          Reason = "unsupported"
)

// Evaluate decides whether one rule should fire for one check event. Pure:
// the caller owns committing lastTriggeredAt after delivery was attempted.
//
// ssl_expiry matches the threshold day exactly, one notification per
// configured crossing (rules at 30/14/7/3/0 days each fire once) instead of
// a daily repeat flood. response_time fires on a slow classification when
// the observed time exceeds the rule threshold.
func Evaluate(rule Rule, in Input, now time.Time, mode Mode) (bool, Reason) {
	if !rule.Type.Known() {
		return false, ReasonUnsupported
	}
	if !rule.Enabled && mode != ModeManualOverride {
		return false, ReasonRuleDisabled
	}

	matched, reason := matchCondition(rule, in)
	if !matched {
		return false, reason
	}

	if mode != ModeManualOverride && cooldownActive(rule, now) {
		return false, ReasonCooldownActive
	}
	return true, reason
}

func matchCondition(rule Rule, in Input) (bool, Reason) {
	switch rule.Type {
	case TypeSSLExpiry:
		if in.CheckKind != CheckSSL {
			return false, ReasonNotApplicable
		}
		// error means the check failed, invalid/expired have their own rules
		if in.SSLStatus != status.SSLValid && in.SSLStatus != status.SSLExpiringSoon {
			return false, ReasonNotApplicable
		}
		threshold := int32(0)
		if rule.ThresholdDays != nil {
			threshold = *rule.ThresholdDays
		}
		if int32(in.DaysRemaining) == threshold {
			return true, ReasonThresholdCrossed
		}
		return false, ReasonNotApplicable

	case TypeSSLInvalid:
		if in.CheckKind == CheckSSL && in.SSLStatus == status.SSLInvalid {
			return true, ReasonCertificateInvalid
		}
		return false, ReasonNotApplicable

	case TypeUptimeDown:
		if in.IncidentEvent == incident.EventOpened {
			return true, ReasonIncidentOpened
		}
		return false, ReasonNotApplicable

	case TypeUptimeRecovered:
		if in.IncidentEvent == incident.EventResolved {
			return true, ReasonIncidentResolved
		}
		return false, ReasonNotApplicable

	case TypeResponseTime:
		if in.CheckKind != CheckHTTP || in.UptimeStatus != status.UptimeSlow {
			return false, ReasonNotApplicable
		}
		if rule.ThresholdResponseTimeMs != nil && in.ResponseTimeMs > *rule.ThresholdResponseTimeMs {
			return true, ReasonResponseTimeExceeded
		}
		return false, ReasonNotApplicable

	default:
		return false, ReasonUnsupported
	}
}

func cooldownActive(rule Rule, now time.Time) bool {
	if rule.LastTriggeredAt == nil || rule.Cooldown <= 0 {
		return false
	}
	return now.Sub(*rule.LastTriggeredAt) < rule.Cooldown
}
