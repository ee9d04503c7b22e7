package alertrule

import (
	"testing"
	"time"

	"certwatch/internals/modules/incident"
	"certwatch/internals/modules/status"

	"github.com/google/uuid"
)

var evalNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func int32Ptr(v int32) *int32 { return &v }
func int64Ptr(v int64) *int64 { return &v }

func sslRule(thresholdDays int32) Rule {
	return Rule{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		Type:          TypeSSLExpiry,
		ThresholdDays: int32Ptr(thresholdDays),
		Enabled:       true,
	}
}

func TestEvaluateSSLExpiryExactThreshold(t *testing.T) {
	t.Parallel()

	in := Input{CheckKind: CheckSSL, SSLStatus: status.SSLExpiringSoon, DaysRemaining: 7}

	if fire, reason := Evaluate(sslRule(7), in, evalNow, ModeScheduled); !fire || reason != ReasonThresholdCrossed {
		t.Fatalf("rule at 7 days: fire=%v reason=%q", fire, reason)
	}
	// a 14-day rule must not fire on day 7, it already fired on day 14
	if fire, reason := Evaluate(sslRule(14), in, evalNow, ModeScheduled); fire || reason != ReasonNotApplicable {
		t.Fatalf("rule at 14 days: fire=%v reason=%q", fire, reason)
	}
	if fire, _ := Evaluate(sslRule(3), in, evalNow, ModeScheduled); fire {
		t.Fatalf("rule at 3 days fired at 7 days remaining")
	}
}

func TestEvaluateSSLExpiryStatusGate(t *testing.T) {
	t.Parallel()

	rule := sslRule(7)

	// a failed check must not masquerade as an expiry crossing
	in := Input{CheckKind: CheckSSL, SSLStatus: status.SSLError, DaysRemaining: 7}
	if fire, _ := Evaluate(rule, in, evalNow, ModeScheduled); fire {
		t.Fatalf("ssl_expiry fired on an errored check")
	}

	in.SSLStatus = status.SSLInvalid
	if fire, _ := Evaluate(rule, in, evalNow, ModeScheduled); fire {
		t.Fatalf("ssl_expiry fired on an invalid certificate")
	}

	in.SSLStatus = status.SSLValid
	if fire, _ := Evaluate(rule, in, evalNow, ModeScheduled); !fire {
		t.Fatalf("ssl_expiry must fire on a valid cert at the threshold day")
	}

	// http checks never match ssl rules
	in = Input{CheckKind: CheckHTTP, DaysRemaining: 7}
	if fire, _ := Evaluate(rule, in, evalNow, ModeScheduled); fire {
		t.Fatalf("ssl_expiry fired on an http check")
	}
}

func TestEvaluateSSLInvalid(t *testing.T) {
	t.Parallel()

	rule := Rule{ID: uuid.New(), Type: TypeSSLInvalid, Enabled: true}

	in := Input{CheckKind: CheckSSL, SSLStatus: status.SSLInvalid}
	if fire, reason := Evaluate(rule, in, evalNow, ModeScheduled); !fire || reason != ReasonCertificateInvalid {
		t.Fatalf("fire=%v reason=%q", fire, reason)
	}

	in.SSLStatus = status.SSLExpired
	if fire, _ := Evaluate(rule, in, evalNow, ModeScheduled); fire {
		t.Fatalf("ssl_invalid fired on expired status")
	}
}

func TestEvaluateUptimeTransitions(t *testing.T) {
	t.Parallel()

	down := Rule{ID: uuid.New(), Type: TypeUptimeDown, Enabled: true}
	recovered := Rule{ID: uuid.New(), Type: TypeUptimeRecovered, Enabled: true}

	opened := Input{CheckKind: CheckHTTP, UptimeStatus: status.UptimeDown, IncidentEvent: incident.EventOpened}
	if fire, reason := Evaluate(down, opened, evalNow, ModeScheduled); !fire || reason != ReasonIncidentOpened {
		t.Fatalf("uptime_down on opened: fire=%v reason=%q", fire, reason)
	}
	if fire, _ := Evaluate(recovered, opened, evalNow, ModeScheduled); fire {
		t.Fatalf("uptime_recovered fired on opened")
	}

	// continuing downtime must not re-alert
	continuing := Input{CheckKind: CheckHTTP, UptimeStatus: status.UptimeDown, IncidentEvent: incident.EventContinuing}
	if fire, _ := Evaluate(down, continuing, evalNow, ModeScheduled); fire {
		t.Fatalf("uptime_down fired on continuing incident")
	}

	resolved := Input{CheckKind: CheckHTTP, UptimeStatus: status.UptimeUp, IncidentEvent: incident.EventResolved}
	if fire, reason := Evaluate(recovered, resolved, evalNow, ModeScheduled); !fire || reason != ReasonIncidentResolved {
		t.Fatalf("uptime_recovered on resolved: fire=%v reason=%q", fire, reason)
	}
	if fire, _ := Evaluate(down, resolved, evalNow, ModeScheduled); fire {
		t.Fatalf("uptime_down fired on resolved")
	}
}

func TestEvaluateResponseTime(t *testing.T) {
	t.Parallel()

	rule := Rule{ID: uuid.New(), Type: TypeResponseTime, ThresholdResponseTimeMs: int64Ptr(3000), Enabled: true}

	in := Input{CheckKind: CheckHTTP, UptimeStatus: status.UptimeSlow, ResponseTimeMs: 4500}
	if fire, reason := Evaluate(rule, in, evalNow, ModeScheduled); !fire || reason != ReasonResponseTimeExceeded {
		t.Fatalf("fire=%v reason=%q", fire, reason)
	}

	// observed time at the threshold does not exceed it
	in.ResponseTimeMs = 3000
	if fire, _ := Evaluate(rule, in, evalNow, ModeScheduled); fire {
		t.Fatalf("response_time fired at exactly the threshold")
	}

	// an up classification never fires the rule, whatever the number
	in = Input{CheckKind: CheckHTTP, UptimeStatus: status.UptimeUp, ResponseTimeMs: 10000}
	if fire, _ := Evaluate(rule, in, evalNow, ModeScheduled); fire {
		t.Fatalf("response_time fired on an up check")
	}
}

func TestEvaluateDisabledAndOverride(t *testing.T) {
	t.Parallel()

	rule := sslRule(7)
	rule.Enabled = false
	in := Input{CheckKind: CheckSSL, SSLStatus: status.SSLExpiringSoon, DaysRemaining: 7}

	if fire, reason := Evaluate(rule, in, evalNow, ModeScheduled); fire || reason != ReasonRuleDisabled {
		t.Fatalf("disabled rule: fire=%v reason=%q", fire, reason)
	}
	if fire, _ := Evaluate(rule, in, evalNow, ModeManualOverride); !fire {
		t.Fatalf("manual override must bypass the enabled gate")
	}
}

func TestEvaluateCooldown(t *testing.T) {
	t.Parallel()

	last := evalNow.Add(-time.Second)
	rule := sslRule(7)
	rule.Cooldown = time.Hour
	rule.LastTriggeredAt = &last
	in := Input{CheckKind: CheckSSL, SSLStatus: status.SSLExpiringSoon, DaysRemaining: 7}

	if fire, reason := Evaluate(rule, in, evalNow, ModeScheduled); fire || reason != ReasonCooldownActive {
		t.Fatalf("inside cooldown: fire=%v reason=%q", fire, reason)
	}
	if fire, _ := Evaluate(rule, in, evalNow, ModeManualOverride); !fire {
		t.Fatalf("manual override must bypass the cooldown")
	}

	expired := evalNow.Add(-2 * time.Hour)
	rule.LastTriggeredAt = &expired
	if fire, _ := Evaluate(rule, in, evalNow, ModeScheduled); !fire {
		t.Fatalf("cooldown elapsed, rule must fire")
	}
}

func TestEvaluateUnknownType(t *testing.T) {
	t.Parallel()

	rule := Rule{ID: uuid.New(), Type: Type("pager_duty_escalation"), Enabled: true}
	in := Input{CheckKind: CheckHTTP, UptimeStatus: status.UptimeDown, IncidentEvent: incident.EventOpened}

	if fire, reason := Evaluate(rule, in, evalNow, ModeScheduled); fire || reason != ReasonUnsupported {
		t.Fatalf("unknown type: fire=%v reason=%q", fire, reason)
	}
	// the override path must not resurrect unsupported rules either
	if fire, reason := Evaluate(rule, in, evalNow, ModeManualOverride); fire || reason != ReasonUnsupported {
		t.Fatalf("unknown type override: fire=%v reason=%q", fire, reason)
	}
}

func TestSeverityForThresholdDays(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		days *int32
		want Severity
	}{
		{"nil is critical", nil, SeverityCritical},
		{"zero is critical", int32Ptr(0), SeverityCritical},
		{"three days", int32Ptr(3), SeverityCritical},
		{"seven days", int32Ptr(7), SeverityUrgent},
		{"fourteen days", int32Ptr(14), SeverityWarning},
		{"thirty days", int32Ptr(30), SeverityInfo},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := SeverityForThresholdDays(tc.days); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRuleAppliesTo(t *testing.T) {
	t.Parallel()

	targetID := uuid.New()
	otherID := uuid.New()

	template := Rule{ID: uuid.New()}
	if !template.AppliesTo(targetID) || !template.AppliesTo(otherID) {
		t.Fatalf("template rule must apply to every target")
	}

	scoped := Rule{ID: uuid.New(), TargetID: &targetID}
	if !scoped.AppliesTo(targetID) {
		t.Fatalf("scoped rule must apply to its target")
	}
	if scoped.AppliesTo(otherID) {
		t.Fatalf("scoped rule applied to a foreign target")
	}
}
