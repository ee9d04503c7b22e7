package dispatch

import (
	"context"
	"testing"
	"time"

	"certwatch/internals/modules/alertrule"
	"certwatch/internals/modules/incident"
	"certwatch/internals/modules/status"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type fakeMarker struct {
	calls     []uuid.UUID
	committed bool
	err       error
}

func (m *fakeMarker) MarkTriggered(ctx context.Context, ruleID uuid.UUID, prev *time.Time, at time.Time) (bool, error) {
	m.calls = append(m.calls, ruleID)
	return m.committed, m.err
}

type fakeSink struct {
	delivered []Decision
}

func (s *fakeSink) Deliver(decision Decision) {
	s.delivered = append(s.delivered, decision)
}

func newTestCoordinator() (*Coordinator, *fakeMarker, *fakeSink) {
	marker := &fakeMarker{committed: true}
	sink := &fakeSink{}
	logger := zerolog.Nop()
	return NewCoordinator(marker, sink, &logger), marker, sink
}

func downInput() alertrule.Input {
	return alertrule.Input{
		CheckKind:     alertrule.CheckHTTP,
		UptimeStatus:  status.UptimeDown,
		IncidentEvent: incident.EventOpened,
	}
}

func TestDispatchScopedAndTemplateRulesBothFire(t *testing.T) {
	t.Parallel()

	coord, marker, sink := newTestCoordinator()
	targetID := uuid.New()
	userID := uuid.New()
	now := time.Now()

	scoped := alertrule.Rule{
		ID: uuid.New(), UserID: userID, TargetID: &targetID,
		Type: alertrule.TypeUptimeDown, Enabled: true,
		Channels: []alertrule.Channel{alertrule.ChannelEmail},
	}
	template := alertrule.Rule{
		ID: uuid.New(), UserID: userID,
		Type: alertrule.TypeUptimeDown, Enabled: true,
		Channels: []alertrule.Channel{alertrule.ChannelDashboard},
	}
	foreign := alertrule.Rule{
		ID: uuid.New(), UserID: userID, TargetID: ptrUUID(uuid.New()),
		Type: alertrule.TypeUptimeDown, Enabled: true,
	}

	decisions := coord.Dispatch(context.Background(), targetID, downInput(),
		[]alertrule.Rule{scoped, template, foreign}, now, Payload{})

	if len(decisions) != 2 {
		t.Fatalf("decisions = %d, want 2 (foreign-target rule skipped)", len(decisions))
	}
	for _, d := range decisions {
		if !d.ShouldFire {
			t.Fatalf("rule %s should fire, reason %q", d.RuleID, d.ReasonCode)
		}
	}
	if len(sink.delivered) != 2 {
		t.Fatalf("delivered = %d, want 2", len(sink.delivered))
	}
	if len(marker.calls) != 2 {
		t.Fatalf("trigger commits = %d, want 2", len(marker.calls))
	}
}

func TestDispatchNonFiringRuleStillDecided(t *testing.T) {
	t.Parallel()

	coord, marker, sink := newTestCoordinator()
	targetID := uuid.New()

	disabled := alertrule.Rule{
		ID: uuid.New(), Type: alertrule.TypeUptimeDown, Enabled: false,
	}

	decisions := coord.Dispatch(context.Background(), targetID, downInput(),
		[]alertrule.Rule{disabled}, time.Now(), Payload{})

	if len(decisions) != 1 {
		t.Fatalf("decisions = %d, want 1", len(decisions))
	}
	if decisions[0].ShouldFire {
		t.Fatalf("disabled rule fired")
	}
	if decisions[0].ReasonCode != alertrule.ReasonRuleDisabled {
		t.Fatalf("reason = %q, want %q", decisions[0].ReasonCode, alertrule.ReasonRuleDisabled)
	}
	if len(sink.delivered) != 0 || len(marker.calls) != 0 {
		t.Fatalf("non-firing rule reached the sink or the marker")
	}
}

func TestDispatchUnsupportedChannelSurfacesDecision(t *testing.T) {
	t.Parallel()

	coord, marker, sink := newTestCoordinator()
	targetID := uuid.New()

	rule := alertrule.Rule{
		ID: uuid.New(), Type: alertrule.TypeUptimeDown, Enabled: true,
		Channels: []alertrule.Channel{alertrule.ChannelEmail, alertrule.Channel("carrier_pigeon")},
	}

	decisions := coord.Dispatch(context.Background(), targetID, downInput(),
		[]alertrule.Rule{rule}, time.Now(), Payload{})

	if len(decisions) != 1 {
		t.Fatalf("decisions = %d, want 1", len(decisions))
	}
	if decisions[0].ShouldFire {
		t.Fatalf("rule with unsupported channel fired")
	}
	if decisions[0].ReasonCode != alertrule.ReasonUnsupported {
		t.Fatalf("reason = %q, want %q", decisions[0].ReasonCode, alertrule.ReasonUnsupported)
	}
	if len(sink.delivered) != 0 || len(marker.calls) != 0 {
		t.Fatalf("unsupported configuration must not deliver or commit")
	}
}

func TestDispatchLostCommitKeepsDelivery(t *testing.T) {
	t.Parallel()

	coord, marker, sink := newTestCoordinator()
	marker.committed = false // a concurrent evaluation won the conditional write

	rule := alertrule.Rule{
		ID: uuid.New(), Type: alertrule.TypeUptimeDown, Enabled: true,
		Channels: []alertrule.Channel{alertrule.ChannelEmail},
	}

	decisions := coord.Dispatch(context.Background(), uuid.New(), downInput(),
		[]alertrule.Rule{rule}, time.Now(), Payload{})

	if len(decisions) != 1 || !decisions[0].ShouldFire {
		t.Fatalf("decision missing or not firing: %+v", decisions)
	}
	// delivery already happened before the commit, it stands
	if len(sink.delivered) != 1 {
		t.Fatalf("delivered = %d, want 1", len(sink.delivered))
	}
	if len(marker.calls) != 1 {
		t.Fatalf("commit attempts = %d, want 1", len(marker.calls))
	}
}

func TestDispatchPayloadFlowsThrough(t *testing.T) {
	t.Parallel()

	coord, _, sink := newTestCoordinator()
	payload := Payload{
		TargetURL:    "https://shop.example.com",
		CheckKind:    alertrule.CheckHTTP,
		UptimeStatus: status.UptimeDown,
		StatusCode:   503,
		Reason:       "server error 503",
		CheckedAt:    time.Now(),
	}

	rule := alertrule.Rule{
		ID: uuid.New(), Type: alertrule.TypeUptimeDown, Enabled: true,
		Channels: []alertrule.Channel{alertrule.ChannelWebhook},
	}

	coord.Dispatch(context.Background(), uuid.New(), downInput(), []alertrule.Rule{rule}, time.Now(), payload)

	if len(sink.delivered) != 1 {
		t.Fatalf("delivered = %d, want 1", len(sink.delivered))
	}
	got := sink.delivered[0].Payload
	if got.TargetURL != payload.TargetURL || got.StatusCode != payload.StatusCode || got.Reason != payload.Reason {
		t.Fatalf("payload mangled in transit: %+v", got)
	}
}

func ptrUUID(id uuid.UUID) *uuid.UUID { return &id }
