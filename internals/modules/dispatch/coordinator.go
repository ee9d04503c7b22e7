package dispatch

import (
	"context"
	"time"

	"certwatch/internals/modules/alertrule"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TriggerMarker commits a rule's cooldown timestamp after delivery was
// attempted. The write is conditional on the timestamp the evaluation saw.
type TriggerMarker interface {
	MarkTriggered(ctx context.Context, ruleID uuid.UUID, prev *time.Time, at time.Time) (bool, error)
}

// Sink receives firing decisions for fan-out. Handing a decision to the sink
// counts as "delivery attempted" for cooldown purposes.
type Sink interface {
	Deliver(decision Decision)
}

// Coordinator runs rule evaluation for one check event across every rule in
// scope and turns the results into dispatch decisions.
type Coordinator struct {
	marker TriggerMarker
	sink   Sink
	logger *zerolog.Logger
}

func NewCoordinator(marker TriggerMarker, sink Sink, logger *zerolog.Logger) *Coordinator {
	return &Coordinator{
		marker: marker,
		sink:   sink,
		logger: logger,
	}
}

// Dispatch evaluates all rules for the target and returns the full decision
// list. Target-scoped rules and user-global templates both fire
// independently. Firing decisions are handed to the sink and their cooldown
// committed; a lost conditional write means a concurrent evaluation already
// fired the rule, the local delivery stands and no retry happens.
func (c *Coordinator) Dispatch(ctx context.Context, targetID uuid.UUID, in alertrule.Input, rules []alertrule.Rule, now time.Time, payload Payload) []Decision {
	decisions := make([]Decision, 0, len(rules))

	for _, rule := range rules {
		if !rule.AppliesTo(targetID) {
			continue
		}

		decision := Decision{
			RuleID:   rule.ID,
			TargetID: targetID,
			Severity: rule.Severity,
			Channels: rule.Channels,
			Payload:  payload,
		}

		if bad, reason := unsupportedConfig(rule); bad {
			// configuration errors surface as decisions, never dropped
			decision.ReasonCode = reason
			decisions = append(decisions, decision)
			c.logger.Warn().
				Str("rule_id", rule.ID.String()).
				Str("reason", string(reason)).
				Msg("alert rule has unsupported configuration")
			continue
		}

		fire, reason := alertrule.Evaluate(rule, in, now, alertrule.ModeScheduled)
		decision.ShouldFire = fire
		decision.ReasonCode = reason
		decisions = append(decisions, decision)

		if !fire {
			continue
		}

		c.sink.Deliver(decision)
		c.commitTrigger(ctx, rule, now)
	}

	return decisions
}

func unsupportedConfig(rule alertrule.Rule) (bool, alertrule.Reason) {
	if !rule.Type.Known() {
		return true, alertrule.ReasonUnsupported
	}
	for _, ch := range rule.Channels {
		if !ch.Known() {
			return true, alertrule.ReasonUnsupported
		}
	}
	return false, ""
}

func (c *Coordinator) commitTrigger(ctx context.Context, rule alertrule.Rule, now time.Time) {
	committed, err := c.marker.MarkTriggered(ctx, rule.ID, rule.LastTriggeredAt, now)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("rule_id", rule.ID.String()).
			Msg("failed to commit rule trigger timestamp")
		return
	}
	if !committed {
		c.logger.Debug().
			Str("rule_id", rule.ID.String()).
			Msg("trigger timestamp already advanced by a concurrent evaluation")
	}
}
