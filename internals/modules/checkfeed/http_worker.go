package checkfeed

import (
	"time"

	"certwatch/internals/modules/alertrule"
	"certwatch/internals/modules/dispatch"
	"certwatch/internals/modules/status"
)

func (p *Processor) handleHTTP(res CheckResult) {
	ctx := p.ctx

	t, err := p.targetSvc.LoadTarget(ctx, res.TargetID)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("target_id", res.TargetID.String()).
			Msg("failed to load target for http result")
		return
	}

	if !t.Enabled {
		// disabled between dispatch and result, drop the observation
		_ = p.redisSvc.AckInflight(ctx, t.ID.String())
		return
	}

	st, reason := status.ClassifyUptime(*res.HTTP, status.UptimePolicy{
		ExpectedStatus:    int(t.ExpectedStatus),
		MaxResponseTimeMs: t.MaxResponseTimeMs,
		ExpectedContent:   t.ExpectedContent,
		ForbiddenContent:  t.ForbiddenContent,
	})

	if err := p.redisSvc.StoreHTTPStatus(ctx, t.ID, status.LatestHTTPStatus{
		Status:         string(st),
		Reason:         reason,
		StatusCode:     res.HTTP.StatusCode,
		ResponseTimeMs: res.HTTP.ResponseTimeMs,
		CheckedAt:      res.CheckedAt,
	}); err != nil {
		p.logger.Error().
			Err(err).
			Str("target_id", t.ID.String()).
			Msg("failed to store http status in redis")
	}

	event, err := p.tracker.Observe(ctx, t.ID, st, reason, res.CheckedAt)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("target_id", t.ID.String()).
			Msg("incident tracking failed")
		// alerting still runs, the rules that need the transition stay quiet
	}

	in := alertrule.Input{
		CheckKind:      alertrule.CheckHTTP,
		UptimeStatus:   st,
		ResponseTimeMs: res.HTTP.ResponseTimeMs,
	}
	payload := dispatch.Payload{
		TargetURL:      t.URL,
		CheckKind:      alertrule.CheckHTTP,
		UptimeStatus:   st,
		StatusCode:     res.HTTP.StatusCode,
		ResponseTimeMs: res.HTTP.ResponseTimeMs,
		Reason:         reason,
		CheckedAt:      res.CheckedAt,
	}
	if event != nil {
		in.IncidentEvent = event.Kind
		payload.IncidentID = event.Incident.ID.String()
		payload.IncidentEvent = event.Kind
		payload.DurationMin = event.DurationMinutes
	}

	p.evaluateRules(ctx, t, in, payload)

	// the http result owns the schedule bookkeeping, the ssl result of the
	// same job does not touch it
	if err := p.redisSvc.AckInflight(ctx, t.ID.String()); err != nil {
		p.logger.Warn().
			Err(err).
			Str("target_id", t.ID.String()).
			Msg("failed to ack inflight entry")
	}
	nextRun := time.Now().Add(time.Duration(t.IntervalSec) * time.Second)
	if err := p.redisSvc.Schedule(ctx, t.ID.String(), nextRun); err != nil {
		p.logger.Error().
			Err(err).
			Str("target_id", t.ID.String()).
			Msg("failed to reschedule target")
	}
}
