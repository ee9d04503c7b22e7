package checkfeed

import (
	"context"
	"time"

	"certwatch/internals/modules/alertrule"
	"certwatch/internals/modules/dispatch"
	"certwatch/internals/modules/status"
	"certwatch/internals/modules/target"
)

func (p *Processor) handleSSL(res CheckResult) {
	ctx := p.ctx

	t, err := p.targetSvc.LoadTarget(ctx, res.TargetID)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("target_id", res.TargetID.String()).
			Msg("failed to load target for ssl result")
		return
	}

	if !t.Enabled {
		return
	}

	now := time.Now()
	days := status.DaysRemaining(res.Certificate.NotAfter, now)

	warnDays := int(t.SSLExpiryWarnDays)
	if warnDays <= 0 {
		warnDays = p.engineCfg.SSLExpiringSoonDays
	}
	st := status.ClassifySSL(*res.Certificate, status.SSLPolicy{ExpiringSoonDays: warnDays}, now)

	if err := p.redisSvc.StoreSSLStatus(ctx, t.ID, status.LatestSSLStatus{
		Status:        string(st),
		DaysRemaining: days,
		Issuer:        res.Certificate.Issuer,
		NotAfter:      res.Certificate.NotAfter,
		CheckedAt:     res.CheckedAt,
	}); err != nil {
		p.logger.Error().
			Err(err).
			Str("target_id", t.ID.String()).
			Msg("failed to store ssl status in redis")
	}

	in := alertrule.Input{
		CheckKind:     alertrule.CheckSSL,
		SSLStatus:     st,
		DaysRemaining: days,
	}
	payload := dispatch.Payload{
		TargetURL:     t.URL,
		CheckKind:     alertrule.CheckSSL,
		SSLStatus:     st,
		DaysRemaining: days,
		CertIssuer:    res.Certificate.Issuer,
		CertNotAfter:  res.Certificate.NotAfter,
		Reason:        res.Certificate.CheckError,
		CheckedAt:     res.CheckedAt,
	}

	p.evaluateRules(ctx, t, in, payload)
}

func (p *Processor) evaluateRules(ctx context.Context, t target.Target, in alertrule.Input, payload dispatch.Payload) {
	rules, err := p.rules.RulesForTarget(ctx, t.UserID, t.ID)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("target_id", t.ID.String()).
			Msg("failed to load alert rules")
		return
	}
	if len(rules) == 0 {
		return
	}

	p.coordinator.Dispatch(ctx, t.ID, in, rules, time.Now(), payload)
}
