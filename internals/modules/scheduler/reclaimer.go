package scheduler

import (
	"context"
	"time"

	"certwatch/config"
	"certwatch/pkg/redisstore"

	"github.com/rs/zerolog"
)

// Reclaimer is a background process that moves targets whose check never
// reported back from inflight to the schedule.
type Reclaimer struct {
	ctx      context.Context
	interval time.Duration
	limit    int

	redisSvc *redisstore.Client

	logger *zerolog.Logger
}

func NewReclaimer(
	ctx context.Context,
	reclaimerCfg *config.ReclaimerConfig,
	redisSvc *redisstore.Client,
	logger *zerolog.Logger,
) *Reclaimer {
	return &Reclaimer{
		ctx:      ctx,
		redisSvc: redisSvc,
		interval: reclaimerCfg.Interval,
		limit:    reclaimerCfg.Limit,
		logger:   logger,
	}
}

// Run starts the Reclaimer
func (r *Reclaimer) Run() {
	if r.interval <= 0 {
		panic("reclaim loop interval must be > 0")
	}
	r.logger.Info().Msg("reclaimer started")
	ticker := time.NewTicker(r.interval)
	defer func() {
		ticker.Stop()
		r.logger.Info().Msg("reclaimer stopped")
	}()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			r.doWork()
		}
	}
}

func (r *Reclaimer) doWork() {
	count, err := r.redisSvc.ReclaimTargets(r.ctx, reclaimTargetsScript, time.Now(), r.limit)
	if err != nil {
		// transient redis error, next tick retries
		r.logger.Error().Err(err).Msg("failed to reclaim targets from redis")
		return
	}
	if count > 0 {
		r.logger.Info().Msgf("reclaimed %d targets", count)
	}
}
