package scheduler

import (
	"context"
	"encoding/json"
	"time"

	"certwatch/config"
	"certwatch/internals/modules/target"
	"certwatch/pkg/rabbitmq"
	"certwatch/pkg/redisstore"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type TargetService interface {
	LoadTarget(ctx context.Context, targetID uuid.UUID) (target.Target, error)
}

type JobPublisher interface {
	PublishBatch(ctx context.Context, bodies [][]byte) error
}

// Scheduler pulls due targets from the redis schedule and hands check jobs to
// the checker fleet. Every fetched entry lands in the inflight set first, the
// reclaimer returns it to the schedule when no result arrives within the
// visibility timeout.
type Scheduler struct {
	ctx               context.Context
	redisSvc          *redisstore.Client
	targetSvc         TargetService
	publisher         JobPublisher
	interval          time.Duration
	batchSize         int
	visibilityTimeout time.Duration
	logger            *zerolog.Logger
}

func NewScheduler(
	ctx context.Context,
	schedCfg *config.SchedulerConfig,
	redisSvc *redisstore.Client,
	targetSvc TargetService,
	publisher JobPublisher,
	logger *zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		ctx:               ctx,
		redisSvc:          redisSvc,
		targetSvc:         targetSvc,
		publisher:         publisher,
		interval:          schedCfg.Interval,
		batchSize:         schedCfg.BatchSize,
		visibilityTimeout: schedCfg.VisibilityTimeout,
		logger:            logger,
	}
}

func (sc *Scheduler) Start() {
	ticker := time.NewTicker(sc.interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-sc.ctx.Done():
				return

			case <-ticker.C:
				sc.doWork()
			}
		}
	}()
}

func (sc *Scheduler) doWork() {
	now := time.Now()

	ids, err := sc.redisSvc.FetchAndMoveToInflight(sc.ctx, fetchAndMoveToInflightScript, now, sc.batchSize, sc.visibilityTimeout)
	if err != nil {
		// transient redis error, next tick retries
		sc.logger.Error().Err(err).Msg("failed to fetch due targets")
		return
	}
	if len(ids) == 0 {
		return
	}

	jobs := make([][]byte, 0, len(ids))
	for _, raw := range ids {
		targetID, err := uuid.Parse(raw)
		if err != nil {
			// corrupted entry, drop it from inflight too
			sc.logger.Warn().Str("member", raw).Msg("dropping corrupted schedule entry")
			_ = sc.redisSvc.AckInflight(sc.ctx, raw)
			continue
		}

		t, err := sc.targetSvc.LoadTarget(sc.ctx, targetID)
		if err != nil {
			sc.logger.Error().
				Err(err).
				Str("target_id", raw).
				Msg("failed to load target for dispatch")
			// stays inflight, the reclaimer reschedules it
			continue
		}
		if !t.Enabled {
			_ = sc.redisSvc.AckInflight(sc.ctx, raw)
			continue
		}

		body, err := json.Marshal(rabbitmq.CheckJob{
			TargetID:        t.ID,
			URL:             t.URL,
			TimeoutSec:      t.TimeoutSec,
			FollowRedirects: t.FollowRedirects,
			MaxRedirects:    t.MaxRedirects,
			DispatchedAt:    now,
		})
		if err != nil {
			sc.logger.Error().Err(err).Str("target_id", raw).Msg("failed to marshal check job")
			continue
		}
		jobs = append(jobs, body)
	}

	if len(jobs) == 0 {
		return
	}

	if err := sc.publisher.PublishBatch(sc.ctx, jobs); err != nil {
		// jobs stay inflight and come back via the reclaimer
		sc.logger.Error().Err(err).Int("jobs", len(jobs)).Msg("failed to publish check jobs")
		return
	}

	sc.logger.Debug().Int("jobs", len(jobs)).Msg("dispatched check jobs")
}
