package checkfeed

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"certwatch/config"
	"certwatch/internals/modules/alertrule"
	"certwatch/internals/modules/dispatch"
	"certwatch/internals/modules/incident"
	"certwatch/internals/modules/target"
	"certwatch/pkg/redisstore"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

type TargetService interface {
	LoadTarget(ctx context.Context, targetID uuid.UUID) (target.Target, error)
}

type RuleSource interface {
	RulesForTarget(ctx context.Context, userID, targetID uuid.UUID) ([]alertrule.Rule, error)
}

// Processor routes incoming check results to kind-specific worker pools and
// runs each observation through the classify / track / evaluate pipeline.
type Processor struct {
	ctx         context.Context
	redisSvc    *redisstore.Client
	tracker     *incident.Tracker
	targetSvc   TargetService
	rules       RuleSource
	coordinator *dispatch.Coordinator
	engineCfg   config.EngineConfig
	logger      *zerolog.Logger

	httpChan chan CheckResult
	sslChan  chan CheckResult

	httpWorkers int
	sslWorkers  int
	workerWG    sync.WaitGroup
	closeOnce   sync.Once
}

func NewProcessor(
	ctx context.Context,
	cfg *config.CheckfeedConfig,
	engineCfg config.EngineConfig,
	redisSvc *redisstore.Client,
	tracker *incident.Tracker,
	targetSvc TargetService,
	rules RuleSource,
	coordinator *dispatch.Coordinator,
	logger *zerolog.Logger,
) *Processor {
	return &Processor{
		ctx:         ctx,
		redisSvc:    redisSvc,
		tracker:     tracker,
		targetSvc:   targetSvc,
		rules:       rules,
		coordinator: coordinator,
		engineCfg:   engineCfg,
		logger:      logger,
		httpChan:    make(chan CheckResult, 50),
		sslChan:     make(chan CheckResult, 50),
		httpWorkers: cfg.HTTPWorkers,
		sslWorkers:  cfg.SSLWorkers,
	}
}

func (p *Processor) Start() {
	for range p.httpWorkers {
		p.workerWG.Add(1)
		go p.httpWorker()
	}
	for range p.sslWorkers {
		p.workerWG.Add(1)
		go p.sslWorker()
	}
}

// Handle implements the queue consumer contract: unmarshal and route. The
// pipeline itself runs on the worker pools, an accepted message is processed
// at most once per process lifetime; a lost result is healed by the inflight
// reclaimer.
func (p *Processor) Handle(ctx context.Context, msg amqp091.Delivery) error {
	var res CheckResult
	if err := json.Unmarshal(msg.Body, &res); err != nil {
		return err
	}
	if res.TargetID == (uuid.UUID{}) {
		return errors.New("check result missing target id")
	}

	switch res.Kind {
	case ResultHTTP:
		if res.HTTP == nil {
			return errors.New("http result missing http fact")
		}
		select {
		case p.httpChan <- res:
		case <-ctx.Done():
			return ctx.Err()
		}
	case ResultSSL:
		if res.Certificate == nil {
			return errors.New("ssl result missing certificate fact")
		}
		select {
		case p.sslChan <- res:
		case <-ctx.Done():
			return ctx.Err()
		}
	default:
		return errors.New("unknown check result kind")
	}
	return nil
}

func (p *Processor) httpWorker() {
	defer p.workerWG.Done()
	for res := range p.httpChan {
		p.handleHTTP(res)
	}
}

func (p *Processor) sslWorker() {
	defer p.workerWG.Done()
	for res := range p.sslChan {
		p.handleSSL(res)
	}
}

// Close stops the worker pools after draining the buffered results.
func (p *Processor) Close() {
	p.closeOnce.Do(func() {
		close(p.httpChan)
		close(p.sslChan)
	})
	p.workerWG.Wait()
}
