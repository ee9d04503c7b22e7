package app

import (
	"context"

	"certwatch/config"
	middle "certwatch/internals/middleware"
	"certwatch/internals/modules/account"
	"certwatch/internals/modules/alertrule"
	"certwatch/internals/modules/checkfeed"
	"certwatch/internals/modules/dispatch"
	"certwatch/internals/modules/incident"
	"certwatch/internals/modules/scheduler"
	"certwatch/internals/modules/target"
	"certwatch/internals/security"
	"certwatch/pkg/rabbitmq"
	"certwatch/pkg/redisstore"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

type Container struct {
	DB          *pgxpool.Pool
	RedisClient *redisstore.Client
	Logger      *zerolog.Logger

	AccountHandler *account.Handler
	TargetHandler  *target.Handler
	RuleHandler    *alertrule.Handler
	AuthMW         *middle.AuthMiddleware

	Scheduler *scheduler.Scheduler
	Reclaimer *scheduler.Reclaimer
	Processor *checkfeed.Processor
	Notifier  *dispatch.Notifier
	Consumer  *rabbitmq.Consumer

	amqpConn     *amqp091.Connection
	jobPublisher *rabbitmq.Publisher
}

func NewContainer(ctx context.Context, db *pgxpool.Pool, cfg *config.Config, logger *zerolog.Logger) (*Container, error) {

	redisClient, err := redisstore.New(&cfg.Redis)
	if err != nil {
		return nil, err
	}

	amqpConn, err := rabbitmq.NewConnection(&cfg.RabbitMQ)
	if err != nil {
		return nil, err
	}
	if err := rabbitmq.SetupTopology(amqpConn, &cfg.RabbitMQ); err != nil {
		return nil, err
	}

	jobPublisher, err := rabbitmq.NewPublisher(amqpConn, cfg.RabbitMQ.ChecksExchange, cfg.RabbitMQ.ChecksRoutingKey)
	if err != nil {
		return nil, err
	}
	notifyPublisher, err := rabbitmq.NewPublisher(amqpConn, cfg.RabbitMQ.NotifyExchange, cfg.RabbitMQ.NotifyRoutingKey)
	if err != nil {
		return nil, err
	}
	consumer, err := rabbitmq.NewConsumer(amqpConn, cfg.RabbitMQ.ResultsQueue, cfg.RabbitMQ.ConsumerWorkers)
	if err != nil {
		return nil, err
	}

	valid := validator.New()
	tokenSvc := security.NewTokenService(&cfg.Auth)

	accountRepo := account.NewRepository(db, logger)
	targetRepo := target.NewRepository(db, logger)
	ruleRepo := alertrule.NewRepository(db, logger)
	incidentRepo := incident.NewRepository(db, logger)

	accountSvc := account.NewService(accountRepo, tokenSvc)
	ruleSvc := alertrule.NewService(ruleRepo)
	targetSvc := target.NewService(targetRepo, redisClient, accountSvc, incidentRepo, cfg.Engine.StaleAfter, logger)

	incidentStore := incident.NewCachedStore(incidentRepo, redisClient, logger)
	tracker := incident.NewTracker(incidentStore, logger)

	notifier := dispatch.NewNotifier(ctx, cfg.Dispatch.Workers, cfg.Dispatch.ChannelSize, notifyPublisher, logger)
	coordinator := dispatch.NewCoordinator(ruleRepo, notifier, logger)

	processor := checkfeed.NewProcessor(ctx, &cfg.Checkfeed, cfg.Engine, redisClient, tracker, targetSvc, ruleSvc, coordinator, logger)

	sched := scheduler.NewScheduler(ctx, &cfg.Scheduler, redisClient, targetSvc, jobPublisher, logger)
	reclaimer := scheduler.NewReclaimer(ctx, &cfg.Reclaimer, redisClient, logger)

	authMW := middle.NewAuthMiddleware(tokenSvc)

	return &Container{
		DB:          db,
		RedisClient: redisClient,
		Logger:      logger,

		AccountHandler: account.NewHandler(accountSvc, valid),
		TargetHandler:  target.NewHandler(targetSvc, valid),
		RuleHandler:    alertrule.NewHandler(ruleSvc, valid),
		AuthMW:         authMW,

		Scheduler: sched,
		Reclaimer: reclaimer,
		Processor: processor,
		Notifier:  notifier,
		Consumer:  consumer,

		amqpConn:     amqpConn,
		jobPublisher: jobPublisher,
	}, nil
}

// Shutdown drains the pipeline back to front: stop consuming, finish the
// workers, close the broker connection, then the stores.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Consumer != nil {
		if err := c.Consumer.Shutdown(ctx); err != nil {
			c.Logger.Error().Err(err).Msg("consumer shutdown failed")
		}
	}
	if c.Processor != nil {
		c.Processor.Close()
	}
	if c.Notifier != nil {
		c.Notifier.Close()
	}
	if c.jobPublisher != nil {
		_ = c.jobPublisher.Close()
	}
	if c.amqpConn != nil {
		_ = c.amqpConn.Close()
	}
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
	if c.DB != nil {
		c.DB.Close()
	}
	return nil
}
