package dispatch

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"certwatch/internals/modules/alertrule"

	"github.com/rs/zerolog"
)

// Publisher is the outbound side of the notifications exchange.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// channelRoutingKeys is the enumerated channel capability set. Dispatching
// through this table means an unknown channel cannot reach the publish path,
// it is rejected as unsupported configuration upstream.
var channelRoutingKeys = map[alertrule.Channel]string{
	alertrule.ChannelEmail:     "alert.email",
	alertrule.ChannelDashboard: "alert.dashboard",
	alertrule.ChannelWebhook:   "alert.webhook",
}

// Notifier drains firing decisions and fans each one out per channel. Every
// channel publish is independent: one failed channel is logged and the rest
// still go out, with no ordering guarantee across channels.
type Notifier struct {
	ctx          context.Context
	workerCount  int
	workerWG     sync.WaitGroup
	decisionChan chan Decision
	publisher    Publisher
	logger       *zerolog.Logger
}

func NewNotifier(ctx context.Context, workerCount, channelSize int, publisher Publisher, logger *zerolog.Logger) *Notifier {
	return &Notifier{
		ctx:          ctx,
		workerCount:  workerCount,
		decisionChan: make(chan Decision, channelSize),
		publisher:    publisher,
		logger:       logger,
	}
}

// Deliver implements Sink. Drops are not acceptable here, the send blocks
// when the workers fall behind.
func (n *Notifier) Deliver(decision Decision) {
	select {
	case n.decisionChan <- decision:
	case <-n.ctx.Done():
	}
}

// Run starts the notifier workers
func (n *Notifier) Run() {
	n.workerWG.Add(n.workerCount)

	for range n.workerCount {
		go n.worker()
	}
}

func (n *Notifier) worker() {
	defer n.workerWG.Done()

	for decision := range n.decisionChan {
		n.fanOut(decision)
	}
}

func (n *Notifier) fanOut(decision Decision) {
	now := time.Now()

	for _, channel := range decision.Channels {
		routingKey, ok := channelRoutingKeys[channel]
		if !ok {
			// the coordinator flags these before decisions reach the sink
			n.logger.Warn().
				Str("rule_id", decision.RuleID.String()).
				Str("channel", string(channel)).
				Msg("skipping unsupported notification channel")
			continue
		}

		notification := Notification{
			Channel:   channel,
			RuleID:    decision.RuleID,
			TargetID:  decision.TargetID,
			Severity:  decision.Severity,
			Reason:    decision.ReasonCode,
			Payload:   decision.Payload,
			CreatedAt: now,
		}

		body, err := json.Marshal(notification)
		if err != nil {
			n.logger.Error().Err(err).Msg("failed to encode notification")
			continue
		}

		pubCtx, cancel := context.WithTimeout(n.ctx, 5*time.Second)
		if err := n.publisher.Publish(pubCtx, routingKey, body); err != nil {
			// one channel failing must not block the others
			n.logger.Error().
				Err(err).
				Str("rule_id", decision.RuleID.String()).
				Str("channel", string(channel)).
				Msg("failed to publish notification")
		}
		cancel()
	}
}

// Close stops intake and waits for in-flight fan-outs to finish.
func (n *Notifier) Close() {
	close(n.decisionChan)
	n.workerWG.Wait()
}
