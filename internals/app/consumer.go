package app

import (
	"context"
)

// StartConsumer attaches the checkfeed processor to the results queue. Runs
// as a separate goroutine as the consume method ranges on the delivery
// channel.
func StartConsumer(ctx context.Context, c *Container) {
	go func() {
		if err := c.Consumer.Consume(ctx, c.Processor); err != nil {
			c.Logger.Error().
				Err(err).
				Msg("rabbitmq consumer stopped")
		}
	}()
}
