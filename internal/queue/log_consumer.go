package queue

import (
	"context"

	"go.uber.org/zap"

	"github.com/farmlabs/farming-engine/consumer"
)

// LogConsumer stands in for the broker when no queue is configured and
// only logs the events.
type LogConsumer struct {
	logger *zap.Logger
}

var _ consumer.EventConsumer = (*LogConsumer)(nil)

func NewLogConsumer(logger *zap.Logger) *LogConsumer {
	return &LogConsumer{logger: logger.Named("events")}
}

func (c *LogConsumer) Start() error {
	return nil
}

func (c *LogConsumer) PushFarmingEvent(_ context.Context, ev *consumer.FarmingEvent) error {
	c.logger.Info("farming event",
		zap.Uint64("sequence", ev.Sequence),
		zap.String("event_type", ev.EventType),
		zap.Uint64("pool_index", ev.PoolIndex),
		zap.String("user", ev.User),
		zap.String("amount", ev.Amount),
		zap.String("fee", ev.Fee),
	)
	return nil
}

func (c *LogConsumer) Stop() error {
	return nil
}
