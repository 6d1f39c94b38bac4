package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/avast/retry-go/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/farmlabs/farming-engine/consumer"
	"github.com/farmlabs/farming-engine/internal/config"
	"github.com/farmlabs/farming-engine/internal/observability/metrics"
)

var errNotStarted = errors.New("queue manager is not started")

// QueueManager publishes farming events to a RabbitMQ queue. The connection
// is re-established on the next publish after the broker dropped it.
type QueueManager struct {
	cfg    *config.QueueConfig
	logger *zap.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

var _ consumer.EventConsumer = (*QueueManager)(nil)

func NewQueueManager(cfg *config.QueueConfig, logger *zap.Logger) (*QueueManager, error) {
	if cfg == nil {
		return nil, errors.New("queue config is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	return &QueueManager{
		cfg:    cfg,
		logger: logger.Named("queue"),
	}, nil
}

// Start connects to the broker and declares the event queue.
func (qm *QueueManager) Start() error {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	return qm.connect()
}

func (qm *QueueManager) connect() error {
	conn, err := amqp.Dial(qm.cfg.AmqpURL())
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		qm.cfg.EventQueueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		amqp.Table{"x-queue-type": qm.cfg.QueueType},
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare queue %s: %w", qm.cfg.EventQueueName, err)
	}

	qm.conn = conn
	qm.channel = ch
	qm.logger.Info("connected to rabbitmq", zap.String("queue", qm.cfg.EventQueueName))
	return nil
}

func (qm *QueueManager) PushFarmingEvent(ctx context.Context, ev *consumer.FarmingEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", ev.ID, err)
	}

	err = retry.Do(
		func() error {
			return qm.publish(ctx, ev.ID, body)
		},
		retry.Context(ctx),
		retry.Attempts(qm.cfg.MaxRetryAttempts),
		retry.Delay(qm.cfg.RetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			qm.logger.Warn("failed to publish event, retrying",
				zap.String("event_id", ev.ID),
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		metrics.RecordQueueSendError()
		return fmt.Errorf("failed to publish event %s: %w", ev.ID, err)
	}
	return nil
}

func (qm *QueueManager) publish(ctx context.Context, id string, body []byte) error {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if qm.conn == nil {
		return retry.Unrecoverable(errNotStarted)
	}
	if qm.conn.IsClosed() || qm.channel.IsClosed() {
		if err := qm.connect(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, qm.cfg.PublishTimeout)
	defer cancel()

	return qm.channel.PublishWithContext(ctx,
		"", // default exchange routes by queue name
		qm.cfg.EventQueueName,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    id,
			Body:         body,
		},
	)
}

// Stop gracefully stops the interaction with the queue, ensuring all resources are properly released.
func (qm *QueueManager) Stop() error {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	qm.logger.Info("shutting down queue manager")
	if qm.conn == nil {
		return nil
	}

	var errs []error
	if err := qm.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		errs = append(errs, err)
	}
	if err := qm.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		errs = append(errs, err)
	}
	qm.conn, qm.channel = nil, nil
	return errors.Join(errs...)
}
