package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	QueueTypeQuorum  = "quorum"
	QueueTypeClassic = "classic"
)

// QueueConfig points at the RabbitMQ broker farming events are published to.
type QueueConfig struct {
	User             string        `mapstructure:"queue_user"`
	Password         string        `mapstructure:"queue_password"`
	Url              string        `mapstructure:"url"`
	EventQueueName   string        `mapstructure:"event_queue_name"`
	QueueType        string        `mapstructure:"queue_type"`
	PublishTimeout   time.Duration `mapstructure:"publish_timeout"`
	MaxRetryAttempts uint          `mapstructure:"max_retry_attempts"`
	RetryInterval    time.Duration `mapstructure:"retry_interval"`
}

func (cfg *QueueConfig) Validate() error {
	if cfg.User == "" {
		return errors.New("missing queue user")
	}

	if cfg.Password == "" {
		return errors.New("missing queue password")
	}

	if cfg.Url == "" {
		return errors.New("missing queue url")
	}

	if cfg.EventQueueName == "" {
		return errors.New("missing event queue name")
	}

	if cfg.QueueType != QueueTypeQuorum && cfg.QueueType != QueueTypeClassic {
		return fmt.Errorf("queue type must be %q or %q", QueueTypeQuorum, QueueTypeClassic)
	}

	if cfg.PublishTimeout <= 0 {
		return errors.New("publish timeout must be positive")
	}

	if cfg.MaxRetryAttempts == 0 {
		return errors.New("max retry attempts must be positive")
	}

	if cfg.RetryInterval <= 0 {
		return errors.New("retry interval must be positive")
	}

	return nil
}

// AmqpURL builds the connection url with credentials.
func (cfg *QueueConfig) AmqpURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s", cfg.User, cfg.Password, cfg.Url)
}
