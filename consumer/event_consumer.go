package consumer

import (
	"context"
)

const FarmingEventSchemaVersion = 1

// FarmingEvent is the message published for every committed operation.
type FarmingEvent struct {
	SchemaVersion int               `json:"schema_version"`
	ID            string            `json:"id"`
	Sequence      uint64            `json:"sequence"`
	EventType     string            `json:"event_type"`
	Time          uint64            `json:"time"`
	PoolIndex     uint64            `json:"pool_index"`
	User          string            `json:"user"`
	Amount        string            `json:"amount,omitempty"`
	Fee           string            `json:"fee,omitempty"`
	Attrs         map[string]string `json:"attrs,omitempty"`
}

type EventConsumer interface {
	Start() error
	PushFarmingEvent(ctx context.Context, ev *FarmingEvent) error
	Stop() error
}
