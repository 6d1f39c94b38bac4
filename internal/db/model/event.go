package model

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/farmlabs/farming-engine/internal/farming"
)

type EventDocument struct {
	ID        string            `bson:"_id"`
	Sequence  uint64            `bson:"sequence"`
	Type      string            `bson:"type"`
	Time      uint64            `bson:"time"`
	PoolIndex uint64            `bson:"pool_index"`
	User      string            `bson:"user"`
	Amount    string            `bson:"amount,omitempty"`
	Fee       string            `bson:"fee,omitempty"`
	Attrs     map[string]string `bson:"attrs,omitempty"`
}

func NewEventDocument(id string, sequence uint64, ev farming.Event) *EventDocument {
	doc := &EventDocument{
		ID:        id,
		Sequence:  sequence,
		Type:      ev.Type.String(),
		Time:      ev.Time,
		PoolIndex: ev.PoolIndex,
		User:      ev.User,
		Attrs:     ev.Attrs,
	}
	if !ev.Amount.IsNil() {
		doc.Amount = ev.Amount.String()
	}
	if !ev.Fee.IsNil() {
		doc.Fee = ev.Fee.String()
	}
	return doc
}

func (d *EventDocument) ToEvent() (farming.Event, error) {
	ev := farming.Event{
		Type:      farming.EventType(d.Type),
		Time:      d.Time,
		PoolIndex: d.PoolIndex,
		User:      d.User,
		Attrs:     d.Attrs,
	}

	var err error
	if ev.Amount, err = parseOptionalUint("amount", d.Amount); err != nil {
		return farming.Event{}, fmt.Errorf("event %s: %w", d.ID, err)
	}
	if ev.Fee, err = parseOptionalUint("fee", d.Fee); err != nil {
		return farming.Event{}, fmt.Errorf("event %s: %w", d.ID, err)
	}
	return ev, nil
}

func parseOptionalUint(field, s string) (sdkmath.Uint, error) {
	if s == "" {
		return sdkmath.Uint{}, nil
	}
	return parseUint(field, s)
}
