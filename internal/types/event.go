package types

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	sdkmath "cosmossdk.io/math"
	abcitypes "github.com/cometbft/cometbft/abci/types"

	"github.com/farmlabs/farming-engine/internal/farming"
)

// ErrNotFarmingEvent indicates the ABCI event was not emitted by the engine.
var ErrNotFarmingEvent = errors.New("not a farming event")

const EventTypePrefix = "farming.v1.Event"

const (
	attrPoolIndex = "pool_index"
	attrUser      = "user"
	attrAmount    = "amount"
	attrFee       = "fee"
	attrTime      = "time"
)

// ToABCIEvent encodes an engine event the way chain hosts emit it.
// Extra attributes follow the fixed ones in key order.
func ToABCIEvent(ev farming.Event) abcitypes.Event {
	attrs := []abcitypes.EventAttribute{
		{Key: attrPoolIndex, Value: strconv.FormatUint(ev.PoolIndex, 10), Index: true},
		{Key: attrUser, Value: ev.User, Index: true},
		{Key: attrTime, Value: strconv.FormatUint(ev.Time, 10)},
	}
	if !ev.Amount.IsNil() {
		attrs = append(attrs, abcitypes.EventAttribute{Key: attrAmount, Value: ev.Amount.String()})
	}
	if !ev.Fee.IsNil() {
		attrs = append(attrs, abcitypes.EventAttribute{Key: attrFee, Value: ev.Fee.String()})
	}
	for _, key := range slices.Sorted(maps.Keys(ev.Attrs)) {
		attrs = append(attrs, abcitypes.EventAttribute{Key: key, Value: ev.Attrs[key]})
	}

	return abcitypes.Event{
		Type:       EventTypePrefix + ev.Type.String(),
		Attributes: attrs,
	}
}

// ParseABCIEvent is the inverse of ToABCIEvent.
func ParseABCIEvent(event abcitypes.Event) (farming.Event, error) {
	name, ok := strings.CutPrefix(event.Type, EventTypePrefix)
	if !ok || name == "" {
		return farming.Event{}, fmt.Errorf("%w: %s", ErrNotFarmingEvent, event.Type)
	}

	ev := farming.Event{Type: farming.EventType(name)}
	for _, attr := range event.Attributes {
		var err error
		switch attr.Key {
		case attrPoolIndex:
			ev.PoolIndex, err = strconv.ParseUint(attr.Value, 10, 64)
		case attrTime:
			ev.Time, err = strconv.ParseUint(attr.Value, 10, 64)
		case attrUser:
			ev.User = attr.Value
		case attrAmount:
			ev.Amount, err = sdkmath.ParseUint(attr.Value)
		case attrFee:
			ev.Fee, err = sdkmath.ParseUint(attr.Value)
		default:
			if ev.Attrs == nil {
				ev.Attrs = make(map[string]string)
			}
			ev.Attrs[attr.Key] = attr.Value
		}
		if err != nil {
			return farming.Event{}, fmt.Errorf("invalid %s attribute %q: %w", attr.Key, attr.Value, err)
		}
	}
	return ev, nil
}
