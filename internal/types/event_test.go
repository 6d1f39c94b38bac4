package types

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmlabs/farming-engine/internal/farming"
)

func TestToABCIEvent(t *testing.T) {
	ev := farming.Event{
		Type:      farming.EventHarvest,
		Time:      1_650_002_881,
		PoolIndex: 2,
		User:      "accountA",
		Amount:    sdkmath.NewUintFromString("19679994587219930510"),
		Fee:       sdkmath.NewUintFromString("299695349043958332"),
		Attrs:     map[string]string{"z": "last", "a": "first"},
	}

	out := ToABCIEvent(ev)
	assert.Equal(t, "farming.v1.EventHarvest", out.Type)
	require.Len(t, out.Attributes, 7)
	assert.Equal(t, abcitypes.EventAttribute{Key: "pool_index", Value: "2", Index: true}, out.Attributes[0])
	assert.Equal(t, "a", out.Attributes[5].Key)
	assert.Equal(t, "z", out.Attributes[6].Key)

	parsed, err := ParseABCIEvent(out)
	require.NoError(t, err)
	assert.Equal(t, ev.Type, parsed.Type)
	assert.Equal(t, ev.Time, parsed.Time)
	assert.Equal(t, ev.PoolIndex, parsed.PoolIndex)
	assert.Equal(t, ev.User, parsed.User)
	assert.Equal(t, ev.Amount.String(), parsed.Amount.String())
	assert.Equal(t, ev.Fee.String(), parsed.Fee.String())
	assert.Equal(t, ev.Attrs, parsed.Attrs)
}

func TestToABCIEvent_OmitsUnsetAmounts(t *testing.T) {
	out := ToABCIEvent(farming.Event{Type: farming.EventWhitelistUpdated, User: "admin"})
	for _, attr := range out.Attributes {
		assert.NotEqual(t, "amount", attr.Key)
		assert.NotEqual(t, "fee", attr.Key)
	}

	parsed, err := ParseABCIEvent(out)
	require.NoError(t, err)
	assert.True(t, parsed.Amount.IsNil())
	assert.Nil(t, parsed.Attrs)
}

func TestParseABCIEvent(t *testing.T) {
	tests := []struct {
		name        string
		event       abcitypes.Event
		expectedErr error
		wantErr     bool
	}{
		{
			name:        "foreign event",
			event:       abcitypes.Event{Type: "cosmos.bank.v1beta1.EventTransfer"},
			expectedErr: ErrNotFarmingEvent,
			wantErr:     true,
		},
		{
			name:        "prefix only",
			event:       abcitypes.Event{Type: EventTypePrefix},
			expectedErr: ErrNotFarmingEvent,
			wantErr:     true,
		},
		{
			name: "bad pool index",
			event: abcitypes.Event{
				Type:       "farming.v1.EventDeposit",
				Attributes: []abcitypes.EventAttribute{{Key: "pool_index", Value: "x"}},
			},
			wantErr: true,
		},
		{
			name: "negative amount",
			event: abcitypes.Event{
				Type:       "farming.v1.EventDeposit",
				Attributes: []abcitypes.EventAttribute{{Key: "amount", Value: "-1"}},
			},
			wantErr: true,
		},
		{
			name: "deposit",
			event: abcitypes.Event{
				Type: "farming.v1.EventDeposit",
				Attributes: []abcitypes.EventAttribute{
					{Key: "pool_index", Value: "0"},
					{Key: "amount", Value: "1000"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseABCIEvent(tt.event)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
		})
	}
}
