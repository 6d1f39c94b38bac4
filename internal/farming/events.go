package farming

import (
	sdkmath "cosmossdk.io/math"
)

type EventType string

const (
	EventDeposit           EventType = "Deposit"
	EventWithdraw          EventType = "Withdraw"
	EventHarvest           EventType = "Harvest"
	EventPoolAdded         EventType = "PoolAdded"
	EventRewardRateUpdated EventType = "RewardRateUpdated"
	EventPoolPauseUpdated  EventType = "PoolPauseUpdated"
	EventWhitelistUpdated  EventType = "WhitelistUpdated"
	EventFeeConfigUpdated  EventType = "FeeConfigUpdated"
)

func (e EventType) String() string {
	return string(e)
}

// Event is emitted for every committed operation. Amount carries the
// operation's headline value: the deposited/withdrawn stake, the net harvest
// payout or the new reward rate. Fee is only set on Harvest.
type Event struct {
	Type      EventType
	Time      uint64
	PoolIndex uint64
	User      string
	Amount    sdkmath.Uint
	Fee       sdkmath.Uint
	Attrs     map[string]string
}

// Transfer moves Amount of Asset between two accounts.
type Transfer struct {
	Asset  string
	From   string
	To     string
	Amount sdkmath.Uint
}

// Receipt describes what a committed operation did.
type Receipt struct {
	Events    []Event
	Transfers []Transfer
}
