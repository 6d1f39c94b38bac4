package farming

import (
	sdkmath "cosmossdk.io/math"
)

// Position is a depositor's stake in one pool.
type Position struct {
	Amount        sdkmath.Uint
	RewardDebt    sdkmath.Uint
	PendingReward sdkmath.Uint
}

// PositionKey identifies a position; a missing key reads as a zero position.
type PositionKey struct {
	PoolIndex uint64
	User      string
}

// UserInfo is the read-only view of a position at a given time.
type UserInfo struct {
	Amount sdkmath.Uint
	// PendingReward is the claimable reward projected to the query time.
	PendingReward sdkmath.Uint
	RewardDebt    sdkmath.Uint
	// SnapshotReward is the claimable reward as of the pool's last
	// settlement, so PendingReward - SnapshotReward is what accrued since.
	SnapshotReward sdkmath.Uint
}

func ZeroPosition() Position {
	return Position{
		Amount:        sdkmath.ZeroUint(),
		RewardDebt:    sdkmath.ZeroUint(),
		PendingReward: sdkmath.ZeroUint(),
	}
}

func (pos *Position) IsZero() bool {
	return pos.Amount.IsZero() && pos.RewardDebt.IsZero() && pos.PendingReward.IsZero()
}

// accrued is the reward earned since the last debt sync. The accumulator
// only grows and RewardDebt was floored at an older value, so this never
// underflows.
func (pos *Position) accrued(accRewardPerShare sdkmath.Uint) sdkmath.Uint {
	return shareOf(pos.Amount, accRewardPerShare).Sub(pos.RewardDebt)
}

// settle moves accrued reward into PendingReward. RewardDebt is left for
// syncDebt, which callers invoke once Amount has its final value.
func (pos *Position) settle(pool *Pool, now uint64) {
	pool.Settle(now)
	pos.PendingReward = pos.PendingReward.Add(pos.accrued(pool.AccRewardPerShare))
}

func (pos *Position) syncDebt(pool *Pool) {
	pos.RewardDebt = shareOf(pos.Amount, pool.AccRewardPerShare)
}

func (pos *Position) claimable(accRewardPerShare sdkmath.Uint) sdkmath.Uint {
	return pos.PendingReward.Add(pos.accrued(accRewardPerShare))
}

// ledger stores positions keyed by pool and user.
type ledger struct {
	positions map[PositionKey]Position
}

func newLedger() *ledger {
	return &ledger{positions: make(map[PositionKey]Position)}
}

func (l *ledger) get(key PositionKey) Position {
	pos, ok := l.positions[key]
	if !ok {
		return ZeroPosition()
	}
	return pos
}

func (l *ledger) put(key PositionKey, pos Position) {
	if pos.IsZero() {
		delete(l.positions, key)
		return
	}
	l.positions[key] = pos
}

// sumAmounts adds up the stake of every position in a pool.
func (l *ledger) sumAmounts(poolIndex uint64) sdkmath.Uint {
	total := sdkmath.ZeroUint()
	for key, pos := range l.positions {
		if key.PoolIndex == poolIndex {
			total = total.Add(pos.Amount)
		}
	}
	return total
}
