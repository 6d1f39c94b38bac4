package farming

import (
	"fmt"
	"maps"
)

// State is the full engine state, used to persist and restore the engine.
type State struct {
	Pools     []Pool
	Positions map[PositionKey]Position
	Whitelist []string
	Fee       FeeConfig
}

// Snapshot copies the engine state.
func (e *Engine) Snapshot() State {
	return State{
		Pools:     append([]Pool(nil), e.pools.pools...),
		Positions: maps.Clone(e.ledger.positions),
		Whitelist: e.Whitelist(),
		Fee:       e.fee,
	}
}

// Restore replaces the engine state after checking that every pool's
// TotalStaked equals the sum of its positions.
func (e *Engine) Restore(state State) error {
	if err := state.Fee.Validate(); err != nil {
		return err
	}

	restored := newLedger()
	for key, pos := range state.Positions {
		if key.PoolIndex >= uint64(len(state.Pools)) {
			return fmt.Errorf("%w: position of %s references unknown pool %d", ErrInvalidState, key.User, key.PoolIndex)
		}
		restored.put(key, pos)
	}

	for i, pool := range state.Pools {
		if pool.StartTime > pool.EndTime {
			return fmt.Errorf("%w: pool %d: %w", ErrInvalidState, i, ErrInvalidWindow)
		}
		if sum := restored.sumAmounts(uint64(i)); !sum.Equal(pool.TotalStaked) {
			return fmt.Errorf("%w: pool %d total staked %s, positions sum to %s", ErrInvalidState, i, pool.TotalStaked, sum)
		}
	}

	e.pools = registry{pools: append([]Pool(nil), state.Pools...)}
	e.ledger = restored
	e.whitelist = toSet(state.Whitelist)
	e.fee = state.Fee
	return nil
}
