package model

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/farmlabs/farming-engine/internal/farming"
)

// Amounts are stored as base-10 strings, they do not fit into any bson
// numeric type.
type PoolDocument struct {
	Index             uint64 `bson:"_id"`
	StakingAsset      string `bson:"staking_asset"`
	RewardAsset       string `bson:"reward_asset"`
	TotalStaked       string `bson:"total_staked"`
	RewardPerSecond   string `bson:"reward_per_second"`
	StartTime         uint64 `bson:"start_time"`
	EndTime           uint64 `bson:"end_time"`
	AccRewardPerShare string `bson:"acc_reward_per_share"`
	LastRewardTime    uint64 `bson:"last_reward_time"`
	IsPaused          bool   `bson:"is_paused"`
}

func NewPoolDocument(index uint64, pool farming.Pool) *PoolDocument {
	return &PoolDocument{
		Index:             index,
		StakingAsset:      pool.StakingAsset,
		RewardAsset:       pool.RewardAsset,
		TotalStaked:       formatUint(pool.TotalStaked),
		RewardPerSecond:   formatUint(pool.RewardPerSecond),
		StartTime:         pool.StartTime,
		EndTime:           pool.EndTime,
		AccRewardPerShare: formatUint(pool.AccRewardPerShare),
		LastRewardTime:    pool.LastRewardTime,
		IsPaused:          pool.IsPaused,
	}
}

func (d *PoolDocument) ToPool() (farming.Pool, error) {
	pool := farming.Pool{
		StakingAsset:   d.StakingAsset,
		RewardAsset:    d.RewardAsset,
		StartTime:      d.StartTime,
		EndTime:        d.EndTime,
		LastRewardTime: d.LastRewardTime,
		IsPaused:       d.IsPaused,
	}

	var err error
	if pool.TotalStaked, err = parseUint("total_staked", d.TotalStaked); err != nil {
		return farming.Pool{}, fmt.Errorf("pool %d: %w", d.Index, err)
	}
	if pool.RewardPerSecond, err = parseUint("reward_per_second", d.RewardPerSecond); err != nil {
		return farming.Pool{}, fmt.Errorf("pool %d: %w", d.Index, err)
	}
	if pool.AccRewardPerShare, err = parseUint("acc_reward_per_share", d.AccRewardPerShare); err != nil {
		return farming.Pool{}, fmt.Errorf("pool %d: %w", d.Index, err)
	}
	return pool, nil
}

func formatUint(u sdkmath.Uint) string {
	if u.IsNil() {
		return "0"
	}
	return u.String()
}

func parseUint(field, s string) (sdkmath.Uint, error) {
	u, err := sdkmath.ParseUint(s)
	if err != nil {
		return sdkmath.Uint{}, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return u, nil
}
