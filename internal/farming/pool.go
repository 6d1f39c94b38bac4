package farming

import (
	sdkmath "cosmossdk.io/math"
)

// Precision scales AccRewardPerShare so that the per-second share of small
// reward rates over large stakes does not truncate to zero.
var Precision = sdkmath.NewUintFromString("1000000000000000000000") // 1e21

// Pool is one staking/reward asset pairing with its own emission schedule.
type Pool struct {
	StakingAsset      string
	RewardAsset       string
	TotalStaked       sdkmath.Uint
	RewardPerSecond   sdkmath.Uint
	StartTime         uint64
	EndTime           uint64
	AccRewardPerShare sdkmath.Uint
	LastRewardTime    uint64
	IsPaused          bool
}

// PoolInfo is the read-only snapshot returned to callers.
type PoolInfo struct {
	Index uint64
	Pool
	Precision sdkmath.Uint
}

func newPool(stakingAsset, rewardAsset string, rewardPerSecond sdkmath.Uint, startTime, endTime uint64) Pool {
	return Pool{
		StakingAsset:      stakingAsset,
		RewardAsset:       rewardAsset,
		TotalStaked:       sdkmath.ZeroUint(),
		RewardPerSecond:   rewardPerSecond,
		StartTime:         startTime,
		EndTime:           endTime,
		AccRewardPerShare: sdkmath.ZeroUint(),
		LastRewardTime:    startTime,
	}
}

// AcceptsDeposits reports whether new stake may enter the pool at now.
// Deposits made before StartTime are accepted and start earning once the
// window opens.
func (p *Pool) AcceptsDeposits(now uint64) bool {
	return !p.IsPaused && now < p.EndTime
}

// registry holds pools in creation order; the slice index is the pool index.
type registry struct {
	pools []Pool
}

func (r *registry) add(p Pool) uint64 {
	r.pools = append(r.pools, p)
	return uint64(len(r.pools) - 1)
}

// get returns a copy of the pool, safe to mutate as scratch state.
func (r *registry) get(index uint64) (Pool, error) {
	if index >= uint64(len(r.pools)) {
		return Pool{}, poolNotFound(index)
	}
	return r.pools[index], nil
}

func (r *registry) put(index uint64, p Pool) {
	r.pools[index] = p
}

func (r *registry) len() uint64 {
	return uint64(len(r.pools))
}
