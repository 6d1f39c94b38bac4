package farming

import (
	sdkmath "cosmossdk.io/math"
)

// Settle brings the accumulator up to now. It is the only place that moves
// LastRewardTime and it never moves it backwards or past EndTime.
func (p *Pool) Settle(now uint64) {
	effectiveEnd := min(now, p.EndTime)
	if effectiveEnd <= p.LastRewardTime {
		return
	}

	if !p.IsPaused && !p.TotalStaked.IsZero() {
		elapsed := effectiveEnd - p.LastRewardTime
		p.AccRewardPerShare = p.AccRewardPerShare.Add(
			p.rewardPerShareFor(elapsed),
		)
	}
	p.LastRewardTime = effectiveEnd
}

// rewardPerShareFor floors the per-second share before scaling by elapsed,
// so every second credits the same accumulator increment regardless of how
// settlements are spaced.
func (p *Pool) rewardPerShareFor(elapsed uint64) sdkmath.Uint {
	perSecond := p.RewardPerSecond.Mul(Precision).Quo(p.TotalStaked)
	return perSecond.MulUint64(elapsed)
}

// shareOf converts a stake into accumulated reward at the given accumulator.
func shareOf(amount, accRewardPerShare sdkmath.Uint) sdkmath.Uint {
	return amount.Mul(accRewardPerShare).Quo(Precision)
}
