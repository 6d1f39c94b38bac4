package farming_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmlabs/farming-engine/internal/bank"
	"github.com/farmlabs/farming-engine/internal/farming"
)

func TestFeeSettings(t *testing.T) {
	f := newFixture(t)

	fee := f.engine.FeeConfig()
	assert.Equal(t, defaultFeeDp, fee.Decimal)
	assert.Equal(t, defaultFee, fee.Rate)
	assert.Equal(t, feeRecipient, fee.Recipient)

	t.Run("only admins may change fees", func(t *testing.T) {
		_, err := f.engine.SetFeeConfig(t.Context(), accountB, farming.FeeConfig{Recipient: accountB, Rate: 1}, f.start)
		assert.ErrorIs(t, err, farming.ErrUnauthorized)
	})

	t.Run("fee of 100 percent is rejected", func(t *testing.T) {
		_, err := f.engine.SetFeeConfig(t.Context(), accountA, farming.FeeConfig{Recipient: feeRecipient, Rate: 100}, f.start)
		assert.ErrorIs(t, err, farming.ErrInvalidFee)
		assert.Equal(t, defaultFee, f.engine.FeeConfig().Rate)
	})

	t.Run("ok", func(t *testing.T) {
		receipt, err := f.engine.SetFeeConfig(t.Context(), accountA, farming.FeeConfig{Recipient: accountC, Rate: 2, Decimal: 0}, f.start)
		require.NoError(t, err)
		assert.Equal(t, accountC, f.engine.FeeConfig().Recipient)
		require.Len(t, receipt.Events, 1)
		assert.Equal(t, farming.EventFeeConfigUpdated, receipt.Events[0].Type)
	})
}

func TestPoolRegistry(t *testing.T) {
	ctx := t.Context()

	t.Run("pool info", func(t *testing.T) {
		f := newFixture(t)
		pool, err := f.engine.GetPoolInfo(0)
		require.NoError(t, err)
		assert.Equal(t, stakingAsset, pool.StakingAsset)
		assert.Equal(t, rewardAsset, pool.RewardAsset)
		assert.True(t, pool.TotalStaked.IsZero())
		assert.Equal(t, defaultRewardPerSecond.String(), pool.RewardPerSecond.String())
		assert.False(t, pool.IsPaused)
		assert.Equal(t, f.start, pool.LastRewardTime)
		assert.Equal(t, farming.Precision.String(), pool.Precision.String())
	})

	t.Run("unknown pool", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.GetPoolInfo(7)
		assert.ErrorIs(t, err, farming.ErrPoolNotFound)
		_, err = f.engine.GetUserInfo(7, accountA, f.start)
		assert.ErrorIs(t, err, farming.ErrPoolNotFound)
	})

	t.Run("addPool requires whitelist", func(t *testing.T) {
		f := newFixture(t)
		_, _, err := f.engine.AddPool(ctx, accountB, farming.AddPoolParams{
			StakingAsset:    stakingAsset,
			RewardAsset:     rewardAsset,
			RewardPerSecond: defaultRewardPerSecond,
			StartTime:       f.start,
			EndTime:         f.start + oneDay,
		}, f.start)
		assert.ErrorIs(t, err, farming.ErrUnauthorized)
		assert.Equal(t, uint64(1), f.engine.PoolLength())
	})

	t.Run("addPool rejects inverted window", func(t *testing.T) {
		f := newFixture(t)
		_, _, err := f.engine.AddPool(ctx, accountA, farming.AddPoolParams{
			StakingAsset: stakingAsset,
			RewardAsset:  rewardAsset,
			StartTime:    f.start + 10,
			EndTime:      f.start,
		}, f.start)
		assert.ErrorIs(t, err, farming.ErrInvalidWindow)
	})

	t.Run("addPool rejects identical assets", func(t *testing.T) {
		f := newFixture(t)
		_, _, err := f.engine.AddPool(ctx, accountA, farming.AddPoolParams{
			StakingAsset: stakingAsset,
			RewardAsset:  stakingAsset,
			StartTime:    f.start,
			EndTime:      f.start + 1,
		}, f.start)
		assert.ErrorIs(t, err, farming.ErrInvalidAsset)
	})

	t.Run("addPool appends sequential index", func(t *testing.T) {
		f := newFixture(t)
		index, receipt, err := f.engine.AddPool(ctx, accountA, farming.AddPoolParams{
			StakingAsset:    rewardAsset,
			RewardAsset:     stakingAsset,
			RewardPerSecond: defaultRewardPerSecond,
			StartTime:       f.start,
			EndTime:         f.start + oneDay,
		}, f.start)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), index)
		require.Len(t, receipt.Events, 1)
		assert.Equal(t, farming.EventPoolAdded, receipt.Events[0].Type)

		pool, err := f.engine.GetPoolInfo(1)
		require.NoError(t, err)
		assert.Equal(t, rewardAsset, pool.StakingAsset)
		assert.Equal(t, stakingAsset, pool.RewardAsset)
		assert.True(t, pool.TotalStaked.IsZero())
		assert.Len(t, f.engine.Pools(), 2)
	})

	t.Run("updateRewardPerSecond requires whitelist", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.UpdateRewardPerSecond(ctx, accountB, 0, defaultRewardPerSecond, f.start)
		assert.ErrorIs(t, err, farming.ErrUnauthorized)
	})

	t.Run("updateRewardPerSecond settles with the old rate", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Deposit(ctx, accountA, 0, ether(1), f.start)
		require.NoError(t, err)

		_, err = f.engine.UpdateRewardPerSecond(ctx, accountA, 0, sdkmath.ZeroUint(), f.start+100)
		require.NoError(t, err)

		before, err := f.engine.GetUserInfo(0, accountA, f.start+100)
		require.NoError(t, err)
		after, err := f.engine.GetUserInfo(0, accountA, f.start+1_000)
		require.NoError(t, err)

		assert.Equal(t, defaultRewardPerSecond.MulUint64(100).String(), before.PendingReward.String())
		assert.Equal(t, before.PendingReward.String(), after.PendingReward.String())

		pool, err := f.engine.GetPoolInfo(0)
		require.NoError(t, err)
		assert.True(t, pool.RewardPerSecond.IsZero())
	})

	t.Run("updateRewardPerSecond treats an unset rate as zero", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Deposit(ctx, accountA, 0, ether(1), f.start)
		require.NoError(t, err)

		receipt, err := f.engine.UpdateRewardPerSecond(ctx, accountA, 0, sdkmath.Uint{}, f.start+10)
		require.NoError(t, err)
		require.Len(t, receipt.Events, 1)
		assert.Equal(t, "0", receipt.Events[0].Amount.String())

		pool, err := f.engine.GetPoolInfo(0)
		require.NoError(t, err)
		require.False(t, pool.RewardPerSecond.IsNil())
		assert.True(t, pool.RewardPerSecond.IsZero())

		_, err = f.engine.Deposit(ctx, accountB, 0, ether(1), f.start+20)
		require.NoError(t, err)
		harvest, err := f.engine.Harvest(ctx, accountA, 0, f.start+30)
		require.NoError(t, err)

		gross := defaultRewardPerSecond.MulUint64(10)
		net, fee := f.engine.FeeConfig().Split(gross)
		assert.Equal(t, net.String(), harvest.Events[0].Amount.String())
		assert.Equal(t, fee.String(), harvest.Events[0].Fee.String())
	})

	t.Run("updateRewardPerSecond unknown pool", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.UpdateRewardPerSecond(ctx, accountA, 3, defaultRewardPerSecond, f.start)
		assert.ErrorIs(t, err, farming.ErrPoolNotFound)
	})
}

func TestWhitelisters(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.SetWhitelisters(t.Context(), accountB, []string{accountB}, false, f.start)
	assert.ErrorIs(t, err, farming.ErrUnauthorized)

	_, err = f.engine.SetWhitelisters(t.Context(), accountA, []string{accountB, accountC}, false, f.start)
	require.NoError(t, err)
	assert.Equal(t, []string{accountA, accountB, accountC}, f.engine.Whitelist())

	_, err = f.engine.SetWhitelisters(t.Context(), accountA, []string{accountA, accountC}, true, f.start)
	require.NoError(t, err)
	assert.Equal(t, []string{accountB}, f.engine.Whitelist())
	assert.True(t, f.engine.IsAdmin(accountA), "revoking the whitelist keeps admin rights")
}

func TestDeposit(t *testing.T) {
	ctx := t.Context()

	t.Run("zero amount", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Deposit(ctx, accountA, 0, sdkmath.ZeroUint(), f.start)
		assert.ErrorIs(t, err, farming.ErrInvalidAmount)
	})

	t.Run("unknown pool", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Deposit(ctx, accountA, 1, ether(1), f.start)
		assert.ErrorIs(t, err, farming.ErrPoolNotFound)
	})

	t.Run("before start is accepted but earns nothing", func(t *testing.T) {
		f := newFixture(t)
		_, _, err := f.engine.AddPool(ctx, accountA, farming.AddPoolParams{
			StakingAsset:    stakingAsset,
			RewardAsset:     rewardAsset,
			RewardPerSecond: defaultRewardPerSecond,
			StartTime:       f.start + 1_000,
			EndTime:         f.start + 2_000,
		}, f.start)
		require.NoError(t, err)

		_, err = f.engine.Deposit(ctx, accountA, 1, ether(10), f.start)
		require.NoError(t, err)

		info, err := f.engine.GetUserInfo(1, accountA, f.start+1_000)
		require.NoError(t, err)
		assert.True(t, info.PendingReward.IsZero())

		info, err = f.engine.GetUserInfo(1, accountA, f.start+1_010)
		require.NoError(t, err)
		assert.Equal(t, defaultRewardPerSecond.MulUint64(10).String(), info.PendingReward.String())
	})

	t.Run("after end is rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Deposit(ctx, accountA, 0, ether(1), f.start+oneDay)
		assert.ErrorIs(t, err, farming.ErrPoolInactive)
	})

	t.Run("paused is rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.SetPoolPaused(ctx, accountA, 0, true, f.start)
		require.NoError(t, err)
		_, err = f.engine.Deposit(ctx, accountA, 0, ether(1), f.start+1)
		assert.ErrorIs(t, err, farming.ErrPoolInactive)
	})

	t.Run("transfer failure leaves no trace", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Deposit(ctx, accountC, 0, ether(1), f.start+5)
		assert.ErrorIs(t, err, farming.ErrTransferFailed)
		assert.ErrorIs(t, err, bank.ErrInsufficientBalance)

		pool, err := f.engine.GetPoolInfo(0)
		require.NoError(t, err)
		assert.True(t, pool.TotalStaked.IsZero())
		assert.Equal(t, f.start, pool.LastRewardTime)

		pos, err := f.engine.Position(0, accountC)
		require.NoError(t, err)
		assert.True(t, pos.IsZero())
	})
}

func TestWithdraw(t *testing.T) {
	ctx := t.Context()

	t.Run("exceeds stake", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Deposit(ctx, accountA, 0, ether(5), f.start)
		require.NoError(t, err)

		_, err = f.engine.Withdraw(ctx, accountA, 0, ether(6), f.start+10)
		assert.ErrorIs(t, err, farming.ErrInsufficientStake)
	})

	t.Run("zero amount", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Withdraw(ctx, accountA, 0, sdkmath.ZeroUint(), f.start)
		assert.ErrorIs(t, err, farming.ErrInvalidAmount)
	})

	t.Run("keeps earned reward claimable", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Deposit(ctx, accountA, 0, ether(5), f.start)
		require.NoError(t, err)
		_, err = f.engine.Withdraw(ctx, accountA, 0, ether(5), f.start+10)
		require.NoError(t, err)

		info, err := f.engine.GetUserInfo(0, accountA, f.start+500)
		require.NoError(t, err)
		assert.True(t, info.Amount.IsZero())
		assert.Equal(t, defaultRewardPerSecond.MulUint64(10).String(), info.PendingReward.String())
	})

	t.Run("allowed after the window closed", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Deposit(ctx, accountA, 0, ether(5), f.start)
		require.NoError(t, err)
		_, err = f.engine.Withdraw(ctx, accountA, 0, ether(5), f.start+2*oneDay)
		require.NoError(t, err)
	})

	t.Run("transfer failure leaves no trace", func(t *testing.T) {
		engine, err := farming.NewEngine(farming.Config{Custody: custody, Admins: []string{accountA}, Whitelist: []string{accountA}}, failingBank{})
		require.NoError(t, err)
		_, _, err = engine.AddPool(ctx, accountA, farming.AddPoolParams{
			StakingAsset: stakingAsset, RewardAsset: rewardAsset, StartTime: 0, EndTime: 10,
		}, 0)
		require.NoError(t, err)

		_, err = engine.Withdraw(ctx, accountA, 0, ether(1), 1)
		assert.ErrorIs(t, err, farming.ErrInsufficientStake)
		_, err = engine.Deposit(ctx, accountA, 0, ether(1), 1)
		assert.ErrorIs(t, err, farming.ErrTransferFailed)
	})
}

func TestHarvest(t *testing.T) {
	ctx := t.Context()

	t.Run("second harvest pays nothing", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Deposit(ctx, accountA, 0, ether(100), f.start)
		require.NoError(t, err)

		first, err := f.engine.Harvest(ctx, accountA, 0, f.start+60)
		require.NoError(t, err)
		assert.False(t, first.Events[0].Amount.IsZero())

		balance := f.bank.BalanceOf(rewardAsset, accountA)
		second, err := f.engine.Harvest(ctx, accountA, 0, f.start+60)
		require.NoError(t, err)
		assert.True(t, second.Events[0].Amount.IsZero())
		assert.Empty(t, second.Transfers)
		assert.Equal(t, balance.String(), f.bank.BalanceOf(rewardAsset, accountA).String())
	})

	t.Run("never deposited", func(t *testing.T) {
		f := newFixture(t)
		receipt, err := f.engine.Harvest(ctx, accountC, 0, f.start+60)
		require.NoError(t, err)
		assert.True(t, receipt.Events[0].Amount.IsZero())
	})

	t.Run("fee and net add up to gross", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Deposit(ctx, accountA, 0, ether(7), f.start)
		require.NoError(t, err)

		info, err := f.engine.GetUserInfo(0, accountA, f.start+333)
		require.NoError(t, err)
		receipt, err := f.engine.Harvest(ctx, accountA, 0, f.start+333)
		require.NoError(t, err)

		ev := receipt.Events[0]
		assert.Equal(t, info.PendingReward.String(), ev.Amount.Add(ev.Fee).String())
		assert.Equal(t, info.PendingReward.MulUint64(15).QuoUint64(1_000).String(), ev.Fee.String())
	})

	t.Run("unfunded reward supply rolls back", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Deposit(ctx, accountA, 0, ether(1), f.start)
		require.NoError(t, err)

		// drain the reward supply
		require.NoError(t, f.bank.Transfer(ctx, farming.Transfer{
			Asset: rewardAsset, From: custody, To: accountC, Amount: ether(1_000_000),
		}))

		_, err = f.engine.Harvest(ctx, accountA, 0, f.start+10)
		assert.ErrorIs(t, err, farming.ErrTransferFailed)

		pos, err := f.engine.Position(0, accountA)
		require.NoError(t, err)
		assert.True(t, pos.PendingReward.IsZero())
		pool, err := f.engine.GetPoolInfo(0)
		require.NoError(t, err)
		assert.Equal(t, f.start, pool.LastRewardTime)
	})
}

func TestPause(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)

	_, err := f.engine.Deposit(ctx, accountA, 0, ether(10), f.start)
	require.NoError(t, err)

	_, err = f.engine.SetPoolPaused(ctx, accountB, 0, true, f.start+100)
	assert.ErrorIs(t, err, farming.ErrUnauthorized)

	_, err = f.engine.SetPoolPaused(ctx, accountA, 0, true, f.start+100)
	require.NoError(t, err)

	earned := defaultRewardPerSecond.MulUint64(100)
	info, err := f.engine.GetUserInfo(0, accountA, f.start+5_000)
	require.NoError(t, err)
	assert.Equal(t, earned.String(), info.PendingReward.String())

	_, err = f.engine.SetPoolPaused(ctx, accountA, 0, false, f.start+5_000)
	require.NoError(t, err)

	info, err = f.engine.GetUserInfo(0, accountA, f.start+5_010)
	require.NoError(t, err)
	assert.Equal(t, earned.Add(defaultRewardPerSecond.MulUint64(10)).String(), info.PendingReward.String())

	// pausing again after some accrual keeps what was earned claimable
	_, err = f.engine.SetPoolPaused(ctx, accountA, 0, true, f.start+5_010)
	require.NoError(t, err)
	receipt, err := f.engine.Harvest(ctx, accountA, 0, f.start+9_000)
	require.NoError(t, err)
	assert.Equal(t, info.PendingReward.String(), receipt.Events[0].Amount.Add(receipt.Events[0].Fee).String())
}

func TestRestore(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)

	_, err := f.engine.Deposit(ctx, accountA, 0, ether(3), f.start)
	require.NoError(t, err)
	_, err = f.engine.Deposit(ctx, accountB, 0, ether(4), f.start+10)
	require.NoError(t, err)

	state := f.engine.Snapshot()

	restored, err := farming.NewEngine(farming.Config{Custody: custody, Admins: []string{accountA}}, f.bank)
	require.NoError(t, err)
	require.NoError(t, restored.Restore(state))

	want, err := f.engine.GetUserInfo(0, accountB, f.start+50)
	require.NoError(t, err)
	got, err := restored.GetUserInfo(0, accountB, f.start+50)
	require.NoError(t, err)
	assert.Equal(t, want.PendingReward.String(), got.PendingReward.String())
	assert.Equal(t, []string{accountA}, restored.Whitelist())

	t.Run("inconsistent totals are rejected", func(t *testing.T) {
		broken := f.engine.Snapshot()
		broken.Pools[0].TotalStaked = ether(1)
		assert.ErrorIs(t, restored.Restore(broken), farming.ErrInvalidState)
	})
}
