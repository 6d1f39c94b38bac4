package farming_test

import (
	"context"
	"errors"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmlabs/farming-engine/internal/farming"
)

var errStoreDown = errors.New("store unavailable")

func TestCommitHook(t *testing.T) {
	ctx := t.Context()

	t.Run("receives the new state of everything touched", func(t *testing.T) {
		f := newFixture(t)
		var commits []farming.Commit
		f.engine.SetCommitHook(func(_ context.Context, c farming.Commit) error {
			commits = append(commits, c)
			return nil
		})

		_, err := f.engine.Deposit(ctx, accountA, 0, ether(10), f.start+5)
		require.NoError(t, err)
		require.Len(t, commits, 1)

		c := commits[0]
		require.Len(t, c.Events, 1)
		assert.Equal(t, farming.EventDeposit, c.Events[0].Type)
		require.Len(t, c.Transfers, 1)
		assert.Equal(t, ether(10).String(), c.Pools[0].TotalStaked.String())
		assert.Equal(t, f.start+5, c.Pools[0].LastRewardTime)
		pos := c.Positions[farming.PositionKey{PoolIndex: 0, User: accountA}]
		assert.Equal(t, ether(10).String(), pos.Amount.String())
		assert.Nil(t, c.Whitelist)
		assert.Nil(t, c.Fee)
	})

	t.Run("settings changes carry the new value", func(t *testing.T) {
		f := newFixture(t)
		var commits []farming.Commit
		f.engine.SetCommitHook(func(_ context.Context, c farming.Commit) error {
			commits = append(commits, c)
			return nil
		})

		_, err := f.engine.SetWhitelisters(ctx, accountA, []string{accountA}, true, f.start)
		require.NoError(t, err)
		fee := farming.FeeConfig{Recipient: accountC, Rate: 3}
		_, err = f.engine.SetFeeConfig(ctx, accountA, fee, f.start)
		require.NoError(t, err)

		require.Len(t, commits, 2)
		assert.NotNil(t, commits[0].Whitelist)
		assert.Empty(t, commits[0].Whitelist)
		require.NotNil(t, commits[1].Fee)
		assert.Equal(t, fee, *commits[1].Fee)
	})

	t.Run("failed deposit is rolled back", func(t *testing.T) {
		f := newFixture(t)
		f.engine.SetCommitHook(func(context.Context, farming.Commit) error {
			return errStoreDown
		})
		balance := f.bank.BalanceOf(stakingAsset, accountA)

		_, err := f.engine.Deposit(ctx, accountA, 0, ether(10), f.start+5)
		assert.ErrorIs(t, err, farming.ErrCommitFailed)
		assert.ErrorIs(t, err, errStoreDown)

		assert.Equal(t, balance.String(), f.bank.BalanceOf(stakingAsset, accountA).String())
		assert.True(t, f.bank.BalanceOf(stakingAsset, custody).IsZero())
		pool, err := f.engine.GetPoolInfo(0)
		require.NoError(t, err)
		assert.True(t, pool.TotalStaked.IsZero())
		assert.Equal(t, f.start, pool.LastRewardTime)
		pos, err := f.engine.Position(0, accountA)
		require.NoError(t, err)
		assert.True(t, pos.IsZero())
	})

	t.Run("failed harvest returns reward and fee to custody", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Deposit(ctx, accountA, 0, ether(10), f.start)
		require.NoError(t, err)

		f.engine.SetCommitHook(func(context.Context, farming.Commit) error {
			return errStoreDown
		})
		supply := f.bank.BalanceOf(rewardAsset, custody)

		_, err = f.engine.Harvest(ctx, accountA, 0, f.start+100)
		assert.ErrorIs(t, err, farming.ErrCommitFailed)

		assert.Equal(t, supply.String(), f.bank.BalanceOf(rewardAsset, custody).String())
		assert.True(t, f.bank.BalanceOf(rewardAsset, accountA).IsZero())
		assert.True(t, f.bank.BalanceOf(rewardAsset, feeRecipient).IsZero())

		f.engine.SetCommitHook(nil)
		info, err := f.engine.GetUserInfo(0, accountA, f.start+100)
		require.NoError(t, err)
		assert.Equal(t, defaultRewardPerSecond.MulUint64(100).String(), info.PendingReward.String())
	})

	t.Run("failed admin operations change nothing", func(t *testing.T) {
		f := newFixture(t)
		f.engine.SetCommitHook(func(context.Context, farming.Commit) error {
			return errStoreDown
		})

		_, _, err := f.engine.AddPool(ctx, accountA, farming.AddPoolParams{
			StakingAsset: rewardAsset, RewardAsset: stakingAsset, StartTime: f.start, EndTime: f.start + oneDay,
		}, f.start)
		assert.ErrorIs(t, err, farming.ErrCommitFailed)
		assert.Equal(t, uint64(1), f.engine.PoolLength())

		_, err = f.engine.UpdateRewardPerSecond(ctx, accountA, 0, sdkmath.ZeroUint(), f.start+10)
		assert.ErrorIs(t, err, farming.ErrCommitFailed)
		_, err = f.engine.SetPoolPaused(ctx, accountA, 0, true, f.start+10)
		assert.ErrorIs(t, err, farming.ErrCommitFailed)
		pool, err := f.engine.GetPoolInfo(0)
		require.NoError(t, err)
		assert.Equal(t, defaultRewardPerSecond.String(), pool.RewardPerSecond.String())
		assert.False(t, pool.IsPaused)

		_, err = f.engine.SetWhitelisters(ctx, accountA, []string{accountB}, false, f.start)
		assert.ErrorIs(t, err, farming.ErrCommitFailed)
		assert.Equal(t, []string{accountA}, f.engine.Whitelist())

		_, err = f.engine.SetFeeConfig(ctx, accountA, farming.FeeConfig{Recipient: accountC, Rate: 1}, f.start)
		assert.ErrorIs(t, err, farming.ErrCommitFailed)
		assert.Equal(t, feeRecipient, f.engine.FeeConfig().Recipient)
	})
}
