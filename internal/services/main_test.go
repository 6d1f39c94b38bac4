//go:build integration

package services

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmlabs/farming-engine/internal/db"
	"github.com/farmlabs/farming-engine/internal/db/model"
	"github.com/farmlabs/farming-engine/internal/farming"
	"github.com/farmlabs/farming-engine/pkg"
	"github.com/farmlabs/farming-engine/testutil"
)

var (
	mongoContainer *testutil.MongoContainer
	testDB         *db.Database
)

func TestMain(m *testing.M) {
	var err error
	mongoContainer, err = testutil.StartMongo("mongo-farming-service-tests")
	if err != nil {
		log.Fatalf("failed to start mongo: %v", err)
	}
	testDB = mongoContainer.DB

	code := m.Run()
	if err := mongoContainer.Purge(); err != nil {
		log.Printf("failed to purge mongo container: %v", err)
	}

	os.Exit(code)
}

func resetDatabase(t *testing.T) {
	mongoContainer.Reset(t)
}

// TestRestartRestoresState runs operations against mongo, then boots a
// second service from the same database and checks it resumes exactly.
func TestRestartRestoresState(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	clock := &fakeClock{now: 100}
	first, err := NewService(testConfig(), testDB, nil, clock)
	require.NoError(t, err)
	require.Nil(t, first.Bootstrap(ctx))
	fundedPool(t, first)

	require.Nil(t, first.Deposit(ctx, alice, 0, sdkmath.NewUint(1_000)))
	require.Nil(t, first.SetWhitelisters(ctx, admin, []string{"bob"}, false))
	require.Nil(t, first.SetFeeConfig(ctx, admin, farming.FeeConfig{Recipient: treasury, Rate: 2}))

	clock.now = 150
	before, err := first.GetUserInfo(0, alice)
	require.Nil(t, err)
	require.Equal(t, sdkmath.NewUint(500), before.PendingReward)

	// a restart where the wall clock went backwards
	second, err := NewService(testConfig(), testDB, nil, &fakeClock{now: 90})
	require.NoError(t, err)
	require.Nil(t, second.Bootstrap(ctx))

	require.Len(t, second.Pools(), 1)
	for i, pool := range second.Pools() {
		want := first.Pools()[i]
		assert.True(t, want.TotalStaked.Equal(pool.TotalStaked))
		assert.True(t, want.AccRewardPerShare.Equal(pool.AccRewardPerShare))
		assert.Equal(t, want.LastRewardTime, pool.LastRewardTime)
		assert.Equal(t, want.StakingAsset, pool.StakingAsset)
	}
	assert.Equal(t, []string{"bob", manager}, second.Whitelist())
	assert.Equal(t, uint64(2), second.FeeConfig().Rate)
	assert.Equal(t, sdkmath.NewUint(4_000), second.Balance(stakingAsset, alice))
	assert.Equal(t, sdkmath.NewUint(1_000), second.Balance(stakingAsset, custody))

	// persisted clock is 100, so nothing accrued yet
	info, err := second.GetUserInfo(0, alice)
	require.Nil(t, err)
	assert.True(t, info.PendingReward.IsZero())

	events, sequences, err := second.GetEvents(ctx, db.EventFilter{})
	require.Nil(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, farming.EventPoolAdded, events[0].Type)
	assert.Equal(t, farming.EventDeposit, events[1].Type)
	assert.Equal(t, farming.EventWhitelistUpdated, events[2].Type)
	assert.Equal(t, farming.EventFeeConfigUpdated, events[3].Type)
	assert.Equal(t, []uint64{1, 2, 3, 4}, sequences)

	deposits, _, err := second.GetEvents(ctx, db.EventFilter{PoolIndex: pkg.Ptr[uint64](0), User: alice})
	require.Nil(t, err)
	require.Len(t, deposits, 1)
	assert.Equal(t, farming.EventDeposit, deposits[0].Type)

	// sequence numbering continues after the restart
	require.Nil(t, second.Deposit(ctx, alice, 0, sdkmath.NewUint(1)))
	last, dbErr := testDB.GetLastEventSequence(ctx)
	require.NoError(t, dbErr)
	assert.Equal(t, uint64(5), last)
}

// positionsDown is a database whose non-empty position writes fail.
type positionsDown struct {
	*db.Database
}

func (d positionsDown) UpsertPositions(ctx context.Context, positions []*model.PositionDocument) error {
	if len(positions) == 0 {
		return d.Database.UpsertPositions(ctx, positions)
	}
	return errors.New("positions collection unavailable")
}

func TestRestartReplaysPendingCommits(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	clock := &fakeClock{now: 100}
	first, err := NewService(testConfig(), positionsDown{testDB}, nil, clock)
	require.NoError(t, err)
	require.Nil(t, first.Bootstrap(ctx))
	fundedPool(t, first)

	require.Nil(t, first.Deposit(ctx, alice, 0, sdkmath.NewUint(1_000)))

	pools, dbErr := testDB.GetAllPools(ctx)
	require.NoError(t, dbErr)
	require.Len(t, pools, 1)
	assert.Equal(t, "1000", pools[0].TotalStaked)
	positions, dbErr := testDB.GetAllPositions(ctx)
	require.NoError(t, dbErr)
	assert.Empty(t, positions)
	pending, dbErr := testDB.GetPendingCommits(ctx)
	require.NoError(t, dbErr)
	require.Len(t, pending, 1)

	second, err := NewService(testConfig(), testDB, nil, clock)
	require.NoError(t, err)
	require.Nil(t, second.Bootstrap(ctx))

	info, err := second.GetUserInfo(0, alice)
	require.Nil(t, err)
	assert.Equal(t, sdkmath.NewUint(1_000), info.Amount)
	assert.Equal(t, sdkmath.NewUint(4_000), second.Balance(stakingAsset, alice))

	pending, dbErr = testDB.GetPendingCommits(ctx)
	require.NoError(t, dbErr)
	assert.Empty(t, pending)
	last, dbErr := testDB.GetLastEventSequence(ctx)
	require.NoError(t, dbErr)
	assert.Equal(t, uint64(2), last)
}
