package farming_test

import (
	"context"
	"errors"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/farmlabs/farming-engine/internal/bank"
	"github.com/farmlabs/farming-engine/internal/farming"
)

const (
	stakingAsset = "STK"
	rewardAsset  = "RWD"
	custody      = "farming"
	feeRecipient = "fee-recipient"
	accountA     = "accountA"
	accountB     = "accountB"
	accountC     = "accountC"

	oneDay       = uint64(86_400)
	genesisTime  = uint64(1_650_002_158)
	defaultFee   = uint64(15)
	defaultFeeDp = uint8(1)
)

// 0.04629629629 reward tokens per second, 18 decimals
var defaultRewardPerSecond = sdkmath.NewUintFromString("46296296290000000")

func ether(n uint64) sdkmath.Uint {
	return sdkmath.NewUint(n).Mul(sdkmath.NewUintFromString("1000000000000000000"))
}

type fixture struct {
	engine *farming.Engine
	bank   *bank.Ledger
	start  uint64
}

// newFixture mirrors a fresh deployment: accountA is the admin and the only
// whitelister, pool 0 pays RWD for STK over one day from genesisTime.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := t.Context()

	ledger := bank.NewLedger()
	require.NoError(t, ledger.Mint(stakingAsset, accountA, ether(1_000_000)))
	require.NoError(t, ledger.Mint(stakingAsset, accountB, ether(1_000_000)))
	require.NoError(t, ledger.Mint(rewardAsset, custody, ether(1_000_000)))

	engine, err := farming.NewEngine(farming.Config{
		Custody: custody,
		Admins:  []string{accountA},
		Fee: farming.FeeConfig{
			Recipient: feeRecipient,
			Rate:      defaultFee,
			Decimal:   defaultFeeDp,
		},
	}, ledger)
	require.NoError(t, err)

	_, err = engine.SetWhitelisters(ctx, accountA, []string{accountA}, false, genesisTime)
	require.NoError(t, err)

	index, _, err := engine.AddPool(ctx, accountA, farming.AddPoolParams{
		StakingAsset:    stakingAsset,
		RewardAsset:     rewardAsset,
		RewardPerSecond: defaultRewardPerSecond,
		StartTime:       genesisTime,
		EndTime:         genesisTime + oneDay,
	}, genesisTime)
	require.NoError(t, err)
	require.Equal(t, uint64(0), index)

	return &fixture{engine: engine, bank: ledger, start: genesisTime}
}

// failingBank rejects every transfer.
type failingBank struct{}

var errBankDown = errors.New("bank unavailable")

func (failingBank) Transfer(context.Context, ...farming.Transfer) error {
	return errBankDown
}
