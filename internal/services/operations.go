package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/farmlabs/farming-engine/internal/bank"
	"github.com/farmlabs/farming-engine/internal/db/model"
	"github.com/farmlabs/farming-engine/internal/farming"
	"github.com/farmlabs/farming-engine/internal/observability/metrics"
	"github.com/farmlabs/farming-engine/internal/types"
	"github.com/farmlabs/farming-engine/pkg"
)

type operationFunc func(now uint64) (farming.Receipt, error)

// execute runs one engine operation under the write lock. The engine
// journals the operation through the commit hook before applying it. Its
// events are published only after that, and before the lock is released,
// so they leave the service in sequence order.
func (s *Service) execute(ctx context.Context, operation string, fn operationFunc) (farming.Receipt, *types.Error) {
	startTime := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.committed = nil
	receipt, err := fn(s.now())
	metrics.RecordOperationDuration(time.Since(startTime), operation, err != nil)
	if err != nil {
		if errors.Is(err, farming.ErrCommitFailed) {
			log.Ctx(ctx).Error().Err(err).Str("operation", operation).Msg("Failed to journal operation")
		} else {
			log.Ctx(ctx).Debug().Err(err).Str("operation", operation).Msg("Operation rejected")
		}
		return farming.Receipt{}, translateError(err)
	}

	s.flushAfter(ctx, operation)
	if s.committed != nil {
		s.publish(ctx, s.committed.Events)
	}

	return receipt, nil
}

// flushAfter applies the journal to the collections. A failure is only
// logged: the commit is durable and the write is retried later.
func (s *Service) flushAfter(ctx context.Context, operation string) {
	if err := s.flush(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("operation", operation).Int("pending", len(s.pending)).Msg("Failed to apply journaled commits")
	}
}

func (s *Service) validateAddress(addresses ...string) *types.Error {
	prefix := s.cfg.Farming.AddressPrefix
	if prefix == "" {
		return nil
	}
	for _, addr := range addresses {
		if err := pkg.ValidateAddress(addr, prefix); err != nil {
			return types.NewValidationFailedError(fmt.Errorf("%w: %s: %v", farming.ErrInvalidAddress, addr, err))
		}
	}
	return nil
}

func (s *Service) AddPool(ctx context.Context, caller string, params farming.AddPoolParams) (uint64, *types.Error) {
	if err := s.validateAddress(caller); err != nil {
		return 0, err
	}

	var index uint64
	_, err := s.execute(ctx, "add_pool", func(now uint64) (farming.Receipt, error) {
		var (
			receipt farming.Receipt
			err     error
		)
		index, receipt, err = s.engine.AddPool(ctx, caller, params, now)
		return receipt, err
	})
	if err != nil {
		return 0, err
	}

	log.Ctx(ctx).Info().
		Uint64("pool_index", index).
		Str("staking_asset", params.StakingAsset).
		Str("reward_asset", params.RewardAsset).
		Msg("Pool added")
	return index, nil
}

func (s *Service) UpdateRewardPerSecond(ctx context.Context, caller string, poolIndex uint64, rate sdkmath.Uint) *types.Error {
	if err := s.validateAddress(caller); err != nil {
		return err
	}
	_, err := s.execute(ctx, "update_reward_per_second", func(now uint64) (farming.Receipt, error) {
		return s.engine.UpdateRewardPerSecond(ctx, caller, poolIndex, rate, now)
	})
	return err
}

func (s *Service) SetPoolPaused(ctx context.Context, caller string, poolIndex uint64, paused bool) *types.Error {
	if err := s.validateAddress(caller); err != nil {
		return err
	}
	_, err := s.execute(ctx, "set_pool_paused", func(now uint64) (farming.Receipt, error) {
		return s.engine.SetPoolPaused(ctx, caller, poolIndex, paused, now)
	})
	return err
}

func (s *Service) Deposit(ctx context.Context, caller string, poolIndex uint64, amount sdkmath.Uint) *types.Error {
	if err := s.validateAddress(caller); err != nil {
		return err
	}
	_, err := s.execute(ctx, "deposit", func(now uint64) (farming.Receipt, error) {
		return s.engine.Deposit(ctx, caller, poolIndex, amount, now)
	})
	return err
}

func (s *Service) Withdraw(ctx context.Context, caller string, poolIndex uint64, amount sdkmath.Uint) *types.Error {
	if err := s.validateAddress(caller); err != nil {
		return err
	}
	_, err := s.execute(ctx, "withdraw", func(now uint64) (farming.Receipt, error) {
		return s.engine.Withdraw(ctx, caller, poolIndex, amount, now)
	})
	return err
}

// HarvestResult is the net reward paid and the fee withheld.
type HarvestResult struct {
	Net sdkmath.Uint
	Fee sdkmath.Uint
}

func (s *Service) Harvest(ctx context.Context, caller string, poolIndex uint64) (HarvestResult, *types.Error) {
	if err := s.validateAddress(caller); err != nil {
		return HarvestResult{}, err
	}
	receipt, err := s.execute(ctx, "harvest", func(now uint64) (farming.Receipt, error) {
		return s.engine.Harvest(ctx, caller, poolIndex, now)
	})
	if err != nil {
		return HarvestResult{}, err
	}

	result := HarvestResult{Net: sdkmath.ZeroUint(), Fee: sdkmath.ZeroUint()}
	for _, ev := range receipt.Events {
		if ev.Type != farming.EventHarvest {
			continue
		}
		if !ev.Amount.IsNil() {
			result.Net = ev.Amount
		}
		if !ev.Fee.IsNil() {
			result.Fee = ev.Fee
		}
	}
	return result, nil
}

func (s *Service) SetWhitelisters(ctx context.Context, caller string, addresses []string, revoke bool) *types.Error {
	if err := s.validateAddress(append([]string{caller}, addresses...)...); err != nil {
		return err
	}
	_, err := s.execute(ctx, "set_whitelisters", func(now uint64) (farming.Receipt, error) {
		return s.engine.SetWhitelisters(ctx, caller, addresses, revoke, now)
	})
	return err
}

func (s *Service) SetFeeConfig(ctx context.Context, caller string, fee farming.FeeConfig) *types.Error {
	if err := s.validateAddress(caller); err != nil {
		return err
	}
	if fee.Recipient != "" {
		if err := s.validateAddress(fee.Recipient); err != nil {
			return err
		}
	}
	_, err := s.execute(ctx, "set_fee_config", func(now uint64) (farming.Receipt, error) {
		return s.engine.SetFeeConfig(ctx, caller, fee, now)
	})
	return err
}

// Mint credits an account from outside the system, typically the custody
// account's reward supply. Only admins may mint.
func (s *Service) Mint(ctx context.Context, caller, asset, account string, amount sdkmath.Uint) *types.Error {
	if err := s.validateAddress(caller, account); err != nil {
		return err
	}
	if !s.engine.IsAdmin(caller) {
		return translateError(fmt.Errorf("%w: %s is not an admin", farming.ErrUnauthorized, caller))
	}
	if amount.IsNil() || amount.IsZero() {
		return translateError(fmt.Errorf("%w: mint amount must be positive", farming.ErrInvalidAmount))
	}
	if asset == "" || account == "" {
		return types.NewValidationFailedError(fmt.Errorf("%w: asset and account are required", farming.ErrInvalidAsset))
	}

	startTime := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now()
	doc := s.newCommit(nil, nil)
	doc.Balances = []*model.BalanceDocument{model.NewBalanceDocument(bank.Balance{
		Asset:   asset,
		Account: account,
		Amount:  s.bank.BalanceOf(asset, account).Add(amount),
	})}
	if err := s.saveCommit(ctx, doc); err != nil {
		metrics.RecordOperationDuration(time.Since(startTime), "mint", true)
		log.Ctx(ctx).Error().Err(err).Str("operation", "mint").Msg("Failed to journal operation")
		return translateError(fmt.Errorf("%w: %w", farming.ErrCommitFailed, err))
	}
	if err := s.bank.Mint(asset, account, amount); err != nil {
		metrics.RecordOperationDuration(time.Since(startTime), "mint", true)
		return types.NewInternalServiceError(err)
	}
	metrics.RecordOperationDuration(time.Since(startTime), "mint", false)

	s.flushAfter(ctx, "mint")

	log.Ctx(ctx).Info().
		Str("asset", asset).
		Str("account", account).
		Str("amount", amount.String()).
		Msg("Minted")
	return nil
}
