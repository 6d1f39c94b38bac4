package farming

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	sdkmath "cosmossdk.io/math"
)

// Bank moves assets between accounts. A call either applies every transfer
// or none of them.
type Bank interface {
	Transfer(ctx context.Context, transfers ...Transfer) error
}

type Config struct {
	// Custody is the account that holds staked assets and the reward supply.
	Custody   string
	Admins    []string
	Whitelist []string
	Fee       FeeConfig
}

// AddPoolParams describes a new pool.
type AddPoolParams struct {
	StakingAsset    string
	RewardAsset     string
	RewardPerSecond sdkmath.Uint
	StartTime       uint64
	EndTime         uint64
}

// Commit is the complete effect of one operation: the receipt plus the new
// value of everything it changed. Whitelist and Fee are nil when unchanged.
type Commit struct {
	Receipt
	Pools     map[uint64]Pool
	Positions map[PositionKey]Position
	Whitelist []string
	Fee       *FeeConfig
}

// CommitHook is called after an operation's transfers ran and before the
// engine applies its state. A hook error aborts the operation: the transfers
// are reversed and the engine state is left untouched.
type CommitHook func(ctx context.Context, c Commit) error

// Engine dispatches farming operations. It is not safe for concurrent use:
// the host must serialize calls. Every mutating call works on scratch copies
// and commits only after the transfer batch and the commit hook succeeded,
// so a failed call leaves no trace.
type Engine struct {
	custody   string
	bank      Bank
	admins    map[string]struct{}
	whitelist map[string]struct{}
	fee       FeeConfig
	pools     registry
	ledger    *ledger
	hook      CommitHook
}

func NewEngine(cfg Config, bank Bank) (*Engine, error) {
	if cfg.Custody == "" {
		return nil, fmt.Errorf("%w: custody account is required", ErrInvalidAddress)
	}
	if bank == nil {
		return nil, fmt.Errorf("bank is required")
	}
	if err := cfg.Fee.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		custody:   cfg.Custody,
		bank:      bank,
		admins:    toSet(cfg.Admins),
		whitelist: toSet(cfg.Whitelist),
		fee:       cfg.Fee,
		ledger:    newLedger(),
	}
	return e, nil
}

// SetCommitHook installs the hook every mutating operation passes through.
func (e *Engine) SetCommitHook(hook CommitHook) {
	e.hook = hook
}

func (e *Engine) Custody() string {
	return e.custody
}

func (e *Engine) IsAdmin(addr string) bool {
	_, ok := e.admins[addr]
	return ok
}

func (e *Engine) IsWhitelisted(addr string) bool {
	_, ok := e.whitelist[addr]
	return ok
}

// Whitelist returns the whitelisted addresses in sorted order.
func (e *Engine) Whitelist() []string {
	return sortedKeys(e.whitelist)
}

func (e *Engine) FeeConfig() FeeConfig {
	return e.fee
}

func (e *Engine) PoolLength() uint64 {
	return e.pools.len()
}

func (e *Engine) GetPoolInfo(poolIndex uint64) (PoolInfo, error) {
	pool, err := e.pools.get(poolIndex)
	if err != nil {
		return PoolInfo{}, err
	}
	return PoolInfo{Index: poolIndex, Pool: pool, Precision: Precision}, nil
}

func (e *Engine) Pools() []PoolInfo {
	infos := make([]PoolInfo, 0, e.pools.len())
	for i, pool := range e.pools.pools {
		infos = append(infos, PoolInfo{Index: uint64(i), Pool: pool, Precision: Precision})
	}
	return infos
}

// Position returns the stored position without any settlement.
func (e *Engine) Position(poolIndex uint64, user string) (Position, error) {
	if _, err := e.pools.get(poolIndex); err != nil {
		return Position{}, err
	}
	return e.ledger.get(PositionKey{PoolIndex: poolIndex, User: user}), nil
}

// GetUserInfo projects the position to now without touching stored state.
func (e *Engine) GetUserInfo(poolIndex uint64, user string, now uint64) (info UserInfo, err error) {
	defer recoverArithmetic(&err)

	pool, err := e.pools.get(poolIndex)
	if err != nil {
		return UserInfo{}, err
	}
	pos := e.ledger.get(PositionKey{PoolIndex: poolIndex, User: user})

	snapshot := pos.claimable(pool.AccRewardPerShare)
	pool.Settle(now)

	return UserInfo{
		Amount:         pos.Amount,
		PendingReward:  pos.claimable(pool.AccRewardPerShare),
		RewardDebt:     pos.RewardDebt,
		SnapshotReward: snapshot,
	}, nil
}

func (e *Engine) AddPool(ctx context.Context, caller string, params AddPoolParams, now uint64) (index uint64, receipt Receipt, err error) {
	if !e.IsWhitelisted(caller) {
		return 0, Receipt{}, ErrUnauthorized
	}
	if params.StartTime > params.EndTime {
		return 0, Receipt{}, fmt.Errorf("%w: start %d, end %d", ErrInvalidWindow, params.StartTime, params.EndTime)
	}
	if params.StakingAsset == "" || params.RewardAsset == "" {
		return 0, Receipt{}, fmt.Errorf("%w: staking and reward asset are required", ErrInvalidAsset)
	}
	if params.StakingAsset == params.RewardAsset {
		return 0, Receipt{}, fmt.Errorf("%w: staking and reward asset must differ", ErrInvalidAsset)
	}
	rate := params.RewardPerSecond
	if rate.IsNil() {
		rate = sdkmath.ZeroUint()
	}

	pool := newPool(params.StakingAsset, params.RewardAsset, rate, params.StartTime, params.EndTime)
	index = e.pools.len()

	receipt = Receipt{Events: []Event{{
		Type:      EventPoolAdded,
		Time:      now,
		PoolIndex: index,
		User:      caller,
		Amount:    rate,
		Attrs: map[string]string{
			"staking_asset": params.StakingAsset,
			"reward_asset":  params.RewardAsset,
			"start_time":    strconv.FormatUint(params.StartTime, 10),
			"end_time":      strconv.FormatUint(params.EndTime, 10),
		},
	}}}
	if err := e.commit(ctx, Commit{Receipt: receipt, Pools: map[uint64]Pool{index: pool}}); err != nil {
		return 0, Receipt{}, err
	}

	e.pools.add(pool)
	return index, receipt, nil
}

// UpdateRewardPerSecond settles the pool with the old rate before switching.
func (e *Engine) UpdateRewardPerSecond(ctx context.Context, caller string, poolIndex uint64, newRate sdkmath.Uint, now uint64) (receipt Receipt, err error) {
	defer recoverArithmetic(&err)

	if !e.IsWhitelisted(caller) {
		return Receipt{}, ErrUnauthorized
	}
	pool, err := e.pools.get(poolIndex)
	if err != nil {
		return Receipt{}, err
	}

	if newRate.IsNil() {
		newRate = sdkmath.ZeroUint()
	}

	pool.Settle(now)
	pool.RewardPerSecond = newRate

	receipt = Receipt{Events: []Event{{
		Type:      EventRewardRateUpdated,
		Time:      now,
		PoolIndex: poolIndex,
		User:      caller,
		Amount:    newRate,
	}}}
	if err := e.commit(ctx, Commit{Receipt: receipt, Pools: map[uint64]Pool{poolIndex: pool}}); err != nil {
		return Receipt{}, err
	}

	e.pools.put(poolIndex, pool)
	return receipt, nil
}

// SetPoolPaused settles accrual under the current state, then flips the flag.
// Time spent paused never accrues, including after an unpause.
func (e *Engine) SetPoolPaused(ctx context.Context, caller string, poolIndex uint64, paused bool, now uint64) (receipt Receipt, err error) {
	defer recoverArithmetic(&err)

	if !e.IsWhitelisted(caller) {
		return Receipt{}, ErrUnauthorized
	}
	pool, err := e.pools.get(poolIndex)
	if err != nil {
		return Receipt{}, err
	}

	pool.Settle(now)
	pool.IsPaused = paused

	receipt = Receipt{Events: []Event{{
		Type:      EventPoolPauseUpdated,
		Time:      now,
		PoolIndex: poolIndex,
		User:      caller,
		Attrs:     map[string]string{"paused": strconv.FormatBool(paused)},
	}}}
	if err := e.commit(ctx, Commit{Receipt: receipt, Pools: map[uint64]Pool{poolIndex: pool}}); err != nil {
		return Receipt{}, err
	}

	e.pools.put(poolIndex, pool)
	return receipt, nil
}

func (e *Engine) Deposit(ctx context.Context, caller string, poolIndex uint64, amount sdkmath.Uint, now uint64) (receipt Receipt, err error) {
	defer recoverArithmetic(&err)

	if caller == "" {
		return Receipt{}, fmt.Errorf("%w: caller is required", ErrInvalidAddress)
	}
	pool, err := e.pools.get(poolIndex)
	if err != nil {
		return Receipt{}, err
	}
	if isZero(amount) {
		return Receipt{}, fmt.Errorf("%w: deposit amount must be positive", ErrInvalidAmount)
	}
	if !pool.AcceptsDeposits(now) {
		return Receipt{}, fmt.Errorf("%w: pool %d", ErrPoolInactive, poolIndex)
	}

	key := PositionKey{PoolIndex: poolIndex, User: caller}
	pos := e.ledger.get(key)
	pos.settle(&pool, now)
	pos.Amount = pos.Amount.Add(amount)
	pool.TotalStaked = pool.TotalStaked.Add(amount)
	pos.syncDebt(&pool)

	transfers := []Transfer{{Asset: pool.StakingAsset, From: caller, To: e.custody, Amount: amount}}
	if err := e.transfer(ctx, transfers); err != nil {
		return Receipt{}, err
	}

	receipt = Receipt{
		Events: []Event{{
			Type:      EventDeposit,
			Time:      now,
			PoolIndex: poolIndex,
			User:      caller,
			Amount:    amount,
		}},
		Transfers: transfers,
	}
	if err := e.commitPosition(ctx, receipt, poolIndex, pool, key, pos); err != nil {
		return Receipt{}, err
	}
	return receipt, nil
}

// Withdraw is allowed at any time, including while paused or after the
// pool's window closed.
func (e *Engine) Withdraw(ctx context.Context, caller string, poolIndex uint64, amount sdkmath.Uint, now uint64) (receipt Receipt, err error) {
	defer recoverArithmetic(&err)

	if caller == "" {
		return Receipt{}, fmt.Errorf("%w: caller is required", ErrInvalidAddress)
	}
	pool, err := e.pools.get(poolIndex)
	if err != nil {
		return Receipt{}, err
	}
	if isZero(amount) {
		return Receipt{}, fmt.Errorf("%w: withdraw amount must be positive", ErrInvalidAmount)
	}

	key := PositionKey{PoolIndex: poolIndex, User: caller}
	pos := e.ledger.get(key)
	if amount.GT(pos.Amount) {
		return Receipt{}, fmt.Errorf("%w: requested %s, staked %s", ErrInsufficientStake, amount, pos.Amount)
	}

	pos.settle(&pool, now)
	pos.Amount = pos.Amount.Sub(amount)
	pool.TotalStaked = pool.TotalStaked.Sub(amount)
	pos.syncDebt(&pool)

	transfers := []Transfer{{Asset: pool.StakingAsset, From: e.custody, To: caller, Amount: amount}}
	if err := e.transfer(ctx, transfers); err != nil {
		return Receipt{}, err
	}

	receipt = Receipt{
		Events: []Event{{
			Type:      EventWithdraw,
			Time:      now,
			PoolIndex: poolIndex,
			User:      caller,
			Amount:    amount,
		}},
		Transfers: transfers,
	}
	if err := e.commitPosition(ctx, receipt, poolIndex, pool, key, pos); err != nil {
		return Receipt{}, err
	}
	return receipt, nil
}

// Harvest pays out everything the caller earned so far, minus the fee.
// Harvesting with nothing pending succeeds and moves nothing.
func (e *Engine) Harvest(ctx context.Context, caller string, poolIndex uint64, now uint64) (receipt Receipt, err error) {
	defer recoverArithmetic(&err)

	if caller == "" {
		return Receipt{}, fmt.Errorf("%w: caller is required", ErrInvalidAddress)
	}
	pool, err := e.pools.get(poolIndex)
	if err != nil {
		return Receipt{}, err
	}

	key := PositionKey{PoolIndex: poolIndex, User: caller}
	pos := e.ledger.get(key)
	pos.settle(&pool, now)
	gross := pos.PendingReward
	pos.PendingReward = sdkmath.ZeroUint()
	pos.syncDebt(&pool)

	net, fee := e.fee.Split(gross)
	transfers := []Transfer{
		{Asset: pool.RewardAsset, From: e.custody, To: e.fee.Recipient, Amount: fee},
		{Asset: pool.RewardAsset, From: e.custody, To: caller, Amount: net},
	}
	transfers = slices.DeleteFunc(transfers, func(t Transfer) bool { return t.Amount.IsZero() })
	if err := e.transfer(ctx, transfers); err != nil {
		return Receipt{}, err
	}

	receipt = Receipt{
		Events: []Event{{
			Type:      EventHarvest,
			Time:      now,
			PoolIndex: poolIndex,
			User:      caller,
			Amount:    net,
			Fee:       fee,
		}},
		Transfers: transfers,
	}
	if err := e.commitPosition(ctx, receipt, poolIndex, pool, key, pos); err != nil {
		return Receipt{}, err
	}
	return receipt, nil
}

// SetWhitelisters adds addresses to, or with revoke removes them from, the
// set of callers allowed to manage pools. Only admins may call it.
func (e *Engine) SetWhitelisters(ctx context.Context, caller string, addresses []string, revoke bool, now uint64) (Receipt, error) {
	if !e.IsAdmin(caller) {
		return Receipt{}, fmt.Errorf("%w: %s is not an admin", ErrUnauthorized, caller)
	}
	for _, addr := range addresses {
		if addr == "" {
			return Receipt{}, fmt.Errorf("%w: empty whitelist address", ErrInvalidAddress)
		}
	}

	next := maps.Clone(e.whitelist)
	for _, addr := range addresses {
		if revoke {
			delete(next, addr)
		} else {
			next[addr] = struct{}{}
		}
	}

	receipt := Receipt{Events: []Event{{
		Type: EventWhitelistUpdated,
		Time: now,
		User: caller,
		Attrs: map[string]string{
			"addresses": strings.Join(addresses, ","),
			"revoke":    strconv.FormatBool(revoke),
		},
	}}}
	if err := e.commit(ctx, Commit{Receipt: receipt, Whitelist: sortedKeys(next)}); err != nil {
		return Receipt{}, err
	}

	e.whitelist = next
	return receipt, nil
}

func (e *Engine) SetFeeConfig(ctx context.Context, caller string, fee FeeConfig, now uint64) (Receipt, error) {
	if !e.IsAdmin(caller) {
		return Receipt{}, fmt.Errorf("%w: %s is not an admin", ErrUnauthorized, caller)
	}
	if err := fee.Validate(); err != nil {
		return Receipt{}, err
	}

	receipt := Receipt{Events: []Event{{
		Type: EventFeeConfigUpdated,
		Time: now,
		User: caller,
		Attrs: map[string]string{
			"recipient": fee.Recipient,
			"rate":      strconv.FormatUint(fee.Rate, 10),
			"decimal":   strconv.FormatUint(uint64(fee.Decimal), 10),
		},
	}}}
	if err := e.commit(ctx, Commit{Receipt: receipt, Fee: &fee}); err != nil {
		return Receipt{}, err
	}

	e.fee = fee
	return receipt, nil
}

func (e *Engine) transfer(ctx context.Context, transfers []Transfer) error {
	if len(transfers) == 0 {
		return nil
	}
	if err := e.bank.Transfer(ctx, transfers...); err != nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	return nil
}

func (e *Engine) commitPosition(ctx context.Context, receipt Receipt, poolIndex uint64, pool Pool, key PositionKey, pos Position) error {
	c := Commit{
		Receipt:   receipt,
		Pools:     map[uint64]Pool{poolIndex: pool},
		Positions: map[PositionKey]Position{key: pos},
	}
	if err := e.commit(ctx, c); err != nil {
		return err
	}

	e.pools.put(poolIndex, pool)
	e.ledger.put(key, pos)
	return nil
}

// commit passes the operation to the hook. When the hook fails the
// operation's transfers are sent back in reverse order.
func (e *Engine) commit(ctx context.Context, c Commit) error {
	if e.hook == nil {
		return nil
	}
	err := e.hook(ctx, c)
	if err == nil {
		return nil
	}

	err = fmt.Errorf("%w: %w", ErrCommitFailed, err)
	if len(c.Transfers) == 0 {
		return err
	}
	if rerr := e.bank.Transfer(ctx, reversed(c.Transfers)...); rerr != nil {
		return errors.Join(err, fmt.Errorf("failed to reverse transfers: %w", rerr))
	}
	return err
}

func reversed(transfers []Transfer) []Transfer {
	out := make([]Transfer, len(transfers))
	for i, t := range transfers {
		out[len(transfers)-1-i] = Transfer{Asset: t.Asset, From: t.To, To: t.From, Amount: t.Amount}
	}
	return out
}

func isZero(u sdkmath.Uint) bool {
	return u.IsNil() || u.IsZero()
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
