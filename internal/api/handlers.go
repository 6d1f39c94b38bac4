package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	sdkmath "cosmossdk.io/math"
	"github.com/go-chi/chi/v5"

	"github.com/farmlabs/farming-engine/internal/db"
	"github.com/farmlabs/farming-engine/internal/farming"
	"github.com/farmlabs/farming-engine/internal/services"
	"github.com/farmlabs/farming-engine/internal/types"
	"github.com/farmlabs/farming-engine/internal/utils"
)

// FarmingService is the part of services.Service the API serves.
type FarmingService interface {
	Ping(ctx context.Context) *types.Error

	AddPool(ctx context.Context, caller string, params farming.AddPoolParams) (uint64, *types.Error)
	UpdateRewardPerSecond(ctx context.Context, caller string, poolIndex uint64, rate sdkmath.Uint) *types.Error
	SetPoolPaused(ctx context.Context, caller string, poolIndex uint64, paused bool) *types.Error
	Deposit(ctx context.Context, caller string, poolIndex uint64, amount sdkmath.Uint) *types.Error
	Withdraw(ctx context.Context, caller string, poolIndex uint64, amount sdkmath.Uint) *types.Error
	Harvest(ctx context.Context, caller string, poolIndex uint64) (services.HarvestResult, *types.Error)
	SetWhitelisters(ctx context.Context, caller string, addresses []string, revoke bool) *types.Error
	SetFeeConfig(ctx context.Context, caller string, fee farming.FeeConfig) *types.Error
	Mint(ctx context.Context, caller, asset, account string, amount sdkmath.Uint) *types.Error

	PoolLength() uint64
	Pools() []farming.PoolInfo
	GetPoolInfo(poolIndex uint64) (farming.PoolInfo, *types.Error)
	GetUserInfo(poolIndex uint64, user string) (farming.UserInfo, *types.Error)
	FeeConfig() farming.FeeConfig
	Whitelist() []string
	Balance(asset, account string) sdkmath.Uint
	GetEvents(ctx context.Context, filter db.EventFilter) ([]farming.Event, []uint64, *types.Error)
}

var _ FarmingService = (*services.Service)(nil)

type Handlers struct {
	service FarmingService
}

func NewHandlers(service FarmingService) *Handlers {
	return &Handlers{service: service}
}

func (h *Handlers) routes(r chi.Router, apiToken string) {
	r.Get("/healthcheck", registerHandler(h.HealthCheck))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/pools", registerHandler(h.ListPools))
		r.Get("/pools/{index}", registerHandler(h.GetPool))
		r.Get("/pools/{index}/users/{user}", registerHandler(h.GetUserInfo))
		r.Get("/settings/fee", registerHandler(h.GetFeeConfig))
		r.Get("/settings/whitelist", registerHandler(h.GetWhitelist))
		r.Get("/balances/{asset}/{account}", registerHandler(h.GetBalance))
		r.Get("/events", registerHandler(h.GetEvents))

		r.Group(func(r chi.Router) {
			if apiToken != "" {
				r.Use(bearerTokenMiddleware(apiToken))
			}
			r.Post("/pools", registerHandler(h.AddPool))
			r.Put("/pools/{index}/reward-per-second", registerHandler(h.UpdateRewardPerSecond))
			r.Put("/pools/{index}/paused", registerHandler(h.SetPoolPaused))
			r.Post("/pools/{index}/deposit", registerHandler(h.Deposit))
			r.Post("/pools/{index}/withdraw", registerHandler(h.Withdraw))
			r.Post("/pools/{index}/harvest", registerHandler(h.Harvest))
			r.Put("/settings/fee", registerHandler(h.SetFeeConfig))
			r.Post("/settings/whitelist", registerHandler(h.SetWhitelisters))
			r.Post("/balances", registerHandler(h.Mint))
		})
	})
}

// Amounts are decimal strings. Without Decimals they are base units,
// otherwise they are scaled by 10^Decimals.
type amountRequest struct {
	Amount   string `json:"amount"`
	Decimals uint8  `json:"decimals,omitempty"`
}

type addPoolRequest struct {
	StakingAsset    string `json:"staking_asset"`
	RewardAsset     string `json:"reward_asset"`
	RewardPerSecond string `json:"reward_per_second"`
	Decimals        uint8  `json:"decimals,omitempty"`
	StartTime       uint64 `json:"start_time"`
	EndTime         uint64 `json:"end_time"`
}

type rateRequest struct {
	RewardPerSecond string `json:"reward_per_second"`
	Decimals        uint8  `json:"decimals,omitempty"`
}

type pausedRequest struct {
	Paused bool `json:"paused"`
}

type whitelistRequest struct {
	Addresses []string `json:"addresses"`
	Revoke    bool     `json:"revoke"`
}

type feeConfigPayload struct {
	Recipient string `json:"recipient"`
	Rate      uint64 `json:"rate"`
	Decimal   uint8  `json:"decimal"`
}

type mintRequest struct {
	Asset    string `json:"asset"`
	Account  string `json:"account"`
	Amount   string `json:"amount"`
	Decimals uint8  `json:"decimals,omitempty"`
}

type PoolPublic struct {
	Index             uint64 `json:"index"`
	StakingAsset      string `json:"staking_asset"`
	RewardAsset       string `json:"reward_asset"`
	TotalStaked       string `json:"total_staked"`
	RewardPerSecond   string `json:"reward_per_second"`
	StartTime         uint64 `json:"start_time"`
	EndTime           uint64 `json:"end_time"`
	AccRewardPerShare string `json:"acc_reward_per_share"`
	LastRewardTime    uint64 `json:"last_reward_time"`
	IsPaused          bool   `json:"is_paused"`
	Precision         string `json:"precision"`
}

type PoolListPublic struct {
	Length uint64       `json:"length"`
	Pools  []PoolPublic `json:"pools"`
}

type UserInfoPublic struct {
	Amount         string `json:"amount"`
	PendingReward  string `json:"pending_reward"`
	RewardDebt     string `json:"reward_debt"`
	SnapshotReward string `json:"snapshot_reward"`
}

type HarvestPublic struct {
	Net string `json:"net"`
	Fee string `json:"fee"`
}

type EventPublic struct {
	Sequence  uint64            `json:"sequence"`
	Type      string            `json:"type"`
	Time      uint64            `json:"time"`
	PoolIndex uint64            `json:"pool_index"`
	User      string            `json:"user"`
	Amount    string            `json:"amount,omitempty"`
	Fee       string            `json:"fee,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

func toPoolPublic(info farming.PoolInfo) PoolPublic {
	return PoolPublic{
		Index:             info.Index,
		StakingAsset:      info.StakingAsset,
		RewardAsset:       info.RewardAsset,
		TotalStaked:       info.TotalStaked.String(),
		RewardPerSecond:   info.RewardPerSecond.String(),
		StartTime:         info.StartTime,
		EndTime:           info.EndTime,
		AccRewardPerShare: info.AccRewardPerShare.String(),
		LastRewardTime:    info.LastRewardTime,
		IsPaused:          info.IsPaused,
		Precision:         info.Precision.String(),
	}
}

func (h *Handlers) HealthCheck(r *http.Request) (*Result, *types.Error) {
	if err := h.service.Ping(r.Context()); err != nil {
		return nil, err
	}
	return NewResult("ok"), nil
}

func (h *Handlers) ListPools(r *http.Request) (*Result, *types.Error) {
	infos := h.service.Pools()
	pools := make([]PoolPublic, 0, len(infos))
	for _, info := range infos {
		pools = append(pools, toPoolPublic(info))
	}
	return NewResult(PoolListPublic{Length: h.service.PoolLength(), Pools: pools}), nil
}

func (h *Handlers) AddPool(r *http.Request) (*Result, *types.Error) {
	caller, err := callerOf(r)
	if err != nil {
		return nil, err
	}
	var req addPoolRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	rate, err := parseAmount("reward_per_second", req.RewardPerSecond, req.Decimals)
	if err != nil {
		return nil, err
	}

	index, err := h.service.AddPool(r.Context(), caller, farming.AddPoolParams{
		StakingAsset:    req.StakingAsset,
		RewardAsset:     req.RewardAsset,
		RewardPerSecond: rate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
	})
	if err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusCreated, Data: map[string]uint64{"pool_index": index}}, nil
}

func (h *Handlers) GetPool(r *http.Request) (*Result, *types.Error) {
	index, err := poolIndexOf(r)
	if err != nil {
		return nil, err
	}
	info, err := h.service.GetPoolInfo(index)
	if err != nil {
		return nil, err
	}
	return NewResult(toPoolPublic(info)), nil
}

func (h *Handlers) UpdateRewardPerSecond(r *http.Request) (*Result, *types.Error) {
	caller, index, err := callerAndPool(r)
	if err != nil {
		return nil, err
	}
	var req rateRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	rate, err := parseAmount("reward_per_second", req.RewardPerSecond, req.Decimals)
	if err != nil {
		return nil, err
	}

	if err := h.service.UpdateRewardPerSecond(r.Context(), caller, index, rate); err != nil {
		return nil, err
	}
	return h.GetPool(r)
}

func (h *Handlers) SetPoolPaused(r *http.Request) (*Result, *types.Error) {
	caller, index, err := callerAndPool(r)
	if err != nil {
		return nil, err
	}
	var req pausedRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	if err := h.service.SetPoolPaused(r.Context(), caller, index, req.Paused); err != nil {
		return nil, err
	}
	return h.GetPool(r)
}

func (h *Handlers) Deposit(r *http.Request) (*Result, *types.Error) {
	caller, index, amount, err := h.stakeRequest(r)
	if err != nil {
		return nil, err
	}
	if err := h.service.Deposit(r.Context(), caller, index, amount); err != nil {
		return nil, err
	}
	return h.userInfo(index, caller)
}

func (h *Handlers) Withdraw(r *http.Request) (*Result, *types.Error) {
	caller, index, amount, err := h.stakeRequest(r)
	if err != nil {
		return nil, err
	}
	if err := h.service.Withdraw(r.Context(), caller, index, amount); err != nil {
		return nil, err
	}
	return h.userInfo(index, caller)
}

func (h *Handlers) Harvest(r *http.Request) (*Result, *types.Error) {
	caller, index, err := callerAndPool(r)
	if err != nil {
		return nil, err
	}
	result, err := h.service.Harvest(r.Context(), caller, index)
	if err != nil {
		return nil, err
	}
	return NewResult(HarvestPublic{Net: result.Net.String(), Fee: result.Fee.String()}), nil
}

func (h *Handlers) GetUserInfo(r *http.Request) (*Result, *types.Error) {
	index, err := poolIndexOf(r)
	if err != nil {
		return nil, err
	}
	return h.userInfo(index, chi.URLParam(r, "user"))
}

func (h *Handlers) userInfo(index uint64, user string) (*Result, *types.Error) {
	info, err := h.service.GetUserInfo(index, user)
	if err != nil {
		return nil, err
	}
	return NewResult(UserInfoPublic{
		Amount:         info.Amount.String(),
		PendingReward:  info.PendingReward.String(),
		RewardDebt:     info.RewardDebt.String(),
		SnapshotReward: info.SnapshotReward.String(),
	}), nil
}

func (h *Handlers) GetFeeConfig(r *http.Request) (*Result, *types.Error) {
	fee := h.service.FeeConfig()
	return NewResult(feeConfigPayload{Recipient: fee.Recipient, Rate: fee.Rate, Decimal: fee.Decimal}), nil
}

func (h *Handlers) SetFeeConfig(r *http.Request) (*Result, *types.Error) {
	caller, err := callerOf(r)
	if err != nil {
		return nil, err
	}
	var req feeConfigPayload
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	fee := farming.FeeConfig{Recipient: req.Recipient, Rate: req.Rate, Decimal: req.Decimal}
	if err := h.service.SetFeeConfig(r.Context(), caller, fee); err != nil {
		return nil, err
	}
	return h.GetFeeConfig(r)
}

func (h *Handlers) GetWhitelist(r *http.Request) (*Result, *types.Error) {
	return NewResult(h.service.Whitelist()), nil
}

func (h *Handlers) SetWhitelisters(r *http.Request) (*Result, *types.Error) {
	caller, err := callerOf(r)
	if err != nil {
		return nil, err
	}
	var req whitelistRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	if err := h.service.SetWhitelisters(r.Context(), caller, req.Addresses, req.Revoke); err != nil {
		return nil, err
	}
	return h.GetWhitelist(r)
}

func (h *Handlers) GetBalance(r *http.Request) (*Result, *types.Error) {
	asset, account := chi.URLParam(r, "asset"), chi.URLParam(r, "account")
	return NewResult(map[string]string{
		"asset":   asset,
		"account": account,
		"amount":  h.service.Balance(asset, account).String(),
	}), nil
}

func (h *Handlers) Mint(r *http.Request) (*Result, *types.Error) {
	caller, err := callerOf(r)
	if err != nil {
		return nil, err
	}
	var req mintRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	amount, err := parseAmount("amount", req.Amount, req.Decimals)
	if err != nil {
		return nil, err
	}

	if err := h.service.Mint(r.Context(), caller, req.Asset, req.Account, amount); err != nil {
		return nil, err
	}
	return NewResult(map[string]string{
		"asset":   req.Asset,
		"account": req.Account,
		"amount":  h.service.Balance(req.Asset, req.Account).String(),
	}), nil
}

func (h *Handlers) GetEvents(r *http.Request) (*Result, *types.Error) {
	query := r.URL.Query()
	filter := db.EventFilter{User: query.Get("user")}

	if v := query.Get("pool"); v != "" {
		index, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, types.NewValidationFailedError(fmt.Errorf("invalid pool %q", v))
		}
		filter.PoolIndex = &index
	}
	if v := query.Get("after"); v != "" {
		after, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, types.NewValidationFailedError(fmt.Errorf("invalid after %q", v))
		}
		filter.AfterSequence = after
	}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 64)
		if err != nil || limit <= 0 || limit > 1000 {
			return nil, types.NewValidationFailedError(fmt.Errorf("limit must be between 1 and 1000"))
		}
		filter.Limit = limit
	}

	events, sequences, err := h.service.GetEvents(r.Context(), filter)
	if err != nil {
		return nil, err
	}

	out := make([]EventPublic, 0, len(events))
	for i, ev := range events {
		pub := EventPublic{
			Sequence:  sequences[i],
			Type:      ev.Type.String(),
			Time:      ev.Time,
			PoolIndex: ev.PoolIndex,
			User:      ev.User,
			Attrs:     ev.Attrs,
		}
		if !ev.Amount.IsNil() {
			pub.Amount = ev.Amount.String()
		}
		if !ev.Fee.IsNil() {
			pub.Fee = ev.Fee.String()
		}
		out = append(out, pub)
	}
	return NewResult(out), nil
}

func (h *Handlers) stakeRequest(r *http.Request) (string, uint64, sdkmath.Uint, *types.Error) {
	caller, index, err := callerAndPool(r)
	if err != nil {
		return "", 0, sdkmath.Uint{}, err
	}
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		return "", 0, sdkmath.Uint{}, err
	}
	amount, err := parseAmount("amount", req.Amount, req.Decimals)
	if err != nil {
		return "", 0, sdkmath.Uint{}, err
	}
	return caller, index, amount, nil
}

func callerOf(r *http.Request) (string, *types.Error) {
	caller := r.Header.Get(CallerHeader)
	if caller == "" {
		return "", types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, CallerHeader+" header is required")
	}
	return caller, nil
}

func poolIndexOf(r *http.Request) (uint64, *types.Error) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, types.NewValidationFailedError(fmt.Errorf("invalid pool index %q", raw))
	}
	return index, nil
}

func callerAndPool(r *http.Request) (string, uint64, *types.Error) {
	caller, err := callerOf(r)
	if err != nil {
		return "", 0, err
	}
	index, err := poolIndexOf(r)
	if err != nil {
		return "", 0, err
	}
	return caller, index, nil
}

func decodeBody(r *http.Request, v any) *types.Error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return types.NewError(http.StatusBadRequest, types.BadRequest, fmt.Errorf("invalid request body: %w", err))
	}
	return nil
}

func parseAmount(field, raw string, decimals uint8) (sdkmath.Uint, *types.Error) {
	if raw == "" {
		return sdkmath.Uint{}, types.NewValidationFailedError(fmt.Errorf("%s is required", field))
	}
	amount, err := utils.ParseUnits(raw, decimals)
	if err != nil {
		return sdkmath.Uint{}, types.NewValidationFailedError(errors.Join(farming.ErrInvalidAmount, fmt.Errorf("%s: %w", field, err)))
	}
	return amount, nil
}
