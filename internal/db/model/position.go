package model

import (
	"fmt"
	"strconv"

	"github.com/farmlabs/farming-engine/internal/farming"
)

type PositionDocument struct {
	ID            string `bson:"_id"`
	PoolIndex     uint64 `bson:"pool_index"`
	User          string `bson:"user"`
	Amount        string `bson:"amount"`
	RewardDebt    string `bson:"reward_debt"`
	PendingReward string `bson:"pending_reward"`
}

func PositionID(poolIndex uint64, user string) string {
	return strconv.FormatUint(poolIndex, 10) + ":" + user
}

func NewPositionDocument(key farming.PositionKey, pos farming.Position) *PositionDocument {
	return &PositionDocument{
		ID:            PositionID(key.PoolIndex, key.User),
		PoolIndex:     key.PoolIndex,
		User:          key.User,
		Amount:        formatUint(pos.Amount),
		RewardDebt:    formatUint(pos.RewardDebt),
		PendingReward: formatUint(pos.PendingReward),
	}
}

func (d *PositionDocument) ToPosition() (farming.PositionKey, farming.Position, error) {
	key := farming.PositionKey{PoolIndex: d.PoolIndex, User: d.User}

	var (
		pos farming.Position
		err error
	)
	if pos.Amount, err = parseUint("amount", d.Amount); err != nil {
		return key, pos, fmt.Errorf("position %s: %w", d.ID, err)
	}
	if pos.RewardDebt, err = parseUint("reward_debt", d.RewardDebt); err != nil {
		return key, pos, fmt.Errorf("position %s: %w", d.ID, err)
	}
	if pos.PendingReward, err = parseUint("pending_reward", d.PendingReward); err != nil {
		return key, pos, fmt.Errorf("position %s: %w", d.ID, err)
	}
	return key, pos, nil
}
