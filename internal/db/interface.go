package db

import (
	"context"

	"github.com/farmlabs/farming-engine/internal/db/model"
)

// EventFilter selects events from the event log. Zero values match all.
type EventFilter struct {
	PoolIndex     *uint64
	User          string
	AfterSequence uint64
	Limit         int64
}

type DbInterface interface {
	Ping(ctx context.Context) error

	UpsertPools(ctx context.Context, pools []*model.PoolDocument) error
	GetAllPools(ctx context.Context) ([]*model.PoolDocument, error)

	UpsertPositions(ctx context.Context, positions []*model.PositionDocument) error
	DeletePositions(ctx context.Context, ids []string) error
	GetAllPositions(ctx context.Context) ([]*model.PositionDocument, error)

	// GetSettings returns NotFoundError before the first save.
	GetSettings(ctx context.Context) (*model.SettingsDocument, error)
	UpsertSettings(ctx context.Context, settings *model.SettingsDocument) error

	UpsertBalances(ctx context.Context, balances []*model.BalanceDocument) error
	GetAllBalances(ctx context.Context) ([]*model.BalanceDocument, error)

	// SaveEvents is idempotent per event id.
	SaveEvents(ctx context.Context, events []*model.EventDocument) error
	GetEvents(ctx context.Context, filter EventFilter) ([]*model.EventDocument, error)
	GetLastEventSequence(ctx context.Context) (uint64, error)

	// SaveCommit journals one operation in a single insert.
	SaveCommit(ctx context.Context, commit *model.CommitDocument) error
	GetPendingCommits(ctx context.Context) ([]*model.CommitDocument, error)
	DeleteCommit(ctx context.Context, version uint64) error
}
