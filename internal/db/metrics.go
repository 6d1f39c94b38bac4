package db

import (
	"context"
	"time"

	"github.com/farmlabs/farming-engine/internal/db/model"
	"github.com/farmlabs/farming-engine/internal/observability/metrics"
)

type DbWithMetrics struct {
	db DbInterface
}

var _ DbInterface = (*DbWithMetrics)(nil)

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) UpsertPools(ctx context.Context, pools []*model.PoolDocument) error {
	return d.run("UpsertPools", func() error {
		return d.db.UpsertPools(ctx, pools)
	})
}

func (d *DbWithMetrics) GetAllPools(ctx context.Context) (result []*model.PoolDocument, err error) {
	//nolint:errcheck
	d.run("GetAllPools", func() error {
		result, err = d.db.GetAllPools(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) UpsertPositions(ctx context.Context, positions []*model.PositionDocument) error {
	return d.run("UpsertPositions", func() error {
		return d.db.UpsertPositions(ctx, positions)
	})
}

func (d *DbWithMetrics) DeletePositions(ctx context.Context, ids []string) error {
	return d.run("DeletePositions", func() error {
		return d.db.DeletePositions(ctx, ids)
	})
}

func (d *DbWithMetrics) GetAllPositions(ctx context.Context) (result []*model.PositionDocument, err error) {
	//nolint:errcheck
	d.run("GetAllPositions", func() error {
		result, err = d.db.GetAllPositions(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) GetSettings(ctx context.Context) (result *model.SettingsDocument, err error) {
	//nolint:errcheck
	d.run("GetSettings", func() error {
		result, err = d.db.GetSettings(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) UpsertSettings(ctx context.Context, settings *model.SettingsDocument) error {
	return d.run("UpsertSettings", func() error {
		return d.db.UpsertSettings(ctx, settings)
	})
}

func (d *DbWithMetrics) UpsertBalances(ctx context.Context, balances []*model.BalanceDocument) error {
	return d.run("UpsertBalances", func() error {
		return d.db.UpsertBalances(ctx, balances)
	})
}

func (d *DbWithMetrics) GetAllBalances(ctx context.Context) (result []*model.BalanceDocument, err error) {
	//nolint:errcheck
	d.run("GetAllBalances", func() error {
		result, err = d.db.GetAllBalances(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveEvents(ctx context.Context, events []*model.EventDocument) error {
	return d.run("SaveEvents", func() error {
		return d.db.SaveEvents(ctx, events)
	})
}

func (d *DbWithMetrics) GetEvents(ctx context.Context, filter EventFilter) (result []*model.EventDocument, err error) {
	//nolint:errcheck
	d.run("GetEvents", func() error {
		result, err = d.db.GetEvents(ctx, filter)
		return err
	})
	return
}

func (d *DbWithMetrics) GetLastEventSequence(ctx context.Context) (result uint64, err error) {
	//nolint:errcheck
	d.run("GetLastEventSequence", func() error {
		result, err = d.db.GetLastEventSequence(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveCommit(ctx context.Context, commit *model.CommitDocument) error {
	return d.run("SaveCommit", func() error {
		return d.db.SaveCommit(ctx, commit)
	})
}

func (d *DbWithMetrics) GetPendingCommits(ctx context.Context) (result []*model.CommitDocument, err error) {
	//nolint:errcheck
	d.run("GetPendingCommits", func() error {
		result, err = d.db.GetPendingCommits(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) DeleteCommit(ctx context.Context, version uint64) error {
	return d.run("DeleteCommit", func() error {
		return d.db.DeleteCommit(ctx, version)
	})
}

// run records latency and outcome of f. A not found result is not counted
// as a failure.
func (d *DbWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	failure := err != nil && !IsNotFoundError(err)
	metrics.RecordDbLatency(duration, method, failure)
	return err
}
