package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/farmlabs/farming-engine/internal/observability/metrics"
	"github.com/farmlabs/farming-engine/internal/utils/poller"
)

// StartStatsPoller starts the stats polling service
func (s *Service) StartStatsPoller(ctx context.Context) {
	statsPoller := poller.NewPoller(
		"stats",
		s.cfg.Poller.StatsPollingInterval,
		metrics.RecordPollerDuration("stats", s.collectStats),
	)
	go statsPoller.Start(ctx)
}

// collectStats publishes per-pool gauges and retries any pending writes.
func (s *Service) collectStats(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.engine.Snapshot()

	positions := make(map[uint64]int, len(state.Pools))
	for key, pos := range state.Positions {
		if !pos.Amount.IsZero() {
			positions[key.PoolIndex]++
		}
	}

	metrics.RecordPoolCount(uint64(len(state.Pools)))
	for i, pool := range state.Pools {
		index := uint64(i)
		metrics.RecordPoolState(index, pool.StakingAsset, pool.TotalStaked, pool.AccRewardPerShare, positions[index])
	}

	log.Ctx(ctx).Debug().
		Int("pools", len(state.Pools)).
		Int("positions", len(state.Positions)).
		Msg("Updated pool stats")

	if err := s.flush(ctx); err != nil {
		return fmt.Errorf("failed to flush pending state: %w", err)
	}
	return nil
}
