package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/farmlabs/farming-engine/internal/bank"
	"github.com/farmlabs/farming-engine/internal/db"
	"github.com/farmlabs/farming-engine/internal/farming"
	"github.com/farmlabs/farming-engine/internal/types"
)

// Bootstrap applies any journaled commits left over from the last run, then
// loads pools, positions, balances and settings from the database into the
// engine. A fresh database keeps the configured settings.
func (s *Service) Bootstrap(ctx context.Context) *types.Error {
	log := log.Ctx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.db.GetPendingCommits(ctx)
	if err != nil {
		return types.NewInternalServiceError(fmt.Errorf("failed to load pending commits: %w", err))
	}
	for _, doc := range pending {
		if err := s.apply(ctx, doc); err != nil {
			return types.NewInternalServiceError(fmt.Errorf("failed to replay commit %d: %w", doc.Version, err))
		}
		s.commitVersion = max(s.commitVersion, doc.Version)
	}
	if len(pending) > 0 {
		log.Info().Int("commits", len(pending)).Msg("Replayed pending commits")
	}
	s.pending = nil

	state := farming.State{
		Positions: make(map[farming.PositionKey]farming.Position),
		Whitelist: s.engine.Whitelist(),
		Fee:       s.engine.FeeConfig(),
	}

	settings, err := s.db.GetSettings(ctx)
	switch {
	case err == nil:
		state.Whitelist = settings.Whitelist
		state.Fee = settings.Fee()
		s.lastTimestamp = settings.LastTimestamp
		s.commitVersion = max(s.commitVersion, settings.CommitVersion)
	case db.IsNotFoundError(err):
		log.Info().Msg("No persisted settings found, using configured whitelist and fee")
	default:
		return types.NewInternalServiceError(fmt.Errorf("failed to load settings: %w", err))
	}

	poolDocs, err := s.db.GetAllPools(ctx)
	if err != nil {
		return types.NewInternalServiceError(fmt.Errorf("failed to load pools: %w", err))
	}
	for i, doc := range poolDocs {
		if doc.Index != uint64(i) {
			return types.NewInternalServiceError(fmt.Errorf("pool index gap: expected %d, found %d", i, doc.Index))
		}
		pool, err := doc.ToPool()
		if err != nil {
			return types.NewInternalServiceError(err)
		}
		state.Pools = append(state.Pools, pool)
	}

	positionDocs, err := s.db.GetAllPositions(ctx)
	if err != nil {
		return types.NewInternalServiceError(fmt.Errorf("failed to load positions: %w", err))
	}
	for _, doc := range positionDocs {
		key, pos, err := doc.ToPosition()
		if err != nil {
			return types.NewInternalServiceError(err)
		}
		state.Positions[key] = pos
	}

	balanceDocs, err := s.db.GetAllBalances(ctx)
	if err != nil {
		return types.NewInternalServiceError(fmt.Errorf("failed to load balances: %w", err))
	}
	balances := make([]bank.Balance, 0, len(balanceDocs))
	for _, doc := range balanceDocs {
		b, err := doc.ToBalance()
		if err != nil {
			return types.NewInternalServiceError(err)
		}
		balances = append(balances, b)
	}

	s.eventSeq, err = s.db.GetLastEventSequence(ctx)
	if err != nil {
		return types.NewInternalServiceError(fmt.Errorf("failed to load event sequence: %w", err))
	}

	if err := s.engine.Restore(state); err != nil {
		return types.NewInternalServiceError(fmt.Errorf("failed to restore engine state: %w", err))
	}
	s.bank.Restore(balances)

	log.Info().
		Int("pools", len(state.Pools)).
		Int("positions", len(state.Positions)).
		Int("balances", len(balances)).
		Uint64("event_sequence", s.eventSeq).
		Uint64("commit_version", s.commitVersion).
		Uint64("last_timestamp", s.lastTimestamp).
		Msg("Engine state restored")
	return nil
}
