package services

import (
	"context"
	"fmt"
	"net/http"

	sdkmath "cosmossdk.io/math"

	"github.com/farmlabs/farming-engine/internal/db"
	"github.com/farmlabs/farming-engine/internal/farming"
	"github.com/farmlabs/farming-engine/internal/types"
)

func (s *Service) PoolLength() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.engine.PoolLength()
}

func (s *Service) GetPoolInfo(poolIndex uint64) (farming.PoolInfo, *types.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, err := s.engine.GetPoolInfo(poolIndex)
	if err != nil {
		return farming.PoolInfo{}, translateError(err)
	}
	return info, nil
}

func (s *Service) Pools() []farming.PoolInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.engine.Pools()
}

// GetUserInfo projects the position to the current time.
func (s *Service) GetUserInfo(poolIndex uint64, user string) (farming.UserInfo, *types.Error) {
	if err := s.validateAddress(user); err != nil {
		return farming.UserInfo{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	info, err := s.engine.GetUserInfo(poolIndex, user, s.peekNow())
	if err != nil {
		return farming.UserInfo{}, translateError(err)
	}
	return info, nil
}

func (s *Service) FeeConfig() farming.FeeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.engine.FeeConfig()
}

func (s *Service) Whitelist() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.engine.Whitelist()
}

func (s *Service) Custody() string {
	return s.engine.Custody()
}

func (s *Service) Balance(asset, account string) sdkmath.Uint {
	return s.bank.BalanceOf(asset, account)
}

// GetEvents reads the persisted event log. Events that have not been
// flushed yet are not returned.
func (s *Service) GetEvents(ctx context.Context, filter db.EventFilter) ([]farming.Event, []uint64, *types.Error) {
	docs, err := s.db.GetEvents(ctx, filter)
	if err != nil {
		return nil, nil, types.NewInternalServiceError(fmt.Errorf("failed to load events: %w", err))
	}

	events := make([]farming.Event, 0, len(docs))
	sequences := make([]uint64, 0, len(docs))
	for _, doc := range docs {
		ev, err := doc.ToEvent()
		if err != nil {
			return nil, nil, types.NewInternalServiceError(err)
		}
		events = append(events, ev)
		sequences = append(sequences, doc.Sequence)
	}
	return events, sequences, nil
}

func (s *Service) Ping(ctx context.Context) *types.Error {
	if err := s.db.Ping(ctx); err != nil {
		return types.NewError(http.StatusServiceUnavailable, types.ServiceUnavailable, fmt.Errorf("database unavailable: %w", err))
	}
	return nil
}
