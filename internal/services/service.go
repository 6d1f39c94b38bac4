package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/farmlabs/farming-engine/consumer"
	"github.com/farmlabs/farming-engine/internal/bank"
	"github.com/farmlabs/farming-engine/internal/config"
	"github.com/farmlabs/farming-engine/internal/db"
	"github.com/farmlabs/farming-engine/internal/db/model"
	"github.com/farmlabs/farming-engine/internal/farming"
)

// Clock returns the current unix time in seconds.
type Clock interface {
	Now() uint64
}

type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// Service serializes farming operations and keeps the engine state in
// memory. An operation takes effect only once its commit is journaled in
// the database.
type Service struct {
	cfg      *config.Config
	db       db.DbInterface
	consumer consumer.EventConsumer
	clock    Clock

	mu     sync.RWMutex
	engine *farming.Engine
	bank   *bank.Ledger
	// lastTimestamp is the time of the last committed operation. Operation
	// time never goes below it, even if the wall clock does.
	lastTimestamp uint64
	eventSeq      uint64
	commitVersion uint64
	// pending holds journaled commits not yet applied to the collections.
	pending []*model.CommitDocument
	// committed is the commit saved by the running operation.
	committed *model.CommitDocument
}

func NewService(
	cfg *config.Config,
	db db.DbInterface,
	eventConsumer consumer.EventConsumer,
	clock Clock,
) (*Service, error) {
	ledger := bank.NewLedger()
	engine, err := farming.NewEngine(cfg.Farming.EngineConfig(), ledger)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	if clock == nil {
		clock = SystemClock{}
	}

	s := &Service{
		cfg:      cfg,
		db:       db,
		consumer: eventConsumer,
		clock:    clock,
		engine:   engine,
		bank:     ledger,
	}
	engine.SetCommitHook(s.journal)
	return s, nil
}

// Start restores persisted state and launches the background pollers.
func (s *Service) Start(ctx context.Context) error {
	if err := s.Bootstrap(ctx); err != nil {
		return err
	}
	s.StartStatsPoller(ctx)
	return nil
}

// now must be called with the write lock held.
func (s *Service) now() uint64 {
	s.lastTimestamp = max(s.clock.Now(), s.lastTimestamp)
	return s.lastTimestamp
}

// peekNow is now for read-only calls.
func (s *Service) peekNow() uint64 {
	return max(s.clock.Now(), s.lastTimestamp)
}
