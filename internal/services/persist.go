package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/farmlabs/farming-engine/consumer"
	"github.com/farmlabs/farming-engine/internal/bank"
	"github.com/farmlabs/farming-engine/internal/db/model"
	"github.com/farmlabs/farming-engine/internal/farming"
)

// Every operation is journaled as one commit document before the engine
// applies it. The pools, positions, balances, events and settings
// collections are projections of the journal: commits are applied to them
// in version order and deleted once applied. A commit whose application
// fails stays pending and is retried by the next flush or on bootstrap.

// journal is the engine's commit hook. Must be called with the write lock
// held.
func (s *Service) journal(ctx context.Context, c farming.Commit) error {
	doc := s.newCommit(c.Whitelist, c.Fee)

	for index, pool := range c.Pools {
		doc.Pools = append(doc.Pools, model.NewPoolDocument(index, pool))
	}
	slices.SortFunc(doc.Pools, func(a, b *model.PoolDocument) int {
		return cmp.Compare(a.Index, b.Index)
	})

	for key, pos := range c.Positions {
		if pos.IsZero() {
			doc.DeletedPositions = append(doc.DeletedPositions, model.PositionID(key.PoolIndex, key.User))
			continue
		}
		doc.Positions = append(doc.Positions, model.NewPositionDocument(key, pos))
	}

	doc.Balances = s.balanceDocuments(c.Transfers)

	for i, ev := range c.Events {
		doc.Events = append(doc.Events, model.NewEventDocument(uuid.New().String(), s.eventSeq+uint64(i)+1, ev))
	}

	return s.saveCommit(ctx, doc)
}

// newCommit starts the next commit. Whitelist and fee default to the
// engine's current settings.
func (s *Service) newCommit(whitelist []string, fee *farming.FeeConfig) *model.CommitDocument {
	if whitelist == nil {
		whitelist = s.engine.Whitelist()
	}
	current := s.engine.FeeConfig()
	if fee != nil {
		current = *fee
	}

	version := s.commitVersion + 1
	return &model.CommitDocument{
		Version:  version,
		Settings: model.NewSettingsDocument(whitelist, current, s.lastTimestamp, version),
	}
}

// saveCommit journals doc. The commit version and event sequences are
// consumed even when the insert fails, so they are never handed out twice.
func (s *Service) saveCommit(ctx context.Context, doc *model.CommitDocument) error {
	s.commitVersion = doc.Version
	s.eventSeq += uint64(len(doc.Events))

	if err := s.db.SaveCommit(ctx, doc); err != nil {
		// the insert may have reached the server before failing
		if derr := s.db.DeleteCommit(context.WithoutCancel(ctx), doc.Version); derr != nil {
			log.Ctx(ctx).Error().Err(derr).Uint64("version", doc.Version).Msg("Failed to discard rejected commit")
		}
		return fmt.Errorf("failed to save commit %d: %w", doc.Version, err)
	}

	s.pending = append(s.pending, doc)
	s.committed = doc
	return nil
}

// balanceDocuments captures the current balance of every account a batch
// touched, ordered by asset then account.
func (s *Service) balanceDocuments(transfers []farming.Transfer) []*model.BalanceDocument {
	seen := make(map[string]struct{})
	var balances []bank.Balance
	add := func(asset, account string) {
		id := model.BalanceID(asset, account)
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		balances = append(balances, bank.Balance{
			Asset:   asset,
			Account: account,
			Amount:  s.bank.BalanceOf(asset, account),
		})
	}
	for _, t := range transfers {
		add(t.Asset, t.From)
		add(t.Asset, t.To)
	}

	slices.SortFunc(balances, func(a, b bank.Balance) int {
		if c := strings.Compare(a.Asset, b.Asset); c != 0 {
			return c
		}
		return strings.Compare(a.Account, b.Account)
	})
	docs := make([]*model.BalanceDocument, 0, len(balances))
	for _, b := range balances {
		docs = append(docs, model.NewBalanceDocument(b))
	}
	return docs
}

// apply writes one commit to the projections and removes it from the
// journal. Every write replaces whole documents, so applying a commit more
// than once is harmless.
func (s *Service) apply(ctx context.Context, doc *model.CommitDocument) error {
	if err := s.db.UpsertPools(ctx, doc.Pools); err != nil {
		return fmt.Errorf("failed to save pools: %w", err)
	}
	if err := s.db.UpsertPositions(ctx, doc.Positions); err != nil {
		return fmt.Errorf("failed to save positions: %w", err)
	}
	if err := s.db.DeletePositions(ctx, doc.DeletedPositions); err != nil {
		return fmt.Errorf("failed to delete positions: %w", err)
	}
	if err := s.db.UpsertBalances(ctx, doc.Balances); err != nil {
		return fmt.Errorf("failed to save balances: %w", err)
	}
	if err := s.db.SaveEvents(ctx, doc.Events); err != nil {
		return fmt.Errorf("failed to save events: %w", err)
	}
	if doc.Settings != nil {
		if err := s.db.UpsertSettings(ctx, doc.Settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}
	if err := s.db.DeleteCommit(ctx, doc.Version); err != nil {
		return fmt.Errorf("failed to delete commit %d: %w", doc.Version, err)
	}
	return nil
}

// flush applies pending commits in version order and stops at the first
// failure. Must be called with the write lock held.
func (s *Service) flush(ctx context.Context) error {
	for len(s.pending) > 0 {
		doc := s.pending[0]
		if err := s.apply(ctx, doc); err != nil {
			return fmt.Errorf("commit %d: %w", doc.Version, err)
		}
		s.pending = s.pending[1:]
	}
	return nil
}

// Flush writes any pending state, used on shutdown and by the stats poller.
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.flush(ctx)
}

// publish pushes journaled events to the consumer. Failures are logged
// only, the events remain in the database log.
func (s *Service) publish(ctx context.Context, docs []*model.EventDocument) {
	if s.consumer == nil {
		return
	}

	var errs []error
	for _, doc := range docs {
		msg := &consumer.FarmingEvent{
			SchemaVersion: consumer.FarmingEventSchemaVersion,
			ID:            doc.ID,
			Sequence:      doc.Sequence,
			EventType:     doc.Type,
			Time:          doc.Time,
			PoolIndex:     doc.PoolIndex,
			User:          doc.User,
			Amount:        doc.Amount,
			Fee:           doc.Fee,
			Attrs:         doc.Attrs,
		}
		if err := s.consumer.PushFarmingEvent(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to publish farming events")
	}
}
