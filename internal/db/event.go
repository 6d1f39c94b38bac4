package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmlabs/farming-engine/internal/db/model"
)

const defaultEventLimit = 100

// SaveEvents upserts events by id, so saving the same events twice is
// harmless. A different event reusing a stored sequence is rejected with a
// DuplicateKeyError.
func (db *Database) SaveEvents(ctx context.Context, events []*model.EventDocument) error {
	err := replaceMany(ctx, db.collection(model.EventsCollection), events, func(ev *model.EventDocument) any {
		return ev.ID
	})
	var writeErr mongo.BulkWriteException
	if errors.As(err, &writeErr) {
		for _, e := range writeErr.WriteErrors {
			if mongo.IsDuplicateKeyError(e) {
				return &DuplicateKeyError{
					Key:     events[e.Index].ID,
					Message: "event sequence already taken",
				}
			}
		}
	}
	return err
}

// GetEvents returns matching events in sequence order.
func (db *Database) GetEvents(ctx context.Context, filter EventFilter) ([]*model.EventDocument, error) {
	query := bson.M{}
	if filter.PoolIndex != nil {
		query["pool_index"] = *filter.PoolIndex
	}
	if filter.User != "" {
		query["user"] = filter.User
	}
	if filter.AfterSequence > 0 {
		query["sequence"] = bson.M{"$gt": filter.AfterSequence}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultEventLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "sequence", Value: 1}}).
		SetLimit(limit)

	return findAll[model.EventDocument](ctx, db.collection(model.EventsCollection), query, opts)
}

// GetLastEventSequence returns 0 when the log is empty.
func (db *Database) GetLastEventSequence(ctx context.Context) (uint64, error) {
	var last model.EventDocument
	opts := options.FindOne().SetSort(bson.D{{Key: "sequence", Value: -1}})
	err := db.collection(model.EventsCollection).FindOne(ctx, bson.M{}, opts).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return last.Sequence, nil
}
