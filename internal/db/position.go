package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmlabs/farming-engine/internal/db/model"
)

func (db *Database) UpsertPositions(ctx context.Context, positions []*model.PositionDocument) error {
	return replaceMany(ctx, db.collection(model.PositionsCollection), positions, func(p *model.PositionDocument) any {
		return p.ID
	})
}

func (db *Database) DeletePositions(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := db.collection(model.PositionsCollection).
		DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

func (db *Database) GetAllPositions(ctx context.Context) ([]*model.PositionDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "pool_index", Value: 1}, {Key: "user", Value: 1}})
	return findAll[model.PositionDocument](ctx, db.collection(model.PositionsCollection), bson.M{}, opts)
}
