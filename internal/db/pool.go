package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmlabs/farming-engine/internal/db/model"
)

func (db *Database) UpsertPools(ctx context.Context, pools []*model.PoolDocument) error {
	return replaceMany(ctx, db.collection(model.PoolsCollection), pools, func(p *model.PoolDocument) any {
		return p.Index
	})
}

// GetAllPools returns pools ordered by index.
func (db *Database) GetAllPools(ctx context.Context) ([]*model.PoolDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return findAll[model.PoolDocument](ctx, db.collection(model.PoolsCollection), bson.M{}, opts)
}
