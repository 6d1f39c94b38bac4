package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmlabs/farming-engine/internal/db/model"
)

func (db *Database) UpsertBalances(ctx context.Context, balances []*model.BalanceDocument) error {
	return replaceMany(ctx, db.collection(model.BalancesCollection), balances, func(b *model.BalanceDocument) any {
		return b.ID
	})
}

func (db *Database) GetAllBalances(ctx context.Context) ([]*model.BalanceDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "asset", Value: 1}, {Key: "account", Value: 1}})
	return findAll[model.BalanceDocument](ctx, db.collection(model.BalancesCollection), bson.M{}, opts)
}
