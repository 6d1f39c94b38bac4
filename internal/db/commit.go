package db

import (
	"context"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmlabs/farming-engine/internal/db/model"
)

func (db *Database) SaveCommit(ctx context.Context, commit *model.CommitDocument) error {
	_, err := db.collection(model.CommitsCollection).InsertOne(ctx, commit)
	if mongo.IsDuplicateKeyError(err) {
		return &DuplicateKeyError{
			Key:     strconv.FormatUint(commit.Version, 10),
			Message: "commit already exists",
		}
	}
	return err
}

// GetPendingCommits returns the commits not yet applied, oldest first.
func (db *Database) GetPendingCommits(ctx context.Context) ([]*model.CommitDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return findAll[model.CommitDocument](ctx, db.collection(model.CommitsCollection), bson.M{}, opts)
}

func (db *Database) DeleteCommit(ctx context.Context, version uint64) error {
	_, err := db.collection(model.CommitsCollection).DeleteOne(ctx, bson.M{"_id": version})
	return err
}
