package db

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmlabs/farming-engine/internal/config"
)

const (
	connectAttempts = 5
	connectDelay    = 500 * time.Millisecond
)

type Database struct {
	dbName string
	client *mongo.Client
}

var _ DbInterface = (*Database)(nil)

// New connects to mongo and waits until the server answers a ping.
func New(ctx context.Context, cfg config.DbConfig) (*Database, error) {
	credential := options.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOps := options.Client().ApplyURI(cfg.Address).SetAuth(credential)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return nil, err
	}

	err = retry.Do(
		func() error {
			return client.Ping(ctx, nil)
		},
		retry.Context(ctx),
		retry.Attempts(connectAttempts),
		retry.Delay(connectDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Warn().
				Err(err).
				Uint("attempt", n+1).
				Msg("mongo ping failed, retrying")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reach mongo: %w", err)
	}

	return &Database{
		dbName: cfg.DbName,
		client: client,
	}, nil
}

func (db *Database) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, nil)
}

func (db *Database) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

func (db *Database) collection(name string) *mongo.Collection {
	return db.client.Database(db.dbName).Collection(name)
}

// replaceMany upserts every document by its _id in one ordered bulk write.
func replaceMany[T any](ctx context.Context, coll *mongo.Collection, docs []T, id func(T) any) error {
	if len(docs) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(docs))
	for _, doc := range docs {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": id(doc)}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	_, err := coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	return err
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// RawCollection exposes a collection handle for maintenance and tests.
func (db *Database) RawCollection(name string) *mongo.Collection {
	return db.collection(name)
}
