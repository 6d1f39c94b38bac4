package model

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmlabs/farming-engine/internal/config"
)

const (
	PoolsCollection     = "pools"
	PositionsCollection = "positions"
	SettingsCollection  = "settings"
	BalancesCollection  = "balances"
	EventsCollection    = "events"
	CommitsCollection   = "commits"
)

const setupTimeout = 30 * time.Second

type index struct {
	Keys   bson.D
	Unique bool
}

var collections = map[string][]index{
	PoolsCollection: {},
	PositionsCollection: {
		{Keys: bson.D{{Key: "pool_index", Value: 1}, {Key: "user", Value: 1}}, Unique: true},
		{Keys: bson.D{{Key: "user", Value: 1}}},
	},
	SettingsCollection: {},
	BalancesCollection: {
		{Keys: bson.D{{Key: "asset", Value: 1}, {Key: "account", Value: 1}}, Unique: true},
	},
	EventsCollection: {
		{Keys: bson.D{{Key: "pool_index", Value: 1}, {Key: "time", Value: 1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "time", Value: 1}}},
		{Keys: bson.D{{Key: "sequence", Value: 1}}, Unique: true},
	},
	CommitsCollection: {},
}

// Collections lists every collection Setup creates, in a stable order.
func Collections() []string {
	return []string{
		PoolsCollection,
		PositionsCollection,
		SettingsCollection,
		BalancesCollection,
		EventsCollection,
		CommitsCollection,
	}
}

// Setup creates the collections and indexes the service relies on.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	credential := options.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOps := options.Client().ApplyURI(cfg.Address).SetAuth(credential)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to disconnect setup client")
		}
	}()

	database := client.Database(cfg.DbName)
	for _, name := range Collections() {
		idxs := collections[name]
		if err := createCollection(ctx, database, name); err != nil {
			return err
		}
		for _, idx := range idxs {
			if err := createIndex(ctx, database, name, idx); err != nil {
				return err
			}
		}
	}

	log.Ctx(ctx).Info().Msg("Collections and indexes created successfully")
	return nil
}

func createCollection(ctx context.Context, database *mongo.Database, name string) error {
	existing, err := database.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	if err := database.CreateCollection(ctx, name); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	log.Ctx(ctx).Debug().Str("collection", name).Msg("Collection created")
	return nil
}

func createIndex(ctx context.Context, database *mongo.Database, collection string, idx index) error {
	indexModel := mongo.IndexModel{
		Keys:    idx.Keys,
		Options: options.Index().SetUnique(idx.Unique),
	}

	if _, err := database.Collection(collection).Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create index on %s: %w", collection, err)
	}
	return nil
}
