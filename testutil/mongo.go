package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/farmlabs/farming-engine/internal/config"
	"github.com/farmlabs/farming-engine/internal/db"
	"github.com/farmlabs/farming-engine/internal/db/model"
)

const (
	MongoUsername = "user"
	MongoPassword = "password"
	MongoDatabase = "test-database"

	// docker tag, keep in sync with the mongo version used in production
	MongoVersion = "7.0.5"
)

// MongoContainer is a throwaway mongo instance with the farming collections
// and indexes already created.
type MongoContainer struct {
	Config *config.DbConfig
	DB     *db.Database

	pool     *dockertest.Pool
	resource *dockertest.Resource
}

// StartMongo runs a mongo container named after prefix and connects to it.
// Callers must Purge the container when done.
func StartMongo(prefix string) (*MongoContainer, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, err
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Name:       ContainerName(prefix),
		Repository: "mongo",
		Tag:        MongoVersion,
		Env: []string{
			"MONGO_INITDB_ROOT_USERNAME=" + MongoUsername,
			"MONGO_INITDB_ROOT_PASSWORD=" + MongoPassword,
			"MONGO_INITDB_DATABASE=" + MongoDatabase,
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, err
	}

	c := &MongoContainer{
		Config: &config.DbConfig{
			Username: MongoUsername,
			Password: MongoPassword,
			DbName:   MongoDatabase,
			Address:  fmt.Sprintf("mongodb://localhost:%s/", resource.GetPort("27017/tcp")),
		},
		pool:     pool,
		resource: resource,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// db.New retries until the server answers, so it goes before Setup
	c.DB, err = db.New(ctx, *c.Config)
	if err != nil {
		_ = c.Purge()
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := model.Setup(ctx, c.Config); err != nil {
		_ = c.Purge()
		return nil, fmt.Errorf("failed to set up collections: %w", err)
	}
	return c, nil
}

func (c *MongoContainer) Purge() error {
	return c.pool.Purge(c.resource)
}

// Reset empties every farming collection.
func (c *MongoContainer) Reset(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, name := range model.Collections() {
		_, err := c.DB.RawCollection(name).DeleteMany(ctx, bson.M{})
		require.NoError(t, err)
	}
}
