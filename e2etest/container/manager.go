package container

import (
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"github.com/farmlabs/farming-engine/testutil"
)

const (
	Username = "user"
	Password = "password"
)

// Manager starts the docker containers an e2e test depends on and purges
// them on cleanup.
type Manager struct {
	cfg  ImageConfig
	pool *dockertest.Pool
}

func NewManager(t *testing.T) *Manager {
	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	pool.MaxWait = 2 * time.Minute

	return &Manager{cfg: NewImageConfig(), pool: pool}
}

// RunMongo returns the mongodb connection address.
func (m *Manager) RunMongo(t *testing.T) string {
	resource := m.run(t, "mongo-e2e", m.cfg.MongoRepository, m.cfg.MongoVersion, []string{
		"MONGO_INITDB_ROOT_USERNAME=" + Username,
		"MONGO_INITDB_ROOT_PASSWORD=" + Password,
	})
	return fmt.Sprintf("mongodb://localhost:%s/", resource.GetPort("27017/tcp"))
}

// RunRabbitMQ returns the broker host:port and blocks until it accepts
// connections.
func (m *Manager) RunRabbitMQ(t *testing.T) string {
	resource := m.run(t, "rabbitmq-e2e", m.cfg.RabbitMQRepository, m.cfg.RabbitMQVersion, []string{
		"RABBITMQ_DEFAULT_USER=" + Username,
		"RABBITMQ_DEFAULT_PASS=" + Password,
	})
	address := "localhost:" + resource.GetPort("5672/tcp")

	err := m.pool.Retry(func() error {
		conn, err := amqp.Dial(fmt.Sprintf("amqp://%s:%s@%s", Username, Password, address))
		if err != nil {
			return err
		}
		return conn.Close()
	})
	require.NoError(t, err)
	return address
}

func (m *Manager) run(t *testing.T, name, repository, tag string, env []string) *dockertest.Resource {
	resource, err := m.pool.RunWithOptions(&dockertest.RunOptions{
		Name:       testutil.ContainerName(name),
		Repository: repository,
		Tag:        tag,
		Env:        env,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := m.pool.Purge(resource); err != nil {
			t.Logf("failed to purge %s: %v", name, err)
		}
	})
	return resource
}
