package e2etest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/farmlabs/farming-engine/consumer"
	"github.com/farmlabs/farming-engine/e2etest/container"
	"github.com/farmlabs/farming-engine/internal/api"
	"github.com/farmlabs/farming-engine/internal/config"
	"github.com/farmlabs/farming-engine/internal/db"
	"github.com/farmlabs/farming-engine/internal/db/model"
	"github.com/farmlabs/farming-engine/internal/queue"
	"github.com/farmlabs/farming-engine/internal/services"
)

var (
	eventuallyWaitTimeOut = 40 * time.Second
	eventuallyPollTime    = 1 * time.Second
)

// TestManager runs the engine against real mongo and rabbitmq containers
// and serves the API through an httptest server.
type TestManager struct {
	Config        *config.Config
	DbClient      *db.Database
	QueueManager  *queue.QueueManager
	Service       *services.Service
	Server        *httptest.Server
	FarmingEvents <-chan amqp.Delivery
}

func StartManager(t *testing.T) *TestManager {
	manager := container.NewManager(t)
	mongoAddress := manager.RunMongo(t)
	rabbitAddress := manager.RunRabbitMQ(t)

	cfg := DefaultFarmingConfig()
	cfg.Db.Address = mongoAddress
	cfg.Queue.Url = rabbitAddress

	ctx := t.Context()
	// db.New retries until mongo accepts connections
	dbClient, err := db.New(ctx, cfg.Db)
	require.NoError(t, err)
	require.NoError(t, model.Setup(ctx, &cfg.Db))

	qm, err := queue.NewQueueManager(cfg.Queue, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, qm.Start())
	t.Cleanup(func() {
		_ = qm.Stop()
	})

	service, err := services.NewService(cfg, db.NewDbWithMetrics(dbClient), qm, services.SystemClock{})
	require.NoError(t, err)
	require.NoError(t, service.Start(ctx))

	server := httptest.NewServer(api.New(&cfg.Server, service).Handler())
	t.Cleanup(server.Close)

	return &TestManager{
		Config:        cfg,
		DbClient:      dbClient,
		QueueManager:  qm,
		Service:       service,
		Server:        server,
		FarmingEvents: consumeQueue(t, cfg.Queue),
	}
}

func consumeQueue(t *testing.T, cfg *config.QueueConfig) <-chan amqp.Delivery {
	conn, err := amqp.Dial(cfg.AmqpURL())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	ch, err := conn.Channel()
	require.NoError(t, err)

	deliveries, err := ch.Consume(cfg.EventQueueName, "e2e", true, false, false, false, nil)
	require.NoError(t, err)
	return deliveries
}

func DefaultFarmingConfig() *config.Config {
	return &config.Config{
		Db: config.DbConfig{
			Username: container.Username,
			Password: container.Password,
			DbName:   "farming-e2e",
		},
		Queue: &config.QueueConfig{
			User:             container.Username,
			Password:         container.Password,
			EventQueueName:   "farming_events",
			QueueType:        "classic",
			PublishTimeout:   5 * time.Second,
			MaxRetryAttempts: 3,
			RetryInterval:    100 * time.Millisecond,
		},
		Server: config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         0,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
		Farming: config.FarmingConfig{
			Custody:      "custody",
			Admins:       []string{"admin"},
			Whitelist:    []string{"manager"},
			FeeRecipient: "treasury",
			FeeRate:      15,
			FeeDecimal:   1,
		},
		Poller: config.PollerConfig{
			StatsPollingInterval: time.Second,
		},
	}
}

// Call sends a JSON request as caller and decodes the data field into out.
func (tm *TestManager) Call(t *testing.T, method, path, caller string, body, out any) int {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequestWithContext(t.Context(), method, tm.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set(api.CallerHeader, caller)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < http.StatusBadRequest {
		envelope := api.PublicResponse[any]{Data: out}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	}
	return resp.StatusCode
}

// NextFarmingEvent waits for the next event published to the queue.
func (tm *TestManager) NextFarmingEvent(t *testing.T) consumer.FarmingEvent {
	select {
	case msg := <-tm.FarmingEvents:
		var ev consumer.FarmingEvent
		require.NoError(t, json.Unmarshal(msg.Body, &ev))
		return ev
	case <-time.After(eventuallyWaitTimeOut):
		t.Fatal("timed out waiting for farming event")
		return consumer.FarmingEvent{}
	}
}
