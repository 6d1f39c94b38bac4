package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/farmlabs/farming-engine/consumer"
	"github.com/farmlabs/farming-engine/internal/api"
	"github.com/farmlabs/farming-engine/internal/db"
	dbmodel "github.com/farmlabs/farming-engine/internal/db/model"
	"github.com/farmlabs/farming-engine/internal/observability/metrics"
	"github.com/farmlabs/farming-engine/internal/observability/tracing"
	"github.com/farmlabs/farming-engine/internal/queue"
	"github.com/farmlabs/farming-engine/internal/services"
)

const shutdownTimeout = 15 * time.Second

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the farming engine API server",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	err = dbmodel.Setup(ctx, &cfg.Db)
	if err != nil {
		return fmt.Errorf("error while setting up farming db model: %w", err)
	}

	// create new db client
	database, err := db.New(ctx, cfg.Db)
	if err != nil {
		return fmt.Errorf("error while creating db client: %w", err)
	}
	defer func() {
		if err := database.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("error while closing db client")
		}
	}()
	dbClient := db.NewDbWithMetrics(database)

	// Create a basic zap logger
	zapLogger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("error while creating zap logger: %w", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	var eventConsumer consumer.EventConsumer
	if cfg.Queue != nil {
		eventConsumer, err = queue.NewQueueManager(cfg.Queue, zapLogger)
		if err != nil {
			return fmt.Errorf("failed to initialize event consumer: %w", err)
		}
	} else {
		log.Warn().Msg("No queue configured, farming events are only logged")
		eventConsumer = queue.NewLogConsumer(zapLogger)
	}
	if err := eventConsumer.Start(); err != nil {
		return fmt.Errorf("failed to start event consumer: %w", err)
	}
	defer func() {
		if err := eventConsumer.Stop(); err != nil {
			log.Error().Err(err).Msg("error while stopping event consumer")
		}
	}()

	service, err := services.NewService(cfg, dbClient, eventConsumer, services.SystemClock{})
	if err != nil {
		return fmt.Errorf("error while creating service: %w", err)
	}
	if err := service.Start(ctx); err != nil {
		return fmt.Errorf("error while starting service: %w", err)
	}

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	server := api.New(&cfg.Server, service)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		return server.Start()
	})
	p.Go(func(ctx context.Context) error {
		<-ctx.Done()
		log.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error while shutting down api server")
		}
		return service.Flush(shutdownCtx)
	})

	return p.Wait()
}
