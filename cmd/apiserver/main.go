// Command apiserver runs the dockprep HTTP API: metadata lookups,
// preparation job submission, and job inspection.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/dockprep/internal/application/preparation"
	"github.com/turtacn/dockprep/internal/config"
	"github.com/turtacn/dockprep/internal/infrastructure/database/postgres"
	"github.com/turtacn/dockprep/internal/infrastructure/database/postgres/repositories"
	redisinfra "github.com/turtacn/dockprep/internal/infrastructure/database/redis"
	"github.com/turtacn/dockprep/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/dockprep/internal/infrastructure/rcsb"
	httpiface "github.com/turtacn/dockprep/internal/interfaces/http"
	"github.com/turtacn/dockprep/internal/interfaces/http/handlers"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to environment configuration)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "apiserver:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(db, cfg.Database.MigrationPath, logger); err != nil {
		return err
	}

	redisClient := redisinfra.NewClient(cfg.Redis)
	defer redisClient.Close()
	cache := redisinfra.NewCache(redisClient, cfg.Redis, logger)

	producer := kafka.NewProducer(cfg.Kafka, logger)
	defer producer.Close()

	var metrics *prometheus.Metrics
	if cfg.Metrics.Enabled {
		metrics = prometheus.NewMetrics(cfg.Metrics.Namespace)
	}

	repo := repositories.NewPreparationRepo(db, logger)
	pageClient := rcsb.NewClient(cfg.RCSB, logger)
	metadataSvc := preparation.NewMetadataService(pageClient, cache, metrics, logger)

	// The API server only submits jobs; workers run the pipeline.
	prepSvc := preparation.NewService(nil, nil, nil, repo,
		cfg.Tools.WorkDir, logger, preparation.Options{
			Publisher: producer,
			Metrics:   metrics,
		})

	router := httpiface.NewRouter(httpiface.RouterDeps{
		Logger:  logger,
		Metrics: metrics,
		Health: handlers.NewHealthHandler(version(), map[string]handlers.Pinger{
			"postgres": handlers.PingFunc(db.PingContext),
			"redis":    handlers.PingFunc(cache.Ping),
		}),
		Structures:   handlers.NewStructureHandler(metadataSvc),
		Preparations: handlers.NewPreparationHandler(prepSvc, cfg.Tools.DefaultPH),
		Mode:         cfg.Server.Mode,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server listening", logging.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

func version() string {
	return "1.0.0"
}
