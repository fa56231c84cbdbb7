// Command worker consumes preparation requests from Kafka and runs the
// download, protonate, convert pipeline for each one.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/turtacn/dockprep/internal/application/preparation"
	"github.com/turtacn/dockprep/internal/config"
	"github.com/turtacn/dockprep/internal/infrastructure/database/postgres"
	"github.com/turtacn/dockprep/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/dockprep/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/dockprep/internal/infrastructure/rcsb"
	"github.com/turtacn/dockprep/internal/infrastructure/storage/minio"
	"github.com/turtacn/dockprep/internal/infrastructure/tools"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to environment configuration)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "worker:", err)
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

	var metrics *prometheus.Metrics
	if cfg.Metrics.Enabled {
		metrics = prometheus.NewMetrics(cfg.Metrics.Namespace)
	}

	var artifacts preparation.ArtifactUploader
	if cfg.MinIO.Enabled {
		store, err := minio.NewArtifactStore(ctx, cfg.MinIO, logger)
		if err != nil {
			return err
		}
		artifacts = store
	}

	repo := repositories.NewPreparationRepo(db, logger)
	svc := preparation.NewService(
		rcsb.NewDownloader(cfg.RCSB, logger),
		tools.NewPDB2PQR(cfg.Tools, logger),
		tools.NewOpenBabel(cfg.Tools, logger),
		repo,
		cfg.Tools.WorkDir,
		logger,
		preparation.Options{Artifacts: artifacts, Metrics: metrics},
	)

	handler := func(ctx context.Context, msg kafka.PrepareMessage) error {
		runCtx, cancel := context.WithTimeout(ctx, cfg.Worker.HandlerTimeout)
		defer cancel()

		job, err := repo.GetByID(runCtx, msg.JobID)
		if err != nil {
			return err
		}
		return svc.Run(runCtx, job)
	}

	// A lightweight health endpoint so orchestrators can probe the worker.
	healthSrv := startHealthServer(cfg, metrics, logger)
	defer healthSrv.Close()

	var wg sync.WaitGroup
	consumers := make([]*kafka.Consumer, 0, cfg.Worker.Concurrency)
	errCh := make(chan error, cfg.Worker.Concurrency)

	logger.Info("worker starting",
		logging.Int("concurrency", cfg.Worker.Concurrency),
		logging.String("topic", cfg.Kafka.Topic))

	for i := 0; i < cfg.Worker.Concurrency; i++ {
		consumer := kafka.NewConsumer(cfg.Kafka, logger)
		consumers = append(consumers, consumer)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Run(ctx, handler); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case err := <-errCh:
		stop()
		closeAll(consumers, logger)
		wg.Wait()
		return err
	case <-ctx.Done():
	}

	logger.Info("worker shutting down")
	closeAll(consumers, logger)
	wg.Wait()
	return nil
}

func closeAll(consumers []*kafka.Consumer, logger logging.Logger) {
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			logger.Warn("failed to close consumer", logging.Err(err))
		}
	}
}

func startHealthServer(cfg *config.Config, metrics *prometheus.Metrics, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if metrics != nil {
		mux.Handle("/metrics", metrics.Handler())
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Worker.HealthPort),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", logging.Err(err))
		}
	}()
	return srv
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}
