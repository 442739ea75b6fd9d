// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vendor-matching-workers/internal/common/camunda"
	"vendor-matching-workers/internal/common/config"
	"vendor-matching-workers/internal/common/database"
	"vendor-matching-workers/internal/common/logger"
	"vendor-matching-workers/internal/common/observability"
	"vendor-matching-workers/internal/matching"
	"vendor-matching-workers/internal/repository"

	ccb "vendor-matching-workers/internal/workers/matching/compute-category-budget"
	facm "vendor-matching-workers/internal/workers/matching/find-all-category-matches"
	fvm "vendor-matching-workers/internal/workers/matching/find-vendor-matches"
	gcr "vendor-matching-workers/internal/workers/matching/get-cached-recommendations"
	op "vendor-matching-workers/internal/workers/matching/optimize-package"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting worker manager", map[string]interface{}{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	if err := run(cfg, log); err != nil {
		log.Error("worker manager failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	log.Info("worker manager stopped", nil)
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx := context.Background()

	obs := observability.New("worker-manager", log)
	defer obs.Shutdown()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err := retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.NewClientConfig(cfg.Camunda))
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		return err
	}
	defer zeebe.Close()
	log.Info("zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		return err
	}
	defer pg.Close()
	log.Info("postgres connected", nil)

	if dir := cfg.Database.Postgres.MigrationsDir; dir != "" {
		applied, err := pg.ApplyMigrations(ctx, dir)
		if err != nil {
			return err
		}
		log.Info("migrations applied", map[string]interface{}{"files": applied})
	}

	// --- Redis ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info("redis connected", nil)

	// --- Vendor catalog ---
	catalog, err := openCatalog(ctx, cfg, pg, log)
	if err != nil {
		return err
	}

	opts, err := matching.OptionsFromConfig(cfg.Matching)
	if err != nil {
		return fmt.Errorf("matching config: %w", err)
	}
	engine := matching.NewEngine(
		catalog,
		repository.NewAvailabilityRepository(pg.DB),
		repository.NewWeddingRepository(pg.DB),
		repository.NewRecommendationCache(rdb.Client),
		opts,
		log.WithFields(map[string]interface{}{"component": "matching"}),
	)

	// --- Workers ---
	handlers := map[string]camunda.JobHandler{
		ccb.TaskType:  ccb.NewHandler(&ccb.Config{Timeout: workerTimeout(cfg, ccb.TaskType, ccb.LoadConfig().Timeout)}, engine, log),
		fvm.TaskType:  fvm.NewHandler(&fvm.Config{Timeout: workerTimeout(cfg, fvm.TaskType, fvm.LoadConfig().Timeout)}, engine, log),
		facm.TaskType: facm.NewHandler(&facm.Config{Timeout: workerTimeout(cfg, facm.TaskType, facm.LoadConfig().Timeout)}, engine, log),
		gcr.TaskType:  gcr.NewHandler(&gcr.Config{Timeout: workerTimeout(cfg, gcr.TaskType, gcr.LoadConfig().Timeout)}, engine, log),
		op.TaskType:   op.NewHandler(&op.Config{Timeout: workerTimeout(cfg, op.TaskType, op.LoadConfig().Timeout)}, engine, log),
	}

	var workers []*camunda.CamundaWorker
	for _, taskType := range []string{ccb.TaskType, fvm.TaskType, facm.TaskType, gcr.TaskType, op.TaskType} {
		w := camunda.StartWorker(zeebe.GetClient(), taskType, config.GetWorkerConfig(cfg, taskType), handlers[taskType], obs, log)
		if w != nil {
			workers = append(workers, w)
		}
	}
	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	// --- Health & Metrics Server ---
	server := newHealthServer(cfg.Server.Address, zeebe, pg, rdb)
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping workers", nil)
	for _, w := range workers {
		w.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("health/metrics server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

// workerTimeout prefers the job timeout from the workers section.
func workerTimeout(cfg *config.Config, taskType string, fallback time.Duration) time.Duration {
	if wcfg, ok := cfg.Workers[taskType]; ok && wcfg.Timeout > 0 {
		return config.GetDuration(wcfg.Timeout)
	}
	return fallback
}

func openCatalog(ctx context.Context, cfg *config.Config, pg *database.PostgresClient, log logger.Logger) (matching.Catalog, error) {
	if cfg.Matching.CatalogSource != config.CatalogSourceElasticsearch {
		log.Info("vendor catalog served from postgres", nil)
		return repository.NewVendorRepository(pg.DB), nil
	}

	var es *database.ElasticsearchClient
	err := retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		if err := es.Ping(ctx); err != nil {
			return err
		}
		return es.RequireIndex(ctx, cfg.Database.Elasticsearch.VendorIndex)
	}, 15, 2*time.Second, log, "Elasticsearch connection")
	if err != nil {
		return nil, err
	}

	log.Info("vendor catalog served from elasticsearch", map[string]interface{}{
		"index": cfg.Database.Elasticsearch.VendorIndex,
	})
	return repository.NewVendorSearch(es.Client, cfg.Database.Elasticsearch.VendorIndex), nil
}

func newHealthServer(addr string, zeebe *camunda.Client, pg *database.PostgresClient, rdb *database.RedisClient) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{"zeebe": "ok", "postgres": "ok", "redis": "ok"}
		status := http.StatusOK
		for name, check := range map[string]func(context.Context) error{
			"zeebe":    zeebe.HealthCheck,
			"postgres": pg.Ping,
			"redis":    rdb.Ping,
		} {
			if err := check(ctx); err != nil {
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}
		checks["status"] = "ready"
		if status != http.StatusOK {
			checks["status"] = "not ready"
		}
		writeStatus(w, status, checks)
	})
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeStatus(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
