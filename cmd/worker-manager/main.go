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
	"go.uber.org/zap"

	"claims-registry/internal/claims/present"
	"claims-registry/internal/claims/record"
	"claims-registry/internal/claims/registry"
	"claims-registry/internal/claims/seed"
	"claims-registry/internal/claims/storage"
	"claims-registry/internal/common/camunda"
	"claims-registry/internal/common/config"
	"claims-registry/internal/common/database"
	"claims-registry/internal/common/logger"
	"claims-registry/internal/common/notify"
	"claims-registry/internal/common/observability"
	"claims-registry/internal/models"
	activity "claims-registry/pkg/registry"

	// Claims Workers (5)
	dc "claims-registry/internal/workers/claims/delete-claim"
	qc "claims-registry/internal/workers/claims/query-claims"
	sc "claims-registry/internal/workers/claims/submit-claim"
	uc "claims-registry/internal/workers/claims/update-claim"
	vc "claims-registry/internal/workers/claims/view-claim"

	// Provider Workers (2)
	ap "claims-registry/internal/workers/providers/add-provider"
	qp "claims-registry/internal/workers/providers/query-providers"

	// Dashboard Workers (1)
	sm "claims-registry/internal/workers/dashboard/summarize-claims"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
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

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
		zap.String("backend", cfg.Registry.Backend),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel exporter unavailable, job metrics limited to prometheus collectors", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	ctx := context.Background()

	// --- Optional backends with retry ---
	var conns *database.Connections
	err = retryWithBackoff(func() error {
		var err error
		conns, err = database.Open(ctx, cfg.Database)
		return err
	}, 10, 2*time.Second, zapLog, "Backend connection")
	if err != nil {
		zapLog.Fatal("backends failed after retries", zap.Error(err))
	}
	defer conns.Close()

	activities, err := activity.LoadRegistry(cfg.Registry.ActivityRegistryPath)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	if err := activities.Validate(); err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}

	notifier, err := notify.FromConfig(ctx, cfg.Notifications, log)
	if err != nil {
		zapLog.Fatal("notifier setup failed", zap.Error(err))
	}

	sessions, err := buildManager(ctx, cfg, conns, notifier, log)
	if err != nil {
		zapLog.Fatal("registry setup failed", zap.Error(err))
	}
	zapLog.Info("Claims registry ready",
		zap.Bool("postgres", conns.Claims != nil),
		zap.Bool("viewCache", conns.Cache != nil),
		zap.Bool("searchMirror", conns.Search != nil),
	)

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Register Workers ---
	handlers := []struct {
		taskType string
		handler  camunda.JobHandler
	}{
		{sc.TaskType, sc.NewHandler(sc.FromWorkerConfig(cfg.Workers[sc.TaskType]), sessions, activities, log).WithObservability(obs)},
		{uc.TaskType, uc.NewHandler(uc.FromWorkerConfig(cfg.Workers[uc.TaskType]), sessions, activities, log)},
		{dc.TaskType, dc.NewHandler(dc.FromWorkerConfig(cfg.Workers[dc.TaskType]), sessions, activities, log)},
		{qc.TaskType, qc.NewHandler(qc.FromWorkerConfig(cfg.Workers[qc.TaskType]), sessions, activities, log)},
		{vc.TaskType, vc.NewHandler(vc.FromWorkerConfig(cfg.Workers[vc.TaskType]), sessions, activities, log)},
		{ap.TaskType, ap.NewHandler(ap.FromWorkerConfig(cfg.Workers[ap.TaskType]), sessions, activities, notifier, log)},
		{qp.TaskType, qp.NewHandler(qp.FromWorkerConfig(cfg.Workers[qp.TaskType]), sessions, activities, log)},
		{sm.TaskType, sm.NewHandler(sm.FromWorkerConfig(cfg.Workers[sm.TaskType]), sessions, activities, log)},
	}

	var workers []*camunda.CamundaWorker
	for _, h := range handlers {
		if !config.IsWorkerEnabled(cfg, h.taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", h.taskType))
			continue
		}
		if _, ok := activities.Find(h.taskType); !ok {
			zapLog.Fatal("worker has no activity definition", zap.String("taskType", h.taskType))
		}

		wcfg := config.GetWorkerConfig(cfg, h.taskType)
		w := camunda.NewWorker(zeebe.GetClient(), h.taskType, camunda.WorkerOptions{
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       config.GetDuration(wcfg.Timeout),
		}, h.handler, log, obs)
		w.Start()
		workers = append(workers, w)
	}
	taskTypes := make([]string, 0, len(workers))
	for _, w := range workers {
		taskTypes = append(taskTypes, w.TaskType())
	}
	zapLog.Info("Workers registered", zap.Int("count", len(workers)), zap.Strings("taskTypes", taskTypes))

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           healthMux(conns, zeebe, sessions),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// buildManager wires the registry onto whichever backends are enabled. The
// memory repository is used unless the postgres backend is selected.
func buildManager(ctx context.Context, cfg *config.Config, conns *database.Connections, notifier notify.Notifier, log logger.Logger) (*registry.Manager, error) {
	set, err := loadSeed(cfg.Registry.SeedPath)
	if err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}

	factory := record.NewFactory(models.ClaimStatus(cfg.Registry.DefaultStatus))
	if cfg.Registry.DateLayout != "" {
		factory.DateLayout = cfg.Registry.DateLayout
	}

	mcfg := registry.ManagerConfig{
		PageSize:           cfg.Registry.PageSize,
		EnforceTransitions: cfg.Registry.EnforceTransitions,
		Seed:               set,
		Factory:            factory,
		Presenter: present.NewAdapter(present.Config{
			CurrencySymbol: cfg.Registry.CurrencySymbol,
			DateLayout:     cfg.Registry.DateLayout,
		}),
		Notifier: notifier,
		Logger:   log,
	}

	if cfg.Registry.Backend == config.BackendPostgres {
		if conns.Claims == nil {
			return nil, errors.New("registry backend postgres requires database.postgres.enabled")
		}
		if err := storage.EnsureSchema(ctx, conns.Claims.DB); err != nil {
			return nil, err
		}
		mcfg.Repositories = storage.NewPostgresFactory(conns.Claims.DB)
	}
	if conns.Cache != nil {
		mcfg.Cache = storage.NewRedisCache(conns.Cache.Client, config.GetDuration(cfg.Registry.CacheTTL))
	}
	if conns.Search != nil {
		mcfg.Indexer = storage.NewSearchIndexer(conns.Search.Client, cfg.Registry.SearchIndex)
	}

	return registry.NewManager(mcfg), nil
}

func loadSeed(path string) (*seed.Set, error) {
	if path == "" {
		return seed.Default()
	}
	return seed.Load(path)
}

func healthMux(conns *database.Connections, zeebe *camunda.Client, sessions *registry.Manager) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"sessions": sessions.Len(),
			"time":     time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		backends := conns.Status(ctx)
		backends["zeebe"] = "ok"
		if err := zeebe.HealthCheck(ctx); err != nil {
			backends["zeebe"] = err.Error()
		}

		status, code := "ready", http.StatusOK
		for _, s := range backends {
			if s != "ok" {
				status, code = "not ready", http.StatusServiceUnavailable
				break
			}
		}
		writeJSON(w, code, map[string]interface{}{
			"status":   status,
			"backends": backends,
			"time":     time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
