// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"autotrader-workers/internal/common/config"
	"autotrader-workers/internal/common/database"
	"autotrader-workers/internal/common/genai"
	"autotrader-workers/internal/common/logger"
	"autotrader-workers/internal/common/observability"
	"autotrader-workers/pkg/registry"

	// Data access workers
	qc "autotrader-workers/internal/workers/data-access/query-catalog"
	sv "autotrader-workers/internal/workers/data-access/search-vehicles"

	// Recommendation pipeline workers
	brc "autotrader-workers/internal/workers/recommendation/build-recommendation"
	bvq "autotrader-workers/internal/workers/recommendation/build-vehicle-query"
	ct "autotrader-workers/internal/workers/recommendation/calculate-tco"
	fb "autotrader-workers/internal/workers/recommendation/filter-budget"
	rr "autotrader-workers/internal/workers/recommendation/refine-ranking"
	sc "autotrader-workers/internal/workers/recommendation/score-vehicles"
	ss "autotrader-workers/internal/workers/recommendation/select-strategy"
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
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Pricing registry (fail fast on a broken file) ---
	pricing, err := registry.Load(cfg.Pricing.RegistryPath)
	if err != nil {
		zapLog.Fatal("pricing registry load failed", zap.Error(err))
	}
	zapLog.Info("Pricing registry loaded",
		zap.String("path", cfg.Pricing.RegistryPath),
		zap.String("version", pricing.Version),
	)

	// --- GenAI client, embeddings cached through Redis ---
	genaiClient := genai.NewClient(cfg.APIs.GenAI, log)
	embedder := genai.NewCachedEmbedder(
		genaiClient, redisClient, cfg.APIs.GenAI.EmbeddingModel, 0, log,
	)
	zapLog.Info("GenAI client initialized", zap.String("baseURL", cfg.APIs.GenAI.BaseURL))

	workerTimeout := func(taskType string, fallback time.Duration) time.Duration {
		if t := cfg.Workers[taskType].Timeout; t > 0 {
			return time.Duration(t) * time.Millisecond
		}
		return fallback
	}

	// --- Register recommendation pipeline workers ---

	if cfg.Workers[bvq.TaskType].Enabled {
		handler := bvq.NewHandler(
			&bvq.Config{
				Timeout:        workerTimeout(bvq.TaskType, 10*time.Second),
				PriceTolerance: cfg.Pricing.BudgetTolerance,
			},
			log,
		)
		startWorker(zeebeClient, bvq.TaskType, cfg.Workers[bvq.TaskType], obs, handler.Handle, zapLog)
	}

	if cfg.Workers[ss.TaskType].Enabled {
		handler := ss.NewHandler(
			&ss.Config{Timeout: workerTimeout(ss.TaskType, 10*time.Second)},
			log,
		)
		startWorker(zeebeClient, ss.TaskType, cfg.Workers[ss.TaskType], obs, handler.Handle, zapLog)
	}

	if cfg.Workers[sv.TaskType].Enabled {
		handler := sv.NewHandler(
			&sv.Config{
				Timeout:       workerTimeout(sv.TaskType, 30*time.Second),
				Index:         cfg.Search.VehicleIndex,
				DefaultLimit:  cfg.Search.TopK,
				MaxLimit:      100,
				NumCandidates: cfg.Search.NumCandidates,
			},
			embedder, esClient, log,
		)
		startWorker(zeebeClient, sv.TaskType, cfg.Workers[sv.TaskType], obs, handler.Handle, zapLog)
	}

	if cfg.Workers[sc.TaskType].Enabled {
		handler := sc.NewHandler(
			&sc.Config{Timeout: workerTimeout(sc.TaskType, 60*time.Second)},
			embedder, pricing, log,
		)
		startWorker(zeebeClient, sc.TaskType, cfg.Workers[sc.TaskType], obs, handler.Handle, zapLog)
	}

	if cfg.Workers[rr.TaskType].Enabled {
		handler := rr.NewHandler(
			&rr.Config{Timeout: workerTimeout(rr.TaskType, 30*time.Second)},
			genaiClient, pricing, log,
		)
		startWorker(zeebeClient, rr.TaskType, cfg.Workers[rr.TaskType], obs, handler.Handle, zapLog)
	}

	if cfg.Workers[qc.TaskType].Enabled {
		handler := qc.NewHandler(
			&qc.Config{
				Timeout:  workerTimeout(qc.TaskType, 15*time.Second),
				CacheTTL: 5 * time.Minute,
			},
			pg.DB, redisClient, log,
		)
		startWorker(zeebeClient, qc.TaskType, cfg.Workers[qc.TaskType], obs, handler.Handle, zapLog)
	}

	if cfg.Workers[fb.TaskType].Enabled {
		handler := fb.NewHandler(
			&fb.Config{
				Timeout:         workerTimeout(fb.TaskType, 10*time.Second),
				BudgetTolerance: cfg.Pricing.BudgetTolerance,
			},
			log,
		)
		startWorker(zeebeClient, fb.TaskType, cfg.Workers[fb.TaskType], obs, handler.Handle, zapLog)
	}

	if cfg.Workers[ct.TaskType].Enabled {
		handler := ct.NewHandler(
			&ct.Config{
				Timeout:        workerTimeout(ct.TaskType, 15*time.Second),
				OwnershipYears: cfg.Pricing.OwnershipYears,
			},
			pricing, log,
		)
		startWorker(zeebeClient, ct.TaskType, cfg.Workers[ct.TaskType], obs, handler.Handle, zapLog)
	}

	if cfg.Workers[brc.TaskType].Enabled {
		handler := brc.NewHandler(
			&brc.Config{Timeout: workerTimeout(brc.TaskType, 10*time.Second)},
			log,
		)
		startWorker(zeebeClient, brc.TaskType, cfg.Workers[brc.TaskType], obs, handler.Handle, zapLog)
	}

	zapLog.Info("All 9 workers registered successfully")

	// --- Health & metrics server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, obs *observability.Observability, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(func(jobClient worker.JobClient, job entities.Job) {
			start := time.Now()
			handlerFunc(jobClient, job)
			obs.RecordJobProcessed(context.Background(), taskType)
			obs.RecordJobDuration(context.Background(), taskType, time.Since(start))
		}).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
