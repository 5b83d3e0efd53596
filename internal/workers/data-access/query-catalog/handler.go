// internal/workers/data-access/query-catalog/handler.go
package querycatalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"autotrader-workers/internal/common/database"
	"autotrader-workers/internal/common/logger"
	"autotrader-workers/internal/workers/data-access/query-catalog/queries"
)

const (
	TaskType = "query-catalog"
)

var (
	ErrCatalogQueryFailed = errors.New("CATALOG_QUERY_FAILED")
	ErrCatalogTimeout     = errors.New("CATALOG_QUERY_TIMEOUT")
	ErrInvalidQueryType   = errors.New("INVALID_QUERY_TYPE")
)

type Handler struct {
	config *Config
	db     *sql.DB
	cache  *database.RedisClient
	logger logger.Logger
}

// NewHandler accepts a nil cache; caching is then skipped entirely.
func NewHandler(config *Config, db *sql.DB, cache *database.RedisClient, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "CATALOG_QUERY_FAILED"
		if errors.Is(err, ErrCatalogTimeout) {
			errorCode = "CATALOG_QUERY_TIMEOUT"
		} else if errors.Is(err, ErrInvalidQueryType) {
			errorCode = "INVALID_QUERY_TYPE"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if _, exists := queries.Registry[input.QueryType]; !exists {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQueryType, input.QueryType)
	}

	// Only the id-independent snapshot is worth caching; per-candidate id
	// sets rarely repeat.
	cacheable := input.QueryType == queries.QueryTypeCatalogSnapshot
	if cacheable {
		if out, ok := h.cachedSnapshot(ctx); ok {
			return out, nil
		}
	}

	params := map[string]interface{}{}
	if len(input.VehicleIDs) > 0 {
		params["vehicleIds"] = input.VehicleIDs
	}

	result, err := queries.Execute(ctx, h.db, input.QueryType, params)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrCatalogTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrCatalogQueryFailed, err)
	}

	output := &Output{
		Vehicles:           result.Vehicles,
		Vouchers:           result.Vouchers,
		RowCount:           result.RowCount,
		QueryExecutionTime: result.ExecutionTime,
	}
	if cacheable {
		h.storeSnapshot(ctx, output)
	}
	return output, nil
}

const snapshotCacheKey = "catalog:snapshot"

func (h *Handler) cachedSnapshot(ctx context.Context) (*Output, bool) {
	if h.cache == nil {
		return nil, false
	}
	raw, err := h.cache.Get(ctx, snapshotCacheKey)
	if err != nil {
		return nil, false
	}
	var out Output
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, false
	}
	out.CacheHit = true
	return &out, true
}

func (h *Handler) storeSnapshot(ctx context.Context, out *Output) {
	if h.cache == nil {
		return
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, snapshotCacheKey, string(raw), h.config.CacheTTL); err != nil {
		h.logger.Warn("snapshot cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{"error": err})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
