// internal/workers/data-access/search-vehicles/handler.go
package searchvehicles

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	cerrors "autotrader-workers/internal/common/errors"
	"autotrader-workers/internal/common/genai"
	"autotrader-workers/internal/common/logger"
	"autotrader-workers/internal/common/metrics"
	"autotrader-workers/internal/models"
)

const (
	TaskType = "search-vehicles"
)

// Searcher is the slice of the Elasticsearch client this worker needs.
type Searcher interface {
	Search(ctx context.Context, index string, body io.Reader) ([]byte, error)
}

type Handler struct {
	config   *Config
	embedder genai.Embedder
	search   Searcher
	logger   logger.Logger
}

func NewHandler(config *Config, embedder genai.Embedder, search Searcher, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		embedder: embedder,
		search:   search,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PARSE_ERROR").Inc()
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode(err)).Inc()
		h.failJob(client, job, errorCode(err), err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}
	if limit > h.config.MaxLimit {
		limit = h.config.MaxLimit
	}

	vector, err := h.embedder.Embed(ctx, input.QueryText)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(buildKnnQuery(vector, input.Filters, limit, h.config.NumCandidates))
	if err != nil {
		return nil, cerrors.NewVectorSearchFailedError(err)
	}

	start := time.Now()
	raw, err := h.search.Search(ctx, h.config.Index, bytes.NewReader(body))
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, cerrors.NewSearchTimeoutError(h.config.Index)
		}
		return nil, cerrors.NewVectorSearchFailedError(err)
	}

	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, cerrors.NewVectorSearchFailedError(err)
	}

	candidates := make([]models.CandidateHit, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		candidates = append(candidates, models.CandidateHit{
			ID:         hit.ID,
			Similarity: hit.Score,
			Payload:    hit.Source,
		})
	}
	metrics.VectorSearchCandidates.Observe(float64(len(candidates)))

	h.logger.Info("vector search completed", map[string]interface{}{
		"index":      h.config.Index,
		"candidates": len(candidates),
		"totalHits":  resp.Hits.Total.Value,
	})

	return &Output{
		Candidates: candidates,
		TotalHits:  resp.Hits.Total.Value,
		Took:       time.Since(start).Milliseconds(),
	}, nil
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string                  `json:"_id"`
			Score  float64                 `json:"_score"`
			Source models.CandidatePayload `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func errorCode(err error) string {
	if se, ok := err.(*cerrors.StandardError); ok {
		return string(se.Code)
	}
	return "VECTOR_SEARCH_FAILED"
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
