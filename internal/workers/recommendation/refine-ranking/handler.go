// internal/workers/recommendation/refine-ranking/handler.go
package refineranking

import (
	"context"
	"encoding/json"
	"fmt"

	cerrors "autotrader-workers/internal/common/errors"
	"autotrader-workers/internal/common/genai"
	"autotrader-workers/internal/common/logger"
	"autotrader-workers/internal/common/metrics"
	"autotrader-workers/internal/models"
	"autotrader-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "refine-ranking"
)

// ChatClient is the slice of the genai client this worker needs.
type ChatClient interface {
	ChatCompletion(ctx context.Context, messages []genai.ChatMessage) (string, error)
}

type Handler struct {
	config   *Config
	chat     ChatClient
	registry *registry.PricingRegistry
	logger   logger.Logger
}

func NewHandler(config *Config, chat ChatClient, reg *registry.PricingRegistry, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		chat:     chat,
		registry: reg,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
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

	// Refinement is best effort. execute never returns an error: any chat or
	// parse failure falls back to the deterministic ranking from the previous
	// stage, which must stand on its own.
	output := h.execute(ctx, &input)
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) *Output {
	if len(input.RankedCandidates) == 0 {
		return &Output{RankedCandidates: []models.CandidateHit{}}
	}

	items, err := h.rerank(ctx, input)
	if err != nil {
		metrics.RerankFallbacks.Inc()
		h.logger.Warn("rerank fell back to deterministic order", map[string]interface{}{
			"error":      err.Error(),
			"candidates": len(input.RankedCandidates),
		})
		return &Output{RankedCandidates: input.RankedCandidates}
	}

	return &Output{
		RankedCandidates: applyRerank(input.RankedCandidates, items),
		RerankApplied:    true,
	}
}

func (h *Handler) rerank(ctx context.Context, input *Input) ([]rerankItem, error) {
	profileJSON, err := json.Marshal(input.Profile)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}

	strategy := h.registry.Strategy(input.Strategy)
	prompt := fmt.Sprintf(`The buyer profile:
%s

Active ranking strategy: %s (retrieval %.2f, personal %.2f, business %.2f, rule split %.2f)

Ranked vehicles (already filtered and scored):
%s

Reorder these vehicles from best to worst fit for this buyer, keeping the
strategy weights in mind. Return a JSON array of the form
[{"id": "...", "reason": "..."}] and nothing else.`,
		profileJSON, input.Strategy,
		strategy.WeightRetrieval, strategy.WeightPersonal, strategy.WeightBusiness, strategy.GammaRule,
		candidateContext(input.RankedCandidates))

	raw, err := h.chat.ChatCompletion(ctx, []genai.ChatMessage{
		{Role: "system", Content: "You are a vehicle recommendation assistant."},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, err
	}

	var items []rerankItem
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &items); err != nil {
		return nil, cerrors.NewRerankParsingFailedError(err.Error())
	}
	if len(items) == 0 {
		return nil, cerrors.NewRerankParsingFailedError("model returned an empty list")
	}
	return items, nil
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

func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	return h.execute(ctx, input)
}
