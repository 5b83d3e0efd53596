// internal/workers/recommendation/score-vehicles/handler.go
package scorevehicles

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"autotrader-workers/internal/common/genai"
	"autotrader-workers/internal/common/logger"
	"autotrader-workers/internal/models"
	"autotrader-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-vehicles"
)

type Handler struct {
	config   *Config
	embedder genai.Embedder
	registry *registry.PricingRegistry
	logger   logger.Logger
}

func NewHandler(config *Config, embedder genai.Embedder, reg *registry.PricingRegistry, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		embedder: embedder,
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

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "EMBEDDING_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

// execute computes the three sub-scores per candidate, min-max scales each
// score population independently, blends them under the strategy weights,
// and returns the candidates sorted by final score descending.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.Candidates) == 0 {
		return &Output{RankedCandidates: []models.CandidateHit{}}, nil
	}

	strategy := h.registry.Strategy(input.Strategy)
	business := h.registry.Business(input.Strategy, input.BusinessOverride)

	// One preference vector per ranking call, reused for every candidate.
	prefVector, err := h.embedder.Embed(ctx, input.QueryText)
	if err != nil {
		return nil, err
	}

	hits := make([]models.CandidateHit, len(input.Candidates))
	copy(hits, input.Candidates)

	for i := range hits {
		hits[i].Reasons = nil
		hits[i].RuleScore = ruleScore(hits[i].Payload, input.Preferences, &hits[i].Reasons)

		candVector, err := h.embedder.Embed(ctx, candidateText(hits[i].Payload))
		if err != nil {
			return nil, err
		}
		hits[i].SemanticScore = cosine(prefVector, candVector)

		hits[i].BusinessScore = businessScore(hits[i].Payload, business, &hits[i].Reasons)
	}

	simRaw := make([]float64, len(hits))
	ruleRaw := make([]float64, len(hits))
	semRaw := make([]float64, len(hits))
	bizRaw := make([]float64, len(hits))
	for i, hit := range hits {
		simRaw[i] = hit.Similarity
		ruleRaw[i] = hit.RuleScore
		semRaw[i] = hit.SemanticScore
		bizRaw[i] = hit.BusinessScore
	}

	simScaled := minmaxScale(simRaw)
	ruleScaled := minmaxScale(ruleRaw)
	semScaled := minmaxScale(semRaw)
	bizScaled := minmaxScale(bizRaw)

	for i := range hits {
		prefPart := strategy.GammaRule*ruleScaled[i] + (1-strategy.GammaRule)*semScaled[i]
		hits[i].FinalScore = strategy.WeightRetrieval*simScaled[i] +
			strategy.WeightPersonal*prefPart +
			strategy.WeightBusiness*bizScaled[i]
	}

	// Stable sort keeps input order for equal finals, which makes ties
	// deterministic across runs.
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].FinalScore > hits[b].FinalScore
	})

	h.logger.Info("candidates ranked", map[string]interface{}{
		"strategy":   input.Strategy,
		"candidates": len(hits),
		"topScore":   hits[0].FinalScore,
	})

	return &Output{RankedCandidates: hits}, nil
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
