// internal/workers/recommendation/select-strategy/handler.go
package selectstrategy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"autotrader-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "select-strategy"

	// Inventory older than this signals a push to move stock.
	staleInventoryDays = 35.0

	// Substituted when the signal bundle omits inventory age.
	defaultInventoryDays = 25.0
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
		h.failJob(client, job, "STRATEGY_SELECTION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

// execute picks one strategy name from the closed set
// {default, sales_boost, loyalty, new_launch}. First match wins.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	// Campaign tags arrive as free text ("New Launch Event"), fold to the
	// canonical token form before substring matching.
	campaign := strings.ReplaceAll(strings.ToLower(input.Campaign), " ", "_")
	tier := strings.ToLower(input.CustomerTier)

	inventoryDays := defaultInventoryDays
	if input.AvgInventoryDays != nil {
		inventoryDays = *input.AvgInventoryDays
	}

	strategy := "default"
	switch {
	case strings.Contains(campaign, "new_launch"):
		strategy = "new_launch"
	case strings.Contains(campaign, "sale") ||
		strings.Contains(campaign, "clearance") ||
		strings.Contains(campaign, "boost"):
		strategy = "sales_boost"
	case tier == "vip" || tier == "loyal":
		strategy = "loyalty"
	case inventoryDays > staleInventoryDays:
		strategy = "sales_boost"
	}

	h.logger.Info("strategy selected", map[string]interface{}{
		"strategy":      strategy,
		"campaign":      input.Campaign,
		"customerTier":  input.CustomerTier,
		"inventoryDays": inventoryDays,
	})

	return &Output{Strategy: strategy}, nil
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
