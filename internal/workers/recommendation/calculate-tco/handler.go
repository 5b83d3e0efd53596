// internal/workers/recommendation/calculate-tco/handler.go
package calculatetco

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	cerrors "autotrader-workers/internal/common/errors"
	"autotrader-workers/internal/common/logger"
	"autotrader-workers/internal/common/metrics"
	"autotrader-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "calculate-tco"
)

type Handler struct {
	config   *Config
	registry *registry.PricingRegistry
	logger   logger.Logger
	now      func() time.Time
}

func NewHandler(config *Config, reg *registry.PricingRegistry, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		registry: reg,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:      time.Now,
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
	calc, err := NewCalculator(h.registry, input.Profile)
	if err != nil {
		return nil, err
	}

	years := input.OwnershipYears
	if years <= 0 {
		years = h.config.OwnershipYears
	}

	now := h.now()
	results := make([]VehicleTCO, 0, len(input.Matches))
	for _, match := range input.Matches {
		res, err := calc.Calculate(match.Vehicle, match.AppliedVoucher, years, input.Vouchers, now)
		if err != nil {
			return nil, err
		}
		results = append(results, VehicleTCO{
			Vehicle:           match.Vehicle,
			Reason:            match.Reason,
			Total:             res.Total,
			Breakdown:         res.Breakdown,
			AvailableVouchers: res.AvailableVouchers,
		})
	}

	h.logger.Info("tco calculated", map[string]interface{}{
		"state":    input.Profile.State,
		"vehicles": len(results),
		"years":    years,
	})

	return &Output{Results: results}, nil
}

func errorCode(err error) string {
	if se, ok := err.(*cerrors.StandardError); ok {
		return string(se.Code)
	}
	return string(cerrors.ErrCodeTCOCalculationFailed)
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
