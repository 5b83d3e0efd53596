// internal/workers/recommendation/filter-budget/handler.go
package filterbudget

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"autotrader-workers/internal/common/logger"
	"autotrader-workers/internal/common/vouchers"
	"autotrader-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "filter-budget"
)

type Handler struct {
	config *Config
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:    time.Now,
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
		h.failJob(client, job, "BUDGET_FILTER_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

// execute matches ranked suggestions back to catalog vehicles, applies the
// first eligible discount voucher per vehicle, and keeps the vehicles whose
// voucher-adjusted price lands inside the buyer's budget window.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	now := h.now()
	matches := make([]Match, 0, len(input.RankedCandidates))

	for _, hit := range input.RankedCandidates {
		for _, vehicle := range h.catalogMatches(hit, input.Vehicles) {
			applicable := vouchers.Discount(input.Vouchers, vehicle, vehicle.Year, input.Profile.MemberLevel, now)

			var applied *models.Voucher
			discount := 0.0
			if len(applicable) > 0 {
				// Policy: the first listed applicable voucher is "the" voucher,
				// not the highest-value one.
				applied = &applicable[0]
				discount = applied.Value
			}

			effective := vehicle.BasePrice - discount
			if !h.withinBudget(input.Profile, vehicle, effective) {
				continue
			}

			matches = append(matches, Match{
				Vehicle:        vehicle,
				Reason:         h.buildReason(hit, discount),
				AppliedVoucher: applied,
				EffectivePrice: effective,
			})
		}
	}

	h.logger.Info("budget filter applied", map[string]interface{}{
		"candidates": len(input.RankedCandidates),
		"matches":    len(matches),
	})

	return &Output{Matches: matches}, nil
}

// catalogMatches finds catalog vehicles that exactly match the suggested
// candidate on year, make, model, trim, color, and zip.
func (h *Handler) catalogMatches(hit models.CandidateHit, catalog []models.Vehicle) []models.Vehicle {
	p := hit.Payload
	var out []models.Vehicle
	for _, v := range catalog {
		if v.Year == p.Year &&
			v.Make == p.Make &&
			v.Model == p.Model &&
			v.Trim == p.Trim &&
			v.Color == p.Color &&
			v.Zip == p.Zip {
			out = append(out, v)
		}
	}
	return out
}

func (h *Handler) withinBudget(profile models.Profile, vehicle models.Vehicle, effectivePrice float64) bool {
	tol := h.config.BudgetTolerance
	finance := profile.Finance

	if finance.PaymentMethod == "cash" {
		if finance.CashBudget == nil {
			return false
		}
		return *finance.CashBudget-tol <= effectivePrice && effectivePrice <= *finance.CashBudget+tol
	}

	// Financed buyers are windowed on the monthly payment instead.
	if finance.MonthlyCapacity == nil {
		return false
	}
	return *finance.MonthlyCapacity-tol <= vehicle.MonthlyPayment && vehicle.MonthlyPayment <= *finance.MonthlyCapacity+tol
}

func (h *Handler) buildReason(hit models.CandidateHit, discount float64) string {
	reason := strings.Join(hit.Reasons, "; ")
	if reason == "" {
		reason = fmt.Sprintf("Vector similarity score: %.3f", hit.Similarity)
	}
	return fmt.Sprintf("%s + fits budget (voucher applied: $%.0f)", reason, discount)
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
