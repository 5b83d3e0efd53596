// internal/workers/recommendation/build-recommendation/handler.go
package buildrecommendation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"autotrader-workers/internal/common/logger"
	"autotrader-workers/internal/models"
)

const (
	TaskType = "build-recommendation"
)

const defaultSummary = "We found vehicles that match your preferences, budget, and lifestyle."

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

	output, err := h.execute(&input)
	if err != nil {
		h.failJob(client, job, "RESPONSE_VALIDATION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(input *Input) (*Output, error) {
	rec := Recommendation{
		Summary: defaultSummary,
		YourProfile: ProfileView{
			Location: location(input.Profile),
			Budget: BudgetView{
				CashBudget:      input.Profile.Finance.CashBudget,
				MonthlyCapacity: input.Profile.Finance.MonthlyCapacity,
				PaymentMethod:   input.Profile.Finance.PaymentMethod,
			},
			EcoFriendly:         input.Profile.EcoFriendly,
			SemanticPreferences: semanticPreferences(input.RankedCandidates),
		},
		FinanceInfo: FinanceInfo{
			PaymentCapacity: paymentCapacity(input.Profile.Finance),
		},
		RecommendedVehicles: input.Results,
	}
	if rec.RecommendedVehicles == nil {
		rec.RecommendedVehicles = []VehicleTCO{}
	}

	doc, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal recommendation: %w", err)
	}
	if err := validateRecommendation(doc); err != nil {
		return nil, err
	}

	h.logger.Info("recommendation assembled", map[string]interface{}{
		"vehicles":   len(rec.RecommendedVehicles),
		"candidates": len(rec.YourProfile.SemanticPreferences),
	})
	return &Output{Recommendation: rec}, nil
}

func location(p models.Profile) string {
	if p.Zip == "" {
		return p.State
	}
	return fmt.Sprintf("%s, %s", p.State, p.Zip)
}

// paymentCapacity renders the one-line affordability summary shown to the
// user, covering whichever budget figures the profile actually has.
func paymentCapacity(f models.Finance) string {
	switch {
	case f.CashBudget != nil && f.MonthlyCapacity != nil:
		return fmt.Sprintf("You can afford vehicles up to $%.0f in cash or around $%.0f/month if financed.",
			*f.CashBudget, *f.MonthlyCapacity)
	case f.CashBudget != nil:
		return fmt.Sprintf("You can afford vehicles up to $%.0f in cash.", *f.CashBudget)
	case f.MonthlyCapacity != nil:
		return fmt.Sprintf("You can afford around $%.0f/month if financed.", *f.MonthlyCapacity)
	default:
		return "No budget information was provided."
	}
}

func semanticPreferences(hits []models.CandidateHit) []SemanticPreference {
	prefs := make([]SemanticPreference, 0, len(hits))
	for _, hit := range hits {
		p := hit.Payload
		pref := SemanticPreference{
			Year:  p.Year,
			Make:  p.Make,
			Model: p.Model,
			Trim:  p.Trim,
			Color: p.Color,
			Zip:   p.Zip,
		}
		if len(hit.Reasons) > 0 {
			pref.Reason = hit.Reasons[0]
		}
		prefs = append(prefs, pref)
	}
	return prefs
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

func (h *Handler) Execute(input *Input) (*Output, error) {
	return h.execute(input)
}
