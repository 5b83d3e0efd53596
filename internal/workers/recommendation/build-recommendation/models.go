// internal/workers/recommendation/build-recommendation/models.go
package buildrecommendation

import (
	"autotrader-workers/internal/models"
)

type Input struct {
	Profile          models.Profile        `json:"profile"`
	RankedCandidates []models.CandidateHit `json:"rankedCandidates"`
	Results          []VehicleTCO          `json:"tcoResults"`
}

// VehicleTCO mirrors the calculate-tco output shape carried through the
// process variables.
type VehicleTCO struct {
	Vehicle           models.Vehicle                  `json:"vehicle"`
	Reason            string                          `json:"reason,omitempty"`
	Total             float64                         `json:"tcoTotal"`
	Breakdown         map[string]models.BreakdownItem `json:"breakdown"`
	AvailableVouchers []models.Voucher                `json:"availableVouchers,omitempty"`
}

type Output struct {
	Recommendation Recommendation `json:"recommendation"`
}

// Recommendation is the user-facing response document.
type Recommendation struct {
	Summary             string       `json:"summary"`
	YourProfile         ProfileView  `json:"yourProfile"`
	FinanceInfo         FinanceInfo  `json:"financeInfo"`
	RecommendedVehicles []VehicleTCO `json:"recommendedVehicles"`
}

type ProfileView struct {
	Location            string               `json:"location"`
	Budget              BudgetView           `json:"budget"`
	EcoFriendly         *bool                `json:"ecoFriendly,omitempty"`
	SemanticPreferences []SemanticPreference `json:"preferencesFromSemanticSearch"`
}

type BudgetView struct {
	CashBudget      *float64 `json:"cashBudget,omitempty"`
	MonthlyCapacity *float64 `json:"monthlyCapacity,omitempty"`
	PaymentMethod   string   `json:"paymentMethod"`
}

type FinanceInfo struct {
	PaymentCapacity string `json:"paymentCapacity"`
}

// SemanticPreference is the short form of a ranked candidate shown back to
// the user as "what the search understood".
type SemanticPreference struct {
	Year   int    `json:"year"`
	Make   string `json:"make"`
	Model  string `json:"model"`
	Trim   string `json:"trim"`
	Color  string `json:"color"`
	Zip    string `json:"zip"`
	Reason string `json:"reason,omitempty"`
}
