// internal/workers/recommendation/filter-budget/models.go
package filterbudget

import "autotrader-workers/internal/models"

type Input struct {
	Profile          models.Profile        `json:"profile"`
	RankedCandidates []models.CandidateHit `json:"rankedCandidates"`
	Vehicles         []models.Vehicle      `json:"vehicles"`
	Vouchers         []models.Voucher      `json:"vouchers,omitempty"`
}

type Output struct {
	Matches []Match `json:"budgetMatches"`
}

// Match pairs a catalog vehicle with the voucher applied during budget
// filtering. The shape feeds calculate-tco downstream.
type Match struct {
	Vehicle        models.Vehicle  `json:"vehicle"`
	Reason         string          `json:"reason,omitempty"`
	AppliedVoucher *models.Voucher `json:"appliedVoucher,omitempty"`
	EffectivePrice float64         `json:"effectivePrice"`
}
