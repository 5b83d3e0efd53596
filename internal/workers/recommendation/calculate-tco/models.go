// internal/workers/recommendation/calculate-tco/models.go
package calculatetco

import "autotrader-workers/internal/models"

type Input struct {
	Profile models.Profile `json:"profile"`

	// Matches come from filter-budget: each carries the vehicle and the one
	// voucher that was applied during budget filtering, if any.
	Matches []Match `json:"budgetMatches"`

	// Vouchers, when present together with the profile's member level, only
	// produce the informational applicable-voucher list per vehicle. They are
	// never applied to the cost.
	Vouchers []models.Voucher `json:"vouchers,omitempty"`

	OwnershipYears int `json:"ownershipYears,omitempty"`
}

type Match struct {
	Vehicle        models.Vehicle  `json:"vehicle"`
	Reason         string          `json:"reason,omitempty"`
	AppliedVoucher *models.Voucher `json:"appliedVoucher,omitempty"`
}

type Output struct {
	Results []VehicleTCO `json:"tcoResults"`
}

type VehicleTCO struct {
	Vehicle           models.Vehicle                  `json:"vehicle"`
	Reason            string                          `json:"reason,omitempty"`
	Total             float64                         `json:"tcoTotal"`
	Breakdown         map[string]models.BreakdownItem `json:"breakdown"`
	AvailableVouchers []models.Voucher                `json:"availableVouchers,omitempty"`
}
