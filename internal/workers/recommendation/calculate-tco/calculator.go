// internal/workers/recommendation/calculate-tco/calculator.go
package calculatetco

import (
	"math"
	"time"

	cerrors "autotrader-workers/internal/common/errors"
	"autotrader-workers/internal/common/vouchers"
	"autotrader-workers/internal/models"
	"autotrader-workers/pkg/registry"
)

// Breakdown category keys. A result's total is exactly the sum of all item
// values under these keys.
const (
	CategoryInitialCost = "initial_cost"
	CategoryFuelCost    = "fuel_cost"
	CategoryEnergyCost  = "energy_cost"
	CategoryInsurance   = "insurance"
	CategoryMaintenance = "maintenance"
	CategoryParking     = "parking"
	CategoryToll        = "toll"
)

// Calculator prices multi-year ownership for one region. It is a pure
// function of its inputs; the region config is resolved once at
// construction from the profile's state.
type Calculator struct {
	region        registry.RegionConfig
	annualMileage float64
	memberLevel   string
}

// NewCalculator resolves the region config for the profile's state. A state
// with no config entry is a hard configuration error, there is no sane
// default region.
func NewCalculator(reg *registry.PricingRegistry, profile models.Profile) (*Calculator, error) {
	region, err := reg.Region(profile.State)
	if err != nil {
		return nil, cerrors.NewRegionConfigMissingError(profile.State)
	}
	return &Calculator{
		region:        region,
		annualMileage: float64(profile.AnnualMileageOrDefault()),
		memberLevel:   profile.MemberLevel,
	}, nil
}

// Result is one priced vehicle: the exact total and the per-category items.
type Result struct {
	Total             float64
	Breakdown         map[string]models.BreakdownItem
	AvailableVouchers []models.Voucher
}

// Calculate prices the vehicle over `years`. The applied voucher and the
// informational voucher list are independent inputs: `applied` reduces the
// initial cost (if it passes eligibility for this vehicle), while
// `available` is only filtered and echoed back. A vehicle whose consumption
// figure is missing cannot be priced: a zero MPG would divide fuel cost to
// +Inf and poison the total, so it is rejected up front.
func (c *Calculator) Calculate(vehicle models.Vehicle, applied *models.Voucher, years int, available []models.Voucher, now time.Time) (*Result, error) {
	if vehicle.IsEV() {
		if vehicle.KWhPerMile <= 0 {
			return nil, cerrors.NewTCOCalculationFailedError(vehicle.ID, "electric vehicle has no positive kWh/mile figure")
		}
	} else if vehicle.MPG <= 0 {
		return nil, cerrors.NewTCOCalculationFailedError(vehicle.ID, "combustion vehicle has no positive MPG figure")
	}

	breakdown := map[string]models.BreakdownItem{
		CategoryInitialCost: c.initialCost(vehicle, applied),
		CategoryInsurance:   c.insurance(vehicle, years),
		CategoryMaintenance: c.maintenance(vehicle, years),
		CategoryParking:     c.escalated(CategoryParking, c.region.ParkingFee, c.region.ParkingEscalation, years),
		CategoryToll:        c.escalated(CategoryToll, c.region.TollFee, c.region.TollEscalation, years),
	}

	if vehicle.IsEV() {
		breakdown[CategoryEnergyCost] = c.energyCost(vehicle, years)
	} else {
		breakdown[CategoryFuelCost] = c.fuelCost(vehicle, years)
	}

	total := 0.0
	for _, item := range breakdown {
		total += item.Value
	}

	var applicable []models.Voucher
	if available != nil {
		applicable = vouchers.Discount(available, vehicle, vehicle.Year, c.memberLevel, now)
	}

	return &Result{
		Total:             total,
		Breakdown:         breakdown,
		AvailableVouchers: applicable,
	}, nil
}

func (c *Calculator) initialCost(vehicle models.Vehicle, voucher *models.Voucher) models.BreakdownItem {
	appliedValue := 0.0
	if voucher != nil && vouchers.IsApplicable(*voucher, vehicle, vehicle.Year, c.memberLevel) {
		appliedValue = voucher.Value
	}

	tax := vehicle.BasePrice * c.region.TaxRate
	value := vehicle.BasePrice + tax + c.region.RegistrationFee - appliedValue

	return models.BreakdownItem{
		Value: value,
		Explanation: map[string]interface{}{
			"basePrice":       vehicle.BasePrice,
			"tax":             tax,
			"registrationFee": c.region.RegistrationFee,
			"appliedVoucher":  -appliedValue,
		},
	}
}

func (c *Calculator) fuelCost(vehicle models.Vehicle, years int) models.BreakdownItem {
	annual := (c.annualMileage / vehicle.MPG) * c.region.FuelPrice
	return models.BreakdownItem{
		Value: annual * float64(years),
		Explanation: map[string]interface{}{
			"annualMileage": c.annualMileage,
			"mpg":           vehicle.MPG,
			"fuelPrice":     c.region.FuelPrice,
			"years":         years,
		},
	}
}

func (c *Calculator) energyCost(vehicle models.Vehicle, years int) models.BreakdownItem {
	annual := c.annualMileage * vehicle.KWhPerMile * c.region.ElectricityPrice
	return models.BreakdownItem{
		Value: annual * float64(years),
		Explanation: map[string]interface{}{
			"annualMileage":    c.annualMileage,
			"kwhPerMile":       vehicle.KWhPerMile,
			"electricityPrice": c.region.ElectricityPrice,
			"years":            years,
		},
	}
}

func (c *Calculator) insurance(vehicle models.Vehicle, years int) models.BreakdownItem {
	return models.BreakdownItem{
		Value: vehicle.BasePrice * c.region.InsuranceBaseRate * float64(years),
		Explanation: map[string]interface{}{
			"price":         vehicle.BasePrice,
			"insuranceRate": c.region.InsuranceBaseRate,
			"years":         years,
		},
	}
}

func (c *Calculator) maintenance(vehicle models.Vehicle, years int) models.BreakdownItem {
	rate := c.region.MaintenanceFor(vehicle.Make)

	cost := 0.0
	for y := 1; y <= years; y++ {
		cost += rate.BaseAnnual * math.Pow(rate.Escalation, float64(y-1))
	}

	return models.BreakdownItem{
		Value: cost,
		Explanation: map[string]interface{}{
			"base":       rate.BaseAnnual,
			"escalation": rate.Escalation,
			"years":      years,
		},
	}
}

func (c *Calculator) escalated(category string, base, escalation float64, years int) models.BreakdownItem {
	cost := 0.0
	for y := 1; y <= years; y++ {
		cost += base * math.Pow(escalation, float64(y-1))
	}
	return models.BreakdownItem{
		Value: cost,
		Explanation: map[string]interface{}{
			"base":       base,
			"escalation": escalation,
			"years":      years,
		},
	}
}
