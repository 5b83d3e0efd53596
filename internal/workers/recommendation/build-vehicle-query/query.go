// internal/workers/recommendation/build-vehicle-query/query.go
package buildvehiclequery

import (
	"fmt"
	"strings"

	"autotrader-workers/internal/models"
)

// fallbackQueryText keeps the semantic search meaningful when a profile
// carries no free-text preferences at all.
const fallbackQueryText = "well suited everyday vehicle"

// buildQueryText joins the free-text preference fragments of a profile into
// the text that gets embedded for vector retrieval.
func buildQueryText(p models.Profile) string {
	var parts []string
	if p.Habit != "" {
		parts = append(parts, p.Habit)
	}
	parts = append(parts, p.Colors...)
	parts = append(parts, p.Features...)
	if p.SafetyPriority != "" {
		parts = append(parts, fmt.Sprintf("safety priority %s", p.SafetyPriority))
	}
	if p.EnvironmentalPriority != "" {
		parts = append(parts, fmt.Sprintf("environmental priority %s", p.EnvironmentalPriority))
	}
	if p.CargoNeed != "" {
		parts = append(parts, p.CargoNeed)
	}

	if len(parts) == 0 {
		return fallbackQueryText
	}
	return strings.Join(parts, " ")
}

// buildFilters derives the structured retrieval predicates. Hard constraints
// (location, engine, condition, affordability window) become must filters;
// brand and body-type wishes only boost.
func buildFilters(p models.Profile, tolerance float64) models.SearchFilters {
	f := models.SearchFilters{
		State:              p.State,
		Zip:                p.Zip,
		EngineType:         p.EngineType,
		EcoFriendly:        p.EcoFriendly,
		PreferredBrands:    p.BrandPreference,
		PreferredBodyTypes: p.BodyTypes,
	}
	// "both" means no condition constraint at all.
	if p.ConditionPreference != "" && p.ConditionPreference != "both" {
		f.Condition = p.ConditionPreference
	}

	switch p.Finance.PaymentMethod {
	case "cash":
		if p.Finance.CashBudget != nil {
			f.PriceRange = affordabilityWindow(*p.Finance.CashBudget, tolerance)
		}
	case "loan", "lease":
		if p.Finance.MonthlyCapacity != nil {
			f.PaymentRange = affordabilityWindow(*p.Finance.MonthlyCapacity, tolerance)
		}
	}
	return f
}

func affordabilityWindow(center, tolerance float64) *models.RangeFilter {
	lo := center - tolerance
	if lo < 0 {
		lo = 0
	}
	return &models.RangeFilter{GTE: lo, LTE: center + tolerance}
}

// buildPreferences projects the profile onto the structured preference bundle
// the rule scorer consumes downstream.
func buildPreferences(p models.Profile) models.Preferences {
	pref := models.Preferences{
		EngineType:     p.EngineType,
		BodyTypes:      p.BodyTypes,
		PreferredMakes: p.BrandPreference,
	}
	if p.Finance.PaymentMethod == "cash" && p.Finance.CashBudget != nil {
		priceCap := *p.Finance.CashBudget
		pref.PriceMax = &priceCap
	}
	return pref
}
