// internal/workers/recommendation/score-vehicles/scoring.go
package scorevehicles

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"autotrader-workers/internal/models"
	"autotrader-workers/pkg/registry"
)

// Rule score weights. Additive and unbounded; only relative magnitude
// matters once min-max scaling is applied across the candidate set.
const (
	weightEngineMatch    = 3.0
	weightBodyTypeMatch  = 2.0
	weightUnderPriceCap  = 2.0
	weightPreferredMake  = 1.5
	weightPreferredModel = 1.0
	weightUseCaseKeyword = 1.5
	weightDrivingEnv     = 1.0

	weightBrandPriority   = 0.4
	weightMarginSignal    = 0.3
	weightInventorySignal = 0.3
	bonusPromotedBrand    = 0.15
	bonusPromotedModel    = 0.20

	marginClipLo    = 1500.0
	marginClipHi    = 9000.0
	inventoryClipLo = 5.0
	inventoryClipHi = 90.0
)

// ruleScore accumulates the deterministic preference score and its reason
// strings for one candidate.
func ruleScore(p models.CandidatePayload, pref models.Preferences, reasons *[]string) float64 {
	score := 0.0

	if pref.EngineType != "" && strings.EqualFold(p.EngineType, pref.EngineType) {
		score += weightEngineMatch
		*reasons = append(*reasons, fmt.Sprintf("EngineType match: %s", pref.EngineType))
	}

	for _, bt := range pref.BodyTypes {
		if strings.EqualFold(p.BodyType, bt) {
			score += weightBodyTypeMatch
			*reasons = append(*reasons, fmt.Sprintf("BodyType match: %s", bt))
			break
		}
	}

	if pref.PriceMax != nil && p.Price > 0 && p.Price <= *pref.PriceMax {
		score += weightUnderPriceCap
		*reasons = append(*reasons, fmt.Sprintf("Price ≤ %.0f", *pref.PriceMax))
	}

	for _, mk := range pref.PreferredMakes {
		if strings.EqualFold(p.Make, mk) {
			score += weightPreferredMake
			*reasons = append(*reasons, fmt.Sprintf("Preferred make: %s", p.Make))
			break
		}
	}

	for _, model := range pref.PreferredModels {
		if strings.EqualFold(p.Model, model) {
			score += weightPreferredModel
			*reasons = append(*reasons, fmt.Sprintf("Preferred model: %s", p.Model))
			break
		}
	}

	if pref.UseCaseKeyword != "" &&
		strings.Contains(strings.ToLower(p.Description), strings.ToLower(pref.UseCaseKeyword)) {
		score += weightUseCaseKeyword
		*reasons = append(*reasons, fmt.Sprintf("Use case: %s", pref.UseCaseKeyword))
	}

	if pref.DrivingEnvironment != "" && strings.EqualFold(p.DrivingEnvironment, pref.DrivingEnvironment) {
		score += weightDrivingEnv
		*reasons = append(*reasons, fmt.Sprintf("Driving environment: %s", pref.DrivingEnvironment))
	}

	return score
}

// businessScore blends commercial signals with promotion bonuses. The whole
// expression, flat bonuses included, is multiplied by the campaign
// multiplier.
func businessScore(p models.CandidatePayload, biz registry.BusinessConfig, reasons *[]string) float64 {
	score := weightBrandPriority*p.BrandPriorityOrDefault() +
		weightMarginSignal*clipNorm(p.MarginOrDefault(), marginClipLo, marginClipHi) +
		weightInventorySignal*clipNorm(p.InventoryDaysOrDefault(), inventoryClipLo, inventoryClipHi)

	for _, brand := range biz.PromotedBrands {
		if strings.EqualFold(p.Make, brand) {
			score += bonusPromotedBrand
			*reasons = append(*reasons, fmt.Sprintf("Promoted brand: %s", p.Make))
			break
		}
	}

	for _, model := range biz.PromotedModels {
		if strings.EqualFold(p.Model, model) {
			score += bonusPromotedModel
			*reasons = append(*reasons, fmt.Sprintf("Promoted model: %s", p.Model))
			break
		}
	}

	multiplier := biz.CampaignMultiplier
	if multiplier == 0 {
		multiplier = 1.0
	}
	return score * multiplier
}

// candidateText synthesizes the text embedded for semantic comparison:
// description | engine_type body_type [use_case].
func candidateText(p models.CandidatePayload) string {
	meta := strings.TrimSpace(p.EngineType + " " + p.BodyType)
	if p.UseCase != "" {
		meta = strings.TrimSpace(meta + " " + p.UseCase)
	}
	return strings.Trim(p.Description+" | "+meta, " |")
}

// cosine computes cosine similarity between two vectors, 0 when either is
// degenerate.
func cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

// clipNorm clamps x into [lo, hi] and rescales to [0, 1].
func clipNorm(x, lo, hi float64) float64 {
	if x < lo {
		x = lo
	}
	if x > hi {
		x = hi
	}
	return (x - lo) / (hi - lo)
}

// minmaxScale rescales values to [0, 1] across the set. A constant set maps
// every element to the neutral midpoint 0.5, which is the documented
// tie-breaking policy, not a numerical artifact.
func minmaxScale(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	scaled := make([]float64, len(values))
	if lo == hi {
		for i := range scaled {
			scaled[i] = 0.5
		}
		return scaled
	}

	for i, v := range values {
		scaled[i] = (v - lo) / (hi - lo)
	}
	return scaled
}
