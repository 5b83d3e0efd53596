// internal/workers/recommendation/score-vehicles/scoring_test.go
package scorevehicles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"autotrader-workers/internal/models"
	"autotrader-workers/pkg/registry"
)

func TestMinmaxScale(t *testing.T) {
	t.Run("distinct values span zero to one", func(t *testing.T) {
		out := minmaxScale([]float64{2, 4, 6})
		assert.Equal(t, []float64{0, 0.5, 1}, out)
	})

	t.Run("constant set collapses to neutral midpoint", func(t *testing.T) {
		out := minmaxScale([]float64{3, 3, 3, 3})
		assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5}, out)
	})

	t.Run("single element is midpoint", func(t *testing.T) {
		assert.Equal(t, []float64{0.5}, minmaxScale([]float64{42}))
	})

	t.Run("empty set short-circuits", func(t *testing.T) {
		assert.Nil(t, minmaxScale(nil))
	})
}

func TestClipNorm(t *testing.T) {
	assert.Equal(t, 0.0, clipNorm(1000, 1500, 9000))
	assert.Equal(t, 1.0, clipNorm(12000, 1500, 9000))
	assert.InDelta(t, 0.2, clipNorm(3000, 1500, 9000), 1e-9)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosine([]float64{0, 0}, []float64{1, 1}))
	assert.Equal(t, 0.0, cosine(nil, []float64{1}))
}

func suvPayload() models.CandidatePayload {
	return models.CandidatePayload{
		Make:               "Toyota",
		Model:              "RAV4",
		BodyType:           "SUV",
		EngineType:         "hybrid",
		Price:              32000,
		Description:        "Spacious hybrid SUV, great for family trips",
		DrivingEnvironment: "city",
	}
}

func TestRuleScore_AllCriteriaMatch(t *testing.T) {
	cap := 35000.0
	pref := models.Preferences{
		EngineType:         "Hybrid",
		BodyTypes:          []string{"suv"},
		PriceMax:           &cap,
		PreferredMakes:     []string{"toyota"},
		PreferredModels:    []string{"RAV4"},
		UseCaseKeyword:     "family",
		DrivingEnvironment: "City",
	}

	var reasons []string
	score := ruleScore(suvPayload(), pref, &reasons)

	// 3 + 2 + 2 + 1.5 + 1 + 1.5 + 1
	assert.InDelta(t, 12.0, score, 1e-9)
	assert.Len(t, reasons, 7)
}

func TestRuleScore_NoPreferences(t *testing.T) {
	var reasons []string
	assert.Equal(t, 0.0, ruleScore(suvPayload(), models.Preferences{}, &reasons))
	assert.Empty(t, reasons)
}

func TestRuleScore_PriceAboveCapScoresNothing(t *testing.T) {
	cap := 30000.0
	var reasons []string
	score := ruleScore(suvPayload(), models.Preferences{PriceMax: &cap}, &reasons)
	assert.Equal(t, 0.0, score)
}

func TestBusinessScore_DefaultSignals(t *testing.T) {
	var reasons []string
	score := businessScore(models.CandidatePayload{Make: "Kia"}, registry.BusinessConfig{CampaignMultiplier: 1.0}, &reasons)

	// 0.4*0.4 + 0.3*((3000-1500)/7500) + 0.3*((20-5)/85)
	want := 0.4*0.4 + 0.3*0.2 + 0.3*(15.0/85.0)
	assert.InDelta(t, want, score, 1e-9)
}

func TestBusinessScore_MultiplierCoversBonuses(t *testing.T) {
	biz := registry.BusinessConfig{
		PromotedBrands:     []string{"Toyota"},
		PromotedModels:     []string{"RAV4"},
		CampaignMultiplier: 2.0,
	}

	var reasons []string
	score := businessScore(suvPayload(), biz, &reasons)

	base := 0.4*0.4 + 0.3*0.2 + 0.3*(15.0/85.0)
	assert.InDelta(t, (base+0.15+0.20)*2.0, score, 1e-9)
	assert.Contains(t, reasons, "Promoted brand: Toyota")
	assert.Contains(t, reasons, "Promoted model: RAV4")
}

func TestBusinessScore_ZeroMultiplierMeansNoScaling(t *testing.T) {
	var reasons []string
	score := businessScore(models.CandidatePayload{}, registry.BusinessConfig{}, &reasons)
	assert.Greater(t, score, 0.0)
}

func TestCandidateText(t *testing.T) {
	p := models.CandidatePayload{
		Description: "Compact city car",
		EngineType:  "gas",
		BodyType:    "hatchback",
	}
	assert.Equal(t, "Compact city car | gas hatchback", candidateText(p))

	p.UseCase = "commuting"
	assert.Equal(t, "Compact city car | gas hatchback commuting", candidateText(p))
}
