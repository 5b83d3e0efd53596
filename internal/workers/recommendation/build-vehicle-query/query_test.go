// internal/workers/recommendation/build-vehicle-query/query_test.go
package buildvehiclequery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autotrader-workers/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestBuildQueryText_JoinsAllFragments(t *testing.T) {
	p := models.Profile{
		Habit:                 "daily city commute",
		Colors:                []string{"white", "silver"},
		Features:              []string{"sunroof"},
		SafetyPriority:        "high",
		EnvironmentalPriority: "medium",
		CargoNeed:             "weekend camping gear",
	}

	got := buildQueryText(p)

	assert.Equal(t,
		"daily city commute white silver sunroof safety priority high environmental priority medium weekend camping gear",
		got)
}

func TestBuildQueryText_EmptyProfileGetsFallback(t *testing.T) {
	assert.Equal(t, fallbackQueryText, buildQueryText(models.Profile{}))
}

func TestBuildFilters_CashBudgetWindow(t *testing.T) {
	p := models.Profile{
		State:      "TX",
		Zip:        "75001",
		EngineType: "hybrid",
		Finance: models.Finance{
			PaymentMethod: "cash",
			CashBudget:    floatPtr(28000),
		},
	}

	f := buildFilters(p, 500)

	assert.Equal(t, "TX", f.State)
	assert.Equal(t, "75001", f.Zip)
	assert.Equal(t, "hybrid", f.EngineType)
	require.NotNil(t, f.PriceRange)
	assert.Equal(t, 27500.0, f.PriceRange.GTE)
	assert.Equal(t, 28500.0, f.PriceRange.LTE)
	assert.Nil(t, f.PaymentRange)
}

func TestBuildFilters_LeaseUsesPaymentWindow(t *testing.T) {
	p := models.Profile{
		Finance: models.Finance{
			PaymentMethod:   "lease",
			MonthlyCapacity: floatPtr(450),
		},
	}

	f := buildFilters(p, 500)

	require.NotNil(t, f.PaymentRange)
	assert.Equal(t, 0.0, f.PaymentRange.GTE, "window floor clamps at zero")
	assert.Equal(t, 950.0, f.PaymentRange.LTE)
	assert.Nil(t, f.PriceRange)
}

func TestBuildFilters_MissingBudgetMeansNoWindow(t *testing.T) {
	f := buildFilters(models.Profile{
		Finance: models.Finance{PaymentMethod: "cash"},
	}, 500)

	assert.Nil(t, f.PriceRange)
	assert.Nil(t, f.PaymentRange)
}

func TestBuildFilters_ConditionBothIsUnconstrained(t *testing.T) {
	assert.Empty(t, buildFilters(models.Profile{ConditionPreference: "both"}, 500).Condition)
	assert.Equal(t, "used", buildFilters(models.Profile{ConditionPreference: "used"}, 500).Condition)
}

func TestBuildFilters_EcoFriendlyFalseIsStillAFilter(t *testing.T) {
	f := buildFilters(models.Profile{EcoFriendly: boolPtr(false)}, 500)

	require.NotNil(t, f.EcoFriendly)
	assert.False(t, *f.EcoFriendly)
}

func TestBuildPreferences(t *testing.T) {
	p := models.Profile{
		EngineType:      "electric",
		BodyTypes:       []string{"SUV", "wagon"},
		BrandPreference: []string{"Toyota"},
		Finance: models.Finance{
			PaymentMethod: "cash",
			CashBudget:    floatPtr(40000),
		},
	}

	pref := buildPreferences(p)

	assert.Equal(t, "electric", pref.EngineType)
	assert.Equal(t, []string{"SUV", "wagon"}, pref.BodyTypes)
	assert.Equal(t, []string{"Toyota"}, pref.PreferredMakes)
	require.NotNil(t, pref.PriceMax)
	assert.Equal(t, 40000.0, *pref.PriceMax)
}

func TestBuildPreferences_FinancedBuyerHasNoPriceCap(t *testing.T) {
	pref := buildPreferences(models.Profile{
		Finance: models.Finance{PaymentMethod: "loan", MonthlyCapacity: floatPtr(500)},
	})

	assert.Nil(t, pref.PriceMax)
}

func TestExecute_ProducesAllThreeOutputs(t *testing.T) {
	h := &Handler{config: LoadConfig()}

	out := h.Execute(&Input{Profile: models.Profile{
		State: "CA",
		Habit: "long highway trips",
		Finance: models.Finance{
			PaymentMethod: "cash",
			CashBudget:    floatPtr(30000),
		},
	}})

	assert.Equal(t, "long highway trips", out.QueryText)
	assert.Equal(t, "CA", out.Filters.State)
	require.NotNil(t, out.Preferences.PriceMax)
	assert.Equal(t, 30000.0, *out.Preferences.PriceMax)
}
