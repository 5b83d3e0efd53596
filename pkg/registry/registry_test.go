// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	reg, err := Load("")
	require.NoError(t, err)

	assert.Len(t, reg.Regions, 3)
	assert.Contains(t, reg.Strategies, "default")
	assert.Contains(t, reg.Campaigns, "default")
}

func TestLoadMergesFileTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	content := `{
		"version": "test",
		"regions": {
			"WA": {
				"state": "WA",
				"taxRate": 0.065,
				"registrationFee": 300,
				"fuelPrice": 4.1,
				"electricityPrice": 0.11,
				"insuranceBaseRate": 0.04,
				"parkingFee": 900,
				"tollFee": 500,
				"parkingEscalation": 1.04,
				"tollEscalation": 1.03,
				"maintenance": {}
			}
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	reg, err := Load(path)
	require.NoError(t, err)

	// Regions table fully replaced, strategies kept from defaults.
	_, err = reg.Region("TX")
	assert.Error(t, err)
	wa, err := reg.Region("WA")
	require.NoError(t, err)
	assert.Equal(t, 0.065, wa.TaxRate)
	assert.Equal(t, 0.5, reg.Strategy("default").WeightRetrieval)
}

func TestRegionUnknownStateIsHardError(t *testing.T) {
	reg, err := Load("")
	require.NoError(t, err)

	_, err = reg.Region("ZZ")
	assert.ErrorContains(t, err, "no region config found for state ZZ")
}

func TestStrategyFallsBackToDefault(t *testing.T) {
	reg, err := Load("")
	require.NoError(t, err)

	got := reg.Strategy("does-not-exist")
	assert.Equal(t, reg.Strategies["default"], got)
}

func TestBusinessMergeOverride(t *testing.T) {
	reg, err := Load("")
	require.NoError(t, err)

	override := &BusinessConfig{
		PromotedBrands:     []string{"Subaru"},
		CampaignMultiplier: 1.5,
	}
	got := reg.Business("new_launch", override)

	assert.Equal(t, []string{"Subaru"}, got.PromotedBrands)
	assert.Equal(t, 1.5, got.CampaignMultiplier)
	// Untouched fields keep the table values.
	assert.Equal(t, []string{"Corolla Hybrid 2022"}, got.PromotedModels)
}

func TestMaintenanceForUnknownMakeUsesDefault(t *testing.T) {
	reg, err := Load("")
	require.NoError(t, err)

	tx, err := reg.Region("TX")
	require.NoError(t, err)

	rate := tx.MaintenanceFor("Rivian")
	assert.Equal(t, 800.0, rate.BaseAnnual)
	assert.Equal(t, 1.2, rate.Escalation)

	toyota := tx.MaintenanceFor("Toyota")
	assert.Equal(t, 390.0, toyota.BaseAnnual)
}
