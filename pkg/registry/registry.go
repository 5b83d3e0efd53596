// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a pricing registry from disk. Tables present in the file
// replace the built-in defaults table-by-table; absent tables keep the
// defaults so a partial registry file stays usable.
func Load(path string) (*PricingRegistry, error) {
	reg := Defaults()
	if path == "" {
		return reg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pricing registry: %w", err)
	}

	var file PricingRegistry
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse pricing registry: %w", err)
	}

	if file.Version != "" {
		reg.Version = file.Version
	}
	if len(file.Regions) > 0 {
		reg.Regions = file.Regions
	}
	if len(file.Strategies) > 0 {
		reg.Strategies = file.Strategies
	}
	if len(file.Campaigns) > 0 {
		reg.Campaigns = file.Campaigns
	}

	if _, ok := reg.Strategies["default"]; !ok {
		return nil, fmt.Errorf("pricing registry: strategies table has no %q entry", "default")
	}
	if _, ok := reg.Campaigns["default"]; !ok {
		return nil, fmt.Errorf("pricing registry: campaigns table has no %q entry", "default")
	}
	return reg, nil
}

// Region resolves the economic constants for a state. There is no sane
// default region, so an unknown state is a hard configuration error.
func (r *PricingRegistry) Region(state string) (RegionConfig, error) {
	cfg, ok := r.Regions[state]
	if !ok {
		return RegionConfig{}, fmt.Errorf("no region config found for state %s", state)
	}
	return cfg, nil
}

// Strategy resolves a named weighting scheme, falling back to "default"
// for unknown names.
func (r *PricingRegistry) Strategy(name string) StrategyConfig {
	if cfg, ok := r.Strategies[name]; ok {
		return cfg
	}
	return r.Strategies["default"]
}

// Business resolves the campaign config for a strategy name, falling back
// to "default", and merges a per-request override on top. Only non-zero
// override fields replace the table values.
func (r *PricingRegistry) Business(name string, override *BusinessConfig) BusinessConfig {
	cfg, ok := r.Campaigns[name]
	if !ok {
		cfg = r.Campaigns["default"]
	}
	if override != nil {
		if len(override.PromotedBrands) > 0 {
			cfg.PromotedBrands = override.PromotedBrands
		}
		if len(override.PromotedModels) > 0 {
			cfg.PromotedModels = override.PromotedModels
		}
		if override.CampaignMultiplier != 0 {
			cfg.CampaignMultiplier = override.CampaignMultiplier
		}
		if len(override.PriorityRegions) > 0 {
			cfg.PriorityRegions = override.PriorityRegions
		}
	}
	return cfg
}

// MaintenanceFor looks up the maintenance rate for a make, substituting the
// documented default for makes absent from the table.
func (c RegionConfig) MaintenanceFor(make string) MaintenanceRate {
	if rate, ok := c.Maintenance[make]; ok {
		return rate
	}
	return MaintenanceRate{BaseAnnual: 800, Escalation: 1.2}
}
