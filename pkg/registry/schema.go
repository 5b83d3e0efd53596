// pkg/registry/schema.go
package registry

// MaintenanceRate is the per-make annual maintenance baseline and its
// year-over-year escalation multiplier.
type MaintenanceRate struct {
	BaseAnnual float64 `json:"baseAnnual"`
	Escalation float64 `json:"escalation"`
}

// RegionConfig holds the per-state economic constants used by the TCO
// calculator. Loaded once at process start; read-only afterwards.
type RegionConfig struct {
	State             string                     `json:"state"`
	TaxRate           float64                    `json:"taxRate"`
	RegistrationFee   float64                    `json:"registrationFee"`
	FuelPrice         float64                    `json:"fuelPrice"`        // USD per gallon
	ElectricityPrice  float64                    `json:"electricityPrice"` // USD per kWh
	InsuranceBaseRate float64                    `json:"insuranceBaseRate"`
	ParkingFee        float64                    `json:"parkingFee"` // per year
	TollFee           float64                    `json:"tollFee"`    // per year
	ParkingEscalation float64                    `json:"parkingEscalation"`
	TollEscalation    float64                    `json:"tollEscalation"`
	Maintenance       map[string]MaintenanceRate `json:"maintenance"`
}

// StrategyConfig is a named weighting scheme for the hybrid ranking blend.
// Weights are not required to sum to 1 but conventionally do.
type StrategyConfig struct {
	WeightRetrieval float64 `json:"wR"`
	WeightPersonal  float64 `json:"wP"`
	WeightBusiness  float64 `json:"wB"`
	GammaRule       float64 `json:"gammaRule"` // rule-vs-semantic split inside wP
}

// BusinessConfig is campaign-specific promotion data, independent of the
// ranking weights themselves.
type BusinessConfig struct {
	Campaign           string   `json:"campaign"`
	PromotedBrands     []string `json:"promotedBrands"`
	PromotedModels     []string `json:"promotedModels"`
	InventoryDays      float64  `json:"inventoryDays"`
	SeasonalDiscount   float64  `json:"seasonalDiscount"`
	PriorityRegions    []string `json:"priorityRegions"`
	CampaignMultiplier float64  `json:"campaignMultiplier"`
}

// PricingRegistry bundles the three static configuration tables.
type PricingRegistry struct {
	Version    string                    `json:"version"`
	Regions    map[string]RegionConfig   `json:"regions"`
	Strategies map[string]StrategyConfig `json:"strategies"`
	Campaigns  map[string]BusinessConfig `json:"campaigns"`
}
