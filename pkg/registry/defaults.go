// pkg/registry/defaults.go
package registry

// Defaults returns the built-in pricing registry. The numbers mirror the
// seed dataset shipped with the service; deployments override them with a
// registry file.
func Defaults() *PricingRegistry {
	return &PricingRegistry{
		Version: "builtin",
		Regions: map[string]RegionConfig{
			"CA": {
				State:             "CA",
				TaxRate:           0.0725,
				RegistrationFee:   600,
				FuelPrice:         5.2,
				ElectricityPrice:  0.28,
				InsuranceBaseRate: 0.045,
				ParkingFee:        1800,
				TollFee:           900,
				ParkingEscalation: 1.06,
				TollEscalation:    1.04,
				Maintenance: map[string]MaintenanceRate{
					"Toyota": {BaseAnnual: 420, Escalation: 1.12},
					"Ford":   {BaseAnnual: 950, Escalation: 1.2},
					"Honda":  {BaseAnnual: 480, Escalation: 1.13},
					"Tesla":  {BaseAnnual: 350, Escalation: 1.09},
					"BMW":    {BaseAnnual: 1200, Escalation: 1.25},
				},
			},
			"NY": {
				State:             "NY",
				TaxRate:           0.08875,
				RegistrationFee:   750,
				FuelPrice:         4.9,
				ElectricityPrice:  0.32,
				InsuranceBaseRate: 0.055,
				ParkingFee:        3200,
				TollFee:           1800,
				ParkingEscalation: 1.08,
				TollEscalation:    1.05,
				Maintenance: map[string]MaintenanceRate{
					"Toyota": {BaseAnnual: 450, Escalation: 1.13},
					"Ford":   {BaseAnnual: 1000, Escalation: 1.22},
					"Honda":  {BaseAnnual: 500, Escalation: 1.15},
					"Tesla":  {BaseAnnual: 370, Escalation: 1.1},
					"BMW":    {BaseAnnual: 1300, Escalation: 1.28},
				},
			},
			"TX": {
				State:             "TX",
				TaxRate:           0.0625,
				RegistrationFee:   350,
				FuelPrice:         3.7,
				ElectricityPrice:  0.14,
				InsuranceBaseRate: 0.038,
				ParkingFee:        700,
				TollFee:           400,
				ParkingEscalation: 1.03,
				TollEscalation:    1.02,
				Maintenance: map[string]MaintenanceRate{
					"Toyota": {BaseAnnual: 390, Escalation: 1.1},
					"Ford":   {BaseAnnual: 800, Escalation: 1.18},
					"Honda":  {BaseAnnual: 420, Escalation: 1.12},
					"Tesla":  {BaseAnnual: 340, Escalation: 1.08},
					"BMW":    {BaseAnnual: 1100, Escalation: 1.22},
				},
			},
		},
		Strategies: map[string]StrategyConfig{
			"default":     {WeightRetrieval: 0.5, WeightPersonal: 0.3, WeightBusiness: 0.2, GammaRule: 0.5},
			"sales_boost": {WeightRetrieval: 0.3, WeightPersonal: 0.2, WeightBusiness: 0.5, GammaRule: 0.4},
			"loyalty":     {WeightRetrieval: 0.4, WeightPersonal: 0.5, WeightBusiness: 0.1, GammaRule: 0.6},
			"new_launch":  {WeightRetrieval: 0.2, WeightPersonal: 0.3, WeightBusiness: 0.5, GammaRule: 0.4},
		},
		Campaigns: map[string]BusinessConfig{
			"default": {
				Campaign:           "default",
				InventoryDays:      20,
				SeasonalDiscount:   1.0,
				CampaignMultiplier: 1.0,
			},
			"sales_boost": {
				Campaign:           "sales_boost",
				PromotedBrands:     []string{"Honda", "Toyota"},
				InventoryDays:      15,
				SeasonalDiscount:   0.9,
				PriorityRegions:    []string{"CA", "NY"},
				CampaignMultiplier: 1.0,
			},
			"new_launch": {
				Campaign:           "new_launch",
				PromotedBrands:     []string{"Toyota"},
				PromotedModels:     []string{"Corolla Hybrid 2022"},
				InventoryDays:      10,
				SeasonalDiscount:   1.0,
				PriorityRegions:    []string{"CA", "TX"},
				CampaignMultiplier: 1.2,
			},
			"loyalty": {
				Campaign:           "loyalty",
				PromotedBrands:     []string{"Toyota", "Honda"},
				InventoryDays:      25,
				SeasonalDiscount:   0.95,
				CampaignMultiplier: 0.9,
			},
		},
	}
}
