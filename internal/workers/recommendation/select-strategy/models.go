// internal/workers/recommendation/select-strategy/models.go
package selectstrategy

type Input struct {
	Campaign         string   `json:"campaign,omitempty"`
	CustomerTier     string   `json:"customerTier,omitempty"`
	AvgInventoryDays *float64 `json:"avgInventoryDays,omitempty"`
}

type Output struct {
	Strategy string `json:"strategy"`
}
