// internal/models/candidate.go
package models

// CandidatePayload is the explicit schema for the loosely-typed document
// stored in the vector index. Optional business-signal fields are pointers
// so that "absent" and "zero" stay distinguishable; defaults are applied
// through the *OrDefault accessors at the scoring boundary.
type CandidatePayload struct {
	Year               int     `json:"year"`
	Make               string  `json:"make"`
	Model              string  `json:"model"`
	Trim               string  `json:"trim"`
	Color              string  `json:"color"`
	State              string  `json:"state"`
	Zip                string  `json:"zip"`
	BodyType           string  `json:"bodyType"`
	EngineType         string  `json:"engineType"`
	UseCase            string  `json:"useCase"`
	DrivingEnvironment string  `json:"drivingEnvironment"`
	Description        string  `json:"description"`
	Price              float64 `json:"price"`
	MonthlyPayment     float64 `json:"monthlyPayment"`
	Condition          string  `json:"condition"`
	EcoFriendly        bool    `json:"ecoFriendly"`

	BrandPriority *float64 `json:"brandPriority,omitempty"`
	MarginUSD     *float64 `json:"marginUsd,omitempty"`
	InventoryDays *float64 `json:"inventoryDays,omitempty"`
}

// Defaults for missing business-signal columns.
const (
	DefaultBrandPriority = 0.4
	DefaultMarginUSD     = 3000.0
	DefaultInventoryDays = 20.0
)

func (p CandidatePayload) BrandPriorityOrDefault() float64 {
	if p.BrandPriority == nil {
		return DefaultBrandPriority
	}
	return *p.BrandPriority
}

func (p CandidatePayload) MarginOrDefault() float64 {
	if p.MarginUSD == nil {
		return DefaultMarginUSD
	}
	return *p.MarginUSD
}

func (p CandidatePayload) InventoryDaysOrDefault() float64 {
	if p.InventoryDays == nil {
		return DefaultInventoryDays
	}
	return *p.InventoryDays
}

// CandidateHit is one retrieved vehicle plus its in-progress scores during a
// single ranking pass. The scoring worker fills the sub-scores and reasons;
// the hit is discarded once the ranked response is assembled.
type CandidateHit struct {
	ID         string           `json:"id"`
	Similarity float64          `json:"similarity"`
	Payload    CandidatePayload `json:"payload"`

	RuleScore     float64  `json:"ruleScore"`
	SemanticScore float64  `json:"semanticScore"`
	BusinessScore float64  `json:"businessScore"`
	FinalScore    float64  `json:"finalScore"`
	Reasons       []string `json:"reasons,omitempty"`
}

// BreakdownItem is one TCO cost category with the inputs that produced it.
// A TCO total always equals the sum of its item values.
type BreakdownItem struct {
	Value       float64                `json:"value"`
	Explanation map[string]interface{} `json:"explanation"`
}
