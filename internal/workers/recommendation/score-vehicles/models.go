// internal/workers/recommendation/score-vehicles/models.go
package scorevehicles

import (
	"autotrader-workers/internal/models"
	"autotrader-workers/pkg/registry"
)

type Input struct {
	Candidates  []models.CandidateHit `json:"candidates"`
	QueryText   string                `json:"queryText"`
	Preferences models.Preferences    `json:"preferences"`
	Strategy    string                `json:"strategy"`

	// BusinessOverride tweaks the campaign table per request (promoted
	// lists, multiplier). Zero-valued fields keep the table values.
	BusinessOverride *registry.BusinessConfig `json:"businessOverride,omitempty"`
}

type Output struct {
	RankedCandidates []models.CandidateHit `json:"rankedCandidates"`
}
