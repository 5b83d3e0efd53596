// internal/workers/recommendation/refine-ranking/models.go
package refineranking

import (
	"autotrader-workers/internal/models"
)

type Input struct {
	Profile          models.Profile        `json:"profile"`
	RankedCandidates []models.CandidateHit `json:"rankedCandidates"`
	Strategy         string                `json:"strategy"`
}

type Output struct {
	RankedCandidates []models.CandidateHit `json:"rankedCandidates"`
	RerankApplied    bool                  `json:"rerankApplied"`
}
