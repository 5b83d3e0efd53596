// internal/workers/data-access/search-vehicles/models.go
package searchvehicles

import (
	"autotrader-workers/internal/models"
)

type Input struct {
	QueryText string               `json:"queryText"`
	Filters   models.SearchFilters `json:"searchFilters"`
	Limit     int                  `json:"limit,omitempty"`
}

type Output struct {
	Candidates []models.CandidateHit `json:"candidates"`
	TotalHits  int64                 `json:"totalHits"`
	Took       int64                 `json:"took"` // milliseconds
}
