// internal/workers/recommendation/build-vehicle-query/models.go
package buildvehiclequery

import (
	"autotrader-workers/internal/models"
)

type Input struct {
	Profile models.Profile `json:"profile"`
}

type Output struct {
	QueryText   string               `json:"queryText"`
	Filters     models.SearchFilters `json:"searchFilters"`
	Preferences models.Preferences   `json:"preferences"`
}
