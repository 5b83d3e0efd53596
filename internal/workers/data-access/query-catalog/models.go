// internal/workers/data-access/query-catalog/models.go
package querycatalog

import (
	"autotrader-workers/internal/models"
)

type Input struct {
	QueryType  string   `json:"queryType"`
	VehicleIDs []string `json:"vehicleIds,omitempty"`
}

type Output struct {
	Vehicles           []models.Vehicle `json:"vehicles,omitempty"`
	Vouchers           []models.Voucher `json:"vouchers,omitempty"`
	RowCount           int              `json:"rowCount"`
	QueryExecutionTime int64            `json:"queryExecutionTime"` // milliseconds
	CacheHit           bool             `json:"cacheHit"`
}
