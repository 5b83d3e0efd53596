// internal/workers/data-access/query-catalog/queries/registry.go
package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"autotrader-workers/internal/models"
)

const (
	QueryTypeCatalogSnapshot = "catalog_snapshot"
	QueryTypeVehiclesByIDs   = "vehicles_by_ids"
	QueryTypeActiveVouchers  = "active_vouchers"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

// Result carries whichever catalog slices the query produced.
type Result struct {
	Vehicles      []models.Vehicle
	Vouchers      []models.Voucher
	RowCount      int
	ExecutionTime int64 // milliseconds
}

type QueryFunc func(ctx context.Context, db *sql.DB, params map[string]interface{}) (*Result, error)

var Registry = map[string]QueryFunc{
	QueryTypeCatalogSnapshot: CatalogSnapshot,
	QueryTypeVehiclesByIDs:   VehiclesByIDs,
	QueryTypeActiveVouchers:  ActiveVouchers,
}

func Execute(ctx context.Context, db *sql.DB, queryType string, params map[string]interface{}) (*Result, error) {
	fn, exists := Registry[queryType]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}
	return fn(ctx, db, params)
}
