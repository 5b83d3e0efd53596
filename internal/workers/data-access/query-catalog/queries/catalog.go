// internal/workers/data-access/query-catalog/queries/catalog.go
package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"autotrader-workers/internal/models"
)

const vehicleColumns = `id, year, make, model, trim, color, body_type, fuel_type,
	drivetrain, transmission, base_price, monthly_payment, mpg, kwh_per_mile,
	seats, state, zip, condition, description`

const voucherColumns = `id, title, description, conditions_apply_text, valid_until,
	type, value, applicable_makes, applicable_models, applicable_years,
	excluded_trims, member_levels, min_vehicle_price`

// CatalogSnapshot returns the full vehicle and voucher catalog in one pass,
// the shape the budget-filter stage consumes.
func CatalogSnapshot(ctx context.Context, db *sql.DB, params map[string]interface{}) (*Result, error) {
	start := time.Now()

	vehicles, err := queryVehicles(ctx, db, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	vouchers, err := queryVouchers(ctx, db, `SELECT `+voucherColumns+` FROM vouchers ORDER BY id`)
	if err != nil {
		return nil, err
	}

	return &Result{
		Vehicles:      vehicles,
		Vouchers:      vouchers,
		RowCount:      len(vehicles) + len(vouchers),
		ExecutionTime: time.Since(start).Milliseconds(),
	}, nil
}

// VehiclesByIDs narrows the snapshot to the candidate ids retrieved from the
// vector index.
func VehiclesByIDs(ctx context.Context, db *sql.DB, params map[string]interface{}) (*Result, error) {
	ids, ok := params["vehicleIds"].([]string)
	if !ok || len(ids) == 0 {
		return nil, ErrMissingParam
	}

	start := time.Now()
	vehicles, err := queryVehicles(ctx, db,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = ANY($1) ORDER BY id`, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	return &Result{
		Vehicles:      vehicles,
		RowCount:      len(vehicles),
		ExecutionTime: time.Since(start).Milliseconds(),
	}, nil
}

// ActiveVouchers returns vouchers whose expiry date has not passed. The
// worker layer still re-checks validity per request, this only trims the
// obviously dead ones.
func ActiveVouchers(ctx context.Context, db *sql.DB, params map[string]interface{}) (*Result, error) {
	start := time.Now()
	vouchers, err := queryVouchers(ctx, db,
		`SELECT `+voucherColumns+` FROM vouchers WHERE valid_until >= CURRENT_DATE ORDER BY id`)
	if err != nil {
		return nil, err
	}

	return &Result{
		Vouchers:      vouchers,
		RowCount:      len(vouchers),
		ExecutionTime: time.Since(start).Milliseconds(),
	}, nil
}

func queryVehicles(ctx context.Context, db *sql.DB, query string, args ...interface{}) ([]models.Vehicle, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		err := rows.Scan(
			&v.ID, &v.Year, &v.Make, &v.Model, &v.Trim, &v.Color,
			&v.BodyType, &v.FuelType, &v.Drivetrain, &v.Transmission,
			&v.BasePrice, &v.MonthlyPayment, &v.MPG, &v.KWhPerMile,
			&v.Seats, &v.State, &v.Zip, &v.Condition, &v.Description,
		)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func queryVouchers(ctx context.Context, db *sql.DB, query string, args ...interface{}) ([]models.Voucher, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vouchers []models.Voucher
	for rows.Next() {
		var v models.Voucher
		var years pq.Int64Array
		err := rows.Scan(
			&v.ID, &v.Title, &v.Description, &v.Conditions, &v.ValidUntil,
			&v.Kind, &v.Value,
			pq.Array(&v.ApplicableMakes), pq.Array(&v.ApplicableModels), &years,
			pq.Array(&v.ExcludedTrims), pq.Array(&v.MemberLevels),
			&v.MinVehiclePrice,
		)
		if err != nil {
			return nil, err
		}
		v.ApplicableYears = make([]int, len(years))
		for i, y := range years {
			v.ApplicableYears[i] = int(y)
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, rows.Err()
}
