package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/railsuraksha/railsuraksha/internal/model"
)

const fittingColumns = `id, batch_id, vendor, item_type, zone, location,
	manufacture_date, supply_date, warranty_status, risk_level, last_scanned, status`

func scanFitting(row interface{ Scan(...any) error }, f *model.Fitting) error {
	return row.Scan(&f.ID, &f.BatchID, &f.Vendor, &f.ItemType, &f.Zone, &f.Location,
		&f.ManufactureDate, &f.SupplyDate, &f.WarrantyStatus, &f.RiskLevel, &f.LastScanned, &f.Status)
}

// ListFittings returns every tracked fitting ordered by ID.
func ListFittings(ctx context.Context, db *sql.DB) ([]model.Fitting, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+fittingColumns+` FROM fittings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing fittings: %w", err)
	}
	defer rows.Close()

	var fittings []model.Fitting
	for rows.Next() {
		var f model.Fitting
		if err := scanFitting(rows, &f); err != nil {
			return nil, fmt.Errorf("scanning fitting: %w", err)
		}
		fittings = append(fittings, f)
	}
	return fittings, rows.Err()
}

// GetFitting returns a fitting by ID.
func GetFitting(ctx context.Context, db *sql.DB, id string) (*model.Fitting, error) {
	f := &model.Fitting{}
	err := scanFitting(db.QueryRowContext(ctx, `SELECT `+fittingColumns+` FROM fittings WHERE id = ?`, id), f)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting fitting: %w", err)
	}
	return f, nil
}

// GetFittingByBatch returns the fitting with the given batch ID.
func GetFittingByBatch(ctx context.Context, db *sql.DB, batchID string) (*model.Fitting, error) {
	f := &model.Fitting{}
	err := scanFitting(db.QueryRowContext(ctx, `SELECT `+fittingColumns+` FROM fittings WHERE batch_id = ? LIMIT 1`, batchID), f)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting fitting by batch: %w", err)
	}
	return f, nil
}

// Facets lists the distinct values offered by the categorical filters.
type Facets struct {
	Zones   []string `json:"zones"`
	Vendors []string `json:"vendors"`
}

// FittingFacets returns the distinct zones and vendors in the inventory.
func FittingFacets(ctx context.Context, db *sql.DB) (*Facets, error) {
	zones, err := distinct(ctx, db, "zone")
	if err != nil {
		return nil, err
	}
	vendors, err := distinct(ctx, db, "vendor")
	if err != nil {
		return nil, err
	}
	return &Facets{Zones: zones, Vendors: vendors}, nil
}

// distinct returns the sorted distinct values of a fittings column. column
// is never user input.
func distinct(ctx context.Context, db *sql.DB, column string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT DISTINCT `+column+` FROM fittings ORDER BY `+column)
	if err != nil {
		return nil, fmt.Errorf("listing distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
