package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/railsuraksha/railsuraksha/internal/model"
)

// ListVendors returns vendor report cards, best overall score first.
func ListVendors(ctx context.Context, db *sql.DB) ([]model.Vendor, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, grade, overall_score, defect_rate, warranty_claims_rate, on_time_delivery,
		        quality_score, total_fittings, active_contracts, last_delivery, trend, strengths, concerns
		 FROM vendors ORDER BY overall_score DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing vendors: %w", err)
	}
	defer rows.Close()

	var vendors []model.Vendor
	for rows.Next() {
		var v model.Vendor
		var strengths, concerns string
		if err := rows.Scan(&v.ID, &v.Name, &v.Grade, &v.OverallScore, &v.DefectRate, &v.WarrantyClaimsRate,
			&v.OnTimeDelivery, &v.QualityScore, &v.TotalFittings, &v.ActiveContracts, &v.LastDelivery, &v.Trend,
			&strengths, &concerns); err != nil {
			return nil, fmt.Errorf("scanning vendor: %w", err)
		}
		if err := json.Unmarshal([]byte(strengths), &v.Strengths); err != nil {
			return nil, fmt.Errorf("decoding strengths for %s: %w", v.Name, err)
		}
		if err := json.Unmarshal([]byte(concerns), &v.Concerns); err != nil {
			return nil, fmt.Errorf("decoding concerns for %s: %w", v.Name, err)
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}
