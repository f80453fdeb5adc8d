package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/railsuraksha/railsuraksha/internal/model"
)

// ListIntegrations returns the external systems in a stable order.
func ListIntegrations(ctx context.Context, db *sql.DB) ([]model.IntegrationSystem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, description, url, status, last_sync, response_time_ms, uptime,
		        data_points, error_count, version
		 FROM integration_systems ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing integrations: %w", err)
	}
	defer rows.Close()

	var systems []model.IntegrationSystem
	for rows.Next() {
		var s model.IntegrationSystem
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.URL, &s.Status, &s.LastSync,
			&s.ResponseTimeMs, &s.Uptime, &s.DataPoints, &s.ErrorCount, &s.Version); err != nil {
			return nil, fmt.Errorf("scanning integration: %w", err)
		}
		systems = append(systems, s)
	}
	return systems, rows.Err()
}

// UpdateIntegration stores fresh telemetry for a system.
func UpdateIntegration(ctx context.Context, db *sql.DB, s model.IntegrationSystem) error {
	result, err := db.ExecContext(ctx,
		`UPDATE integration_systems
		 SET status = ?, last_sync = ?, response_time_ms = ?, uptime = ?, data_points = ?, error_count = ?
		 WHERE id = ?`,
		s.Status, s.LastSync, s.ResponseTimeMs, s.Uptime, s.DataPoints, s.ErrorCount, s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating integration: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking integration update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("integration %q not found", s.ID)
	}
	return nil
}
