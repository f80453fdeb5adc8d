package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/railsuraksha/railsuraksha/internal/model"
)

// CreateCertificate records a generated QR certificate.
func CreateCertificate(ctx context.Context, db *sql.DB, batchID, payload, format string, userID *int64) (*model.Certificate, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO certificates (id, batch_id, payload, format, generated_by) VALUES (?, ?, ?, ?, ?)`,
		id, batchID, payload, format, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating certificate: %w", err)
	}
	return GetCertificate(ctx, db, id)
}

// GetCertificate returns a certificate by ID.
func GetCertificate(ctx context.Context, db *sql.DB, id string) (*model.Certificate, error) {
	c := &model.Certificate{}
	var username sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT c.id, c.batch_id, c.payload, c.format, c.generated_by, c.created_at, u.username
		 FROM certificates c
		 LEFT JOIN users u ON u.id = c.generated_by
		 WHERE c.id = ?`, id,
	).Scan(&c.ID, &c.BatchID, &c.Payload, &c.Format, &c.GeneratedBy, &c.CreatedAt, &username)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting certificate: %w", err)
	}
	c.GeneratedByName = username.String
	return c, nil
}

// ListCertificates returns certificates newest first. If batchID is
// non-empty only that batch is listed. A limit of 0 means no limit.
func ListCertificates(ctx context.Context, db *sql.DB, batchID string, limit int) ([]model.Certificate, error) {
	query := `SELECT c.id, c.batch_id, c.payload, c.format, c.generated_by, c.created_at, u.username
		 FROM certificates c
		 LEFT JOIN users u ON u.id = c.generated_by`
	var args []any
	if batchID != "" {
		query += ` WHERE c.batch_id = ?`
		args = append(args, batchID)
	}
	query += ` ORDER BY c.created_at DESC, c.rowid DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing certificates: %w", err)
	}
	defer rows.Close()

	var certs []model.Certificate
	for rows.Next() {
		var c model.Certificate
		var username sql.NullString
		if err := rows.Scan(&c.ID, &c.BatchID, &c.Payload, &c.Format, &c.GeneratedBy, &c.CreatedAt, &username); err != nil {
			return nil, fmt.Errorf("scanning certificate: %w", err)
		}
		c.GeneratedByName = username.String
		certs = append(certs, c)
	}
	return certs, rows.Err()
}

// CountCertificates returns the number of certificates issued.
func CountCertificates(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM certificates`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting certificates: %w", err)
	}
	return n, nil
}
