package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'viewer' CHECK (role IN ('admin', 'inspector', 'viewer')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS fittings (
    id               TEXT PRIMARY KEY,
    batch_id         TEXT NOT NULL,
    vendor           TEXT NOT NULL,
    item_type        TEXT NOT NULL,
    zone             TEXT NOT NULL,
    location         TEXT NOT NULL,
    manufacture_date TEXT NOT NULL,
    supply_date      TEXT NOT NULL,
    warranty_status  TEXT NOT NULL CHECK (warranty_status IN ('active', 'expiring', 'expired')),
    risk_level       TEXT NOT NULL CHECK (risk_level IN ('low', 'medium', 'high')),
    last_scanned     TEXT NOT NULL,
    status           TEXT NOT NULL CHECK (status IN ('active', 'maintenance', 'retired'))
);

CREATE TABLE IF NOT EXISTS vendors (
    id                   INTEGER PRIMARY KEY,
    name                 TEXT NOT NULL UNIQUE,
    grade                TEXT NOT NULL CHECK (grade IN ('A', 'B', 'C', 'D', 'F')),
    overall_score        REAL NOT NULL,
    defect_rate          REAL NOT NULL,
    warranty_claims_rate REAL NOT NULL,
    on_time_delivery     REAL NOT NULL,
    quality_score        REAL NOT NULL,
    total_fittings       INTEGER NOT NULL,
    active_contracts     INTEGER NOT NULL,
    last_delivery        TEXT NOT NULL,
    trend                TEXT NOT NULL CHECK (trend IN ('up', 'down', 'stable')),
    strengths            TEXT NOT NULL DEFAULT '[]',
    concerns             TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS integration_systems (
    id               TEXT PRIMARY KEY,
    name             TEXT NOT NULL,
    description      TEXT NOT NULL,
    url              TEXT NOT NULL,
    status           TEXT NOT NULL CHECK (status IN ('connected', 'warning', 'error', 'maintenance')),
    last_sync        DATETIME NOT NULL,
    response_time_ms INTEGER NOT NULL,
    uptime           REAL NOT NULL,
    data_points      INTEGER NOT NULL,
    error_count      INTEGER NOT NULL,
    version          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS certificates (
    id           TEXT PRIMARY KEY,
    batch_id     TEXT NOT NULL,
    payload      TEXT NOT NULL,
    format       TEXT NOT NULL CHECK (format IN ('png', 'svg')),
    generated_by INTEGER REFERENCES users(id),
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_certificates_batch ON certificates(batch_id);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
