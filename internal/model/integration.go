package model

import "time"

// IntegrationSystem is an external railway IT system and its last known
// telemetry. The telemetry is fabricated locally.
type IntegrationSystem struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	URL            string    `json:"url"`
	Status         string    `json:"status"`
	LastSync       time.Time `json:"lastSync"`
	ResponseTimeMs int       `json:"responseTime"`
	Uptime         float64   `json:"uptime"`
	DataPoints     int64     `json:"dataPoints"`
	ErrorCount     int       `json:"errorCount"`
	Version        string    `json:"version"`
}

// Integration statuses.
const (
	IntegrationConnected   = "connected"
	IntegrationWarning     = "warning"
	IntegrationError       = "error"
	IntegrationMaintenance = "maintenance"
)
