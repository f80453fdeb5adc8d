package model

import "time"

// Certificate records one generated QR certificate.
type Certificate struct {
	ID          string    `json:"id"`
	BatchID     string    `json:"batchId"`
	Payload     string    `json:"payload"`
	Format      string    `json:"format"`
	GeneratedBy *int64    `json:"generatedBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	// Joined field (not always populated).
	GeneratedByName string `json:"generatedByName,omitempty"`
}
