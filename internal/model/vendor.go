package model

// Vendor is a fitting supplier's quality report card.
type Vendor struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Grade              string   `json:"grade"`
	OverallScore       float64  `json:"overallScore"`
	DefectRate         float64  `json:"defectRate"`
	WarrantyClaimsRate float64  `json:"warrantyClaimsRate"`
	OnTimeDelivery     float64  `json:"onTimeDelivery"`
	QualityScore       float64  `json:"qualityScore"`
	TotalFittings      int      `json:"totalFittings"`
	ActiveContracts    int      `json:"activeContracts"`
	LastDelivery       string   `json:"lastDelivery"`
	Trend              string   `json:"trend"`
	Strengths          []string `json:"strengths"`
	Concerns           []string `json:"concerns"`
}

// Vendor trends.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)
