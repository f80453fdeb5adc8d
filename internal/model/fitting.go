package model

import "strings"

// Fitting is a tracked batch of railway track fittings.
type Fitting struct {
	ID              string `json:"id"`
	BatchID         string `json:"batchId"`
	Vendor          string `json:"vendor"`
	ItemType        string `json:"itemType"`
	Zone            string `json:"zone"`
	Location        string `json:"location"`
	ManufactureDate string `json:"manufactureDate"`
	SupplyDate      string `json:"supplyDate"`
	WarrantyStatus  string `json:"warrantyStatus"`
	RiskLevel       string `json:"riskLevel"`
	LastScanned     string `json:"lastScanned"`
	Status          string `json:"status"`
}

// Warranty statuses.
const (
	WarrantyActive   = "active"
	WarrantyExpiring = "expiring"
	WarrantyExpired  = "expired"
)

// Risk levels.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Fitting statuses.
const (
	FittingStatusActive      = "active"
	FittingStatusMaintenance = "maintenance"
	FittingStatusRetired     = "retired"
)

// FittingData is the input of a QR certificate.
type FittingData struct {
	VendorName      string `json:"vendorName"`
	LotNumber       string `json:"lotNumber"`
	ItemType        string `json:"itemType"`
	ManufactureDate string `json:"manufactureDate"`
	SupplyDate      string `json:"supplyDate"`
	WarrantyPeriod  string `json:"warrantyPeriod"`
	Specifications  string `json:"specifications"`
	BatchID         string `json:"batchId"`
}

// Trimmed returns d with surrounding whitespace removed from every field.
func (d FittingData) Trimmed() FittingData {
	return FittingData{
		VendorName:      strings.TrimSpace(d.VendorName),
		LotNumber:       strings.TrimSpace(d.LotNumber),
		ItemType:        strings.TrimSpace(d.ItemType),
		ManufactureDate: strings.TrimSpace(d.ManufactureDate),
		SupplyDate:      strings.TrimSpace(d.SupplyDate),
		WarrantyPeriod:  strings.TrimSpace(d.WarrantyPeriod),
		Specifications:  strings.TrimSpace(d.Specifications),
		BatchID:         strings.TrimSpace(d.BatchID),
	}
}

// MissingFields returns the names of required certificate fields that are
// empty after trimming whitespace. Warranty period and specifications are
// optional.
func (d FittingData) MissingFields() []string {
	required := []struct {
		name  string
		value string
	}{
		{"vendorName", d.VendorName},
		{"lotNumber", d.LotNumber},
		{"itemType", d.ItemType},
		{"manufactureDate", d.ManufactureDate},
		{"supplyDate", d.SupplyDate},
		{"batchId", d.BatchID},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
