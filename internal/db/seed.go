package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/railsuraksha/railsuraksha/internal/model"
)

var seedFittings = []model.Fitting{
	{ID: "FIT-001", BatchID: "24-01-1234", Vendor: "Tata Steel Limited", ItemType: "Rail Joint", Zone: "Northern Railway", Location: "Section A, Track 1", ManufactureDate: "2024-01-15", SupplyDate: "2024-02-01", WarrantyStatus: model.WarrantyActive, RiskLevel: model.RiskLow, LastScanned: "2024-12-10", Status: model.FittingStatusActive},
	{ID: "FIT-002", BatchID: "24-01-1235", Vendor: "JSW Steel Limited", ItemType: "Fish Plate", Zone: "Western Railway", Location: "Section B, Track 2", ManufactureDate: "2024-01-20", SupplyDate: "2024-02-05", WarrantyStatus: model.WarrantyExpiring, RiskLevel: model.RiskMedium, LastScanned: "2024-12-08", Status: model.FittingStatusActive},
	{ID: "FIT-003", BatchID: "23-12-5678", Vendor: "Bharat Heavy Electricals", ItemType: "Rail Bolt", Zone: "Eastern Railway", Location: "Section C, Track 1", ManufactureDate: "2023-12-10", SupplyDate: "2023-12-25", WarrantyStatus: model.WarrantyActive, RiskLevel: model.RiskHigh, LastScanned: "2024-12-09", Status: model.FittingStatusMaintenance},
	{ID: "FIT-004", BatchID: "24-02-9876", Vendor: "SAIL Bhilai", ItemType: "Tie Plate", Zone: "Southern Railway", Location: "Section D, Track 3", ManufactureDate: "2024-02-01", SupplyDate: "2024-02-15", WarrantyStatus: model.WarrantyActive, RiskLevel: model.RiskLow, LastScanned: "2024-12-11", Status: model.FittingStatusActive},
	{ID: "FIT-005", BatchID: "23-11-4321", Vendor: "Jindal Steel", ItemType: "Rail Spike", Zone: "Central Railway", Location: "Section E, Track 2", ManufactureDate: "2023-11-15", SupplyDate: "2023-11-30", WarrantyStatus: model.WarrantyExpired, RiskLevel: model.RiskMedium, LastScanned: "2024-12-07", Status: model.FittingStatusRetired},
}

var seedVendors = []model.Vendor{
	{Name: "Bharat Heavy Electricals Ltd", Grade: "A", OverallScore: 96.8, DefectRate: 0.8, WarrantyClaimsRate: 1.2, OnTimeDelivery: 98.5, QualityScore: 97.2, TotalFittings: 450000, ActiveContracts: 12, LastDelivery: "2024-12-08", Trend: model.TrendUp,
		Strengths: []string{"Excellent quality control", "Consistent delivery", "Low defect rates"},
		Concerns:  []string{"Higher pricing", "Limited capacity for rush orders"}},
	{Name: "Tata Steel Limited", Grade: "A", OverallScore: 94.2, DefectRate: 1.1, WarrantyClaimsRate: 1.8, OnTimeDelivery: 96.8, QualityScore: 95.5, TotalFittings: 520000, ActiveContracts: 15, LastDelivery: "2024-12-10", Trend: model.TrendStable,
		Strengths: []string{"Large production capacity", "Strong R&D", "Good customer support"},
		Concerns:  []string{"Occasional delivery delays", "Quality variations in some batches"}},
	{Name: "JSW Steel Limited", Grade: "B", OverallScore: 91.7, DefectRate: 1.9, WarrantyClaimsRate: 2.4, OnTimeDelivery: 94.2, QualityScore: 92.8, TotalFittings: 380000, ActiveContracts: 10, LastDelivery: "2024-12-09", Trend: model.TrendUp,
		Strengths: []string{"Competitive pricing", "Flexible production", "Good technical support"},
		Concerns:  []string{"Higher defect rates", "Inconsistent quality in complex items"}},
	{Name: "SAIL Bhilai Steel Plant", Grade: "B", OverallScore: 89.3, DefectRate: 2.3, WarrantyClaimsRate: 3.1, OnTimeDelivery: 91.5, QualityScore: 90.2, TotalFittings: 290000, ActiveContracts: 8, LastDelivery: "2024-12-07", Trend: model.TrendDown,
		Strengths: []string{"Government backing", "Established processes", "Cost-effective"},
		Concerns:  []string{"Aging infrastructure", "Slower innovation", "Quality control issues"}},
	{Name: "Jindal Steel & Power", Grade: "C", OverallScore: 87.1, DefectRate: 3.2, WarrantyClaimsRate: 4.1, OnTimeDelivery: 88.7, QualityScore: 87.9, TotalFittings: 210000, ActiveContracts: 6, LastDelivery: "2024-12-05", Trend: model.TrendDown,
		Strengths: []string{"Competitive pricing", "Quick response", "Local presence"},
		Concerns:  []string{"Higher defect rates", "Delivery delays", "Quality inconsistencies"}},
}

var seedIntegrations = []model.IntegrationSystem{
	{ID: "udm", Name: "UDM (ireps.gov.in)", Description: "Unified Data Management System for Railway Procurement", URL: "https://ireps.gov.in", Status: model.IntegrationConnected, LastSync: time.Date(2024, 12, 14, 10, 30, 0, 0, time.UTC), ResponseTimeMs: 245, Uptime: 99.8, DataPoints: 1250000, ErrorCount: 2, Version: "v2.4.1"},
	{ID: "tms", Name: "TMS (irecept.gov.in)", Description: "Track Management System for Asset Monitoring", URL: "https://irecept.gov.in", Status: model.IntegrationWarning, LastSync: time.Date(2024, 12, 14, 9, 45, 0, 0, time.UTC), ResponseTimeMs: 1200, Uptime: 97.2, DataPoints: 890000, ErrorCount: 15, Version: "v1.8.3"},
	{ID: "ntes", Name: "NTES", Description: "National Train Enquiry System Integration", URL: "https://enquiry.indianrail.gov.in", Status: model.IntegrationConnected, LastSync: time.Date(2024, 12, 14, 10, 25, 0, 0, time.UTC), ResponseTimeMs: 180, Uptime: 99.5, DataPoints: 2100000, ErrorCount: 1, Version: "v3.1.0"},
	{ID: "fois", Name: "FOIS", Description: "Freight Operations Information System", URL: "https://fois.indianrail.gov.in", Status: model.IntegrationError, LastSync: time.Date(2024, 12, 14, 8, 15, 0, 0, time.UTC), ResponseTimeMs: 0, Uptime: 85.3, DataPoints: 450000, ErrorCount: 45, Version: "v2.1.2"},
	{ID: "cris", Name: "CRIS Portal", Description: "Centre for Railway Information Systems", URL: "https://cris.indianrail.gov.in", Status: model.IntegrationMaintenance, LastSync: time.Date(2024, 12, 14, 6, 0, 0, 0, time.UTC), ResponseTimeMs: 0, Uptime: 92.1, DataPoints: 3200000, ErrorCount: 0, Version: "v4.2.0"},
}

// Seed inserts the reference fittings, vendors and integration systems.
// Existing rows are left untouched, so it is safe to call on every start.
func Seed(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, f := range seedFittings {
		_, err := tx.Exec(
			`INSERT OR IGNORE INTO fittings (id, batch_id, vendor, item_type, zone, location,
			    manufacture_date, supply_date, warranty_status, risk_level, last_scanned, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, f.BatchID, f.Vendor, f.ItemType, f.Zone, f.Location,
			f.ManufactureDate, f.SupplyDate, f.WarrantyStatus, f.RiskLevel, f.LastScanned, f.Status,
		)
		if err != nil {
			return fmt.Errorf("seeding fitting %s: %w", f.ID, err)
		}
	}

	for _, v := range seedVendors {
		strengths, err := json.Marshal(v.Strengths)
		if err != nil {
			return fmt.Errorf("encoding strengths for %s: %w", v.Name, err)
		}
		concerns, err := json.Marshal(v.Concerns)
		if err != nil {
			return fmt.Errorf("encoding concerns for %s: %w", v.Name, err)
		}
		_, err = tx.Exec(
			`INSERT OR IGNORE INTO vendors (name, grade, overall_score, defect_rate, warranty_claims_rate,
			    on_time_delivery, quality_score, total_fittings, active_contracts, last_delivery, trend,
			    strengths, concerns)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			v.Name, v.Grade, v.OverallScore, v.DefectRate, v.WarrantyClaimsRate,
			v.OnTimeDelivery, v.QualityScore, v.TotalFittings, v.ActiveContracts, v.LastDelivery, v.Trend,
			string(strengths), string(concerns),
		)
		if err != nil {
			return fmt.Errorf("seeding vendor %s: %w", v.Name, err)
		}
	}

	for _, s := range seedIntegrations {
		_, err := tx.Exec(
			`INSERT OR IGNORE INTO integration_systems (id, name, description, url, status, last_sync,
			    response_time_ms, uptime, data_points, error_count, version)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID, s.Name, s.Description, s.URL, s.Status, s.LastSync,
			s.ResponseTimeMs, s.Uptime, s.DataPoints, s.ErrorCount, s.Version,
		)
		if err != nil {
			return fmt.Errorf("seeding integration %s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}
	return nil
}
