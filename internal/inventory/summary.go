package inventory

import (
	"fmt"
	"sort"

	"github.com/railsuraksha/railsuraksha/internal/model"
)

// Stats are the dashboard counters over a set of fittings.
type Stats struct {
	Total       int `json:"total"`
	HighRisk    int `json:"highRisk"`
	Expiring    int `json:"expiring"`
	Expired     int `json:"expired"`
	Maintenance int `json:"maintenance"`
	Retired     int `json:"retired"`
}

// Count tallies the dashboard counters.
func Count(items []model.Fitting) Stats {
	s := Stats{Total: len(items)}
	for _, f := range items {
		if f.RiskLevel == model.RiskHigh {
			s.HighRisk++
		}
		switch f.WarrantyStatus {
		case model.WarrantyExpiring:
			s.Expiring++
		case model.WarrantyExpired:
			s.Expired++
		}
		switch f.Status {
		case model.FittingStatusMaintenance:
			s.Maintenance++
		case model.FittingStatusRetired:
			s.Retired++
		}
	}
	return s
}

// ZoneSummary is the maintenance outlook for one railway zone. It is derived
// from the stored risk and warranty labels only; nothing is predicted.
type ZoneSummary struct {
	Zone               string   `json:"zone"`
	Stats              Stats    `json:"stats"`
	RiskScore          float64  `json:"riskScore"`
	RecommendedActions []string `json:"recommendedActions"`
}

var riskWeight = map[string]float64{
	model.RiskLow:    1,
	model.RiskMedium: 5,
	model.RiskHigh:   9,
}

// Summarize groups fittings by zone, ordered by descending risk score then
// zone name. If zone is non-empty and not All only that zone is reported.
func Summarize(items []model.Fitting, zone string) []ZoneSummary {
	byZone := make(map[string][]model.Fitting)
	for _, f := range items {
		if isSet(zone) && f.Zone != zone {
			continue
		}
		byZone[f.Zone] = append(byZone[f.Zone], f)
	}

	summaries := make([]ZoneSummary, 0, len(byZone))
	for name, fittings := range byZone {
		summaries = append(summaries, summarizeZone(name, fittings))
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].RiskScore != summaries[j].RiskScore {
			return summaries[i].RiskScore > summaries[j].RiskScore
		}
		return summaries[i].Zone < summaries[j].Zone
	})
	return summaries
}

func summarizeZone(zone string, fittings []model.Fitting) ZoneSummary {
	s := ZoneSummary{Zone: zone, Stats: Count(fittings), RecommendedActions: []string{}}

	var total float64
	for _, f := range fittings {
		total += riskWeight[f.RiskLevel]
		if f.Status == model.FittingStatusRetired {
			continue
		}
		switch {
		case f.RiskLevel == model.RiskHigh:
			s.RecommendedActions = append(s.RecommendedActions,
				fmt.Sprintf("Inspect %s batch %s at %s", f.ItemType, f.BatchID, f.Location))
		case f.WarrantyStatus == model.WarrantyExpired:
			s.RecommendedActions = append(s.RecommendedActions,
				fmt.Sprintf("Plan replacement of %s batch %s (warranty expired)", f.ItemType, f.BatchID))
		case f.WarrantyStatus == model.WarrantyExpiring:
			s.RecommendedActions = append(s.RecommendedActions,
				fmt.Sprintf("Raise warranty claims for %s batch %s before expiry", f.ItemType, f.BatchID))
		}
	}
	if len(fittings) > 0 {
		s.RiskScore = float64(int(total/float64(len(fittings))*10+0.5)) / 10
	}
	return s
}
