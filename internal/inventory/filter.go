// Package inventory narrows the fitting inventory by free-text search and
// categorical filters.
package inventory

import (
	"net/url"
	"strings"

	"github.com/railsuraksha/railsuraksha/internal/model"
)

// All is the sentinel meaning "no constraint" for a categorical filter.
const All = "all"

// Filter holds the five independent inventory filters.
type Filter struct {
	Search   string
	Zone     string
	Vendor   string
	Warranty string
	Risk     string
}

// FromQuery reads a filter from search, zone, vendor, warranty and risk
// query parameters.
func FromQuery(q url.Values) Filter {
	return Filter{
		Search:   q.Get("search"),
		Zone:     q.Get("zone"),
		Vendor:   q.Get("vendor"),
		Warranty: q.Get("warranty"),
		Risk:     q.Get("risk"),
	}
}

// Query encodes the active filters as query parameters.
func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	for key, v := range map[string]string{
		"zone":     f.Zone,
		"vendor":   f.Vendor,
		"warranty": f.Warranty,
		"risk":     f.Risk,
	} {
		if isSet(v) {
			q.Set(key, v)
		}
	}
	return q
}

func isSet(v string) bool {
	return v != "" && v != All
}

// Matches reports whether item satisfies every filter.
func (f Filter) Matches(item model.Fitting) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(item.BatchID), term) &&
			!strings.Contains(strings.ToLower(item.Vendor), term) &&
			!strings.Contains(strings.ToLower(item.ItemType), term) {
			return false
		}
	}
	if isSet(f.Zone) && item.Zone != f.Zone {
		return false
	}
	if isSet(f.Vendor) && item.Vendor != f.Vendor {
		return false
	}
	if isSet(f.Warranty) && item.WarrantyStatus != f.Warranty {
		return false
	}
	if isSet(f.Risk) && item.RiskLevel != f.Risk {
		return false
	}
	return true
}

// Apply returns the items matching every filter, in their original order.
// The input slice is not modified.
func (f Filter) Apply(items []model.Fitting) []model.Fitting {
	out := make([]model.Fitting, 0, len(items))
	for _, item := range items {
		if f.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

// Applied lists the active filter values; unset filters are nil.
type Applied struct {
	SearchTerm     *string `json:"searchTerm"`
	ZoneFilter     *string `json:"zoneFilter"`
	VendorFilter   *string `json:"vendorFilter"`
	WarrantyFilter *string `json:"warrantyFilter"`
	RiskFilter     *string `json:"riskFilter"`
}

// Applied reports the filter values for export metadata.
func (f Filter) Applied() Applied {
	opt := func(v string) *string {
		if !isSet(v) {
			return nil
		}
		return &v
	}
	var search *string
	if f.Search != "" {
		s := f.Search
		search = &s
	}
	return Applied{
		SearchTerm:     search,
		ZoneFilter:     opt(f.Zone),
		VendorFilter:   opt(f.Vendor),
		WarrantyFilter: opt(f.Warranty),
		RiskFilter:     opt(f.Risk),
	}
}

// IsEmpty reports whether no filter is active.
func (f Filter) IsEmpty() bool {
	return f.Search == "" && !isSet(f.Zone) && !isSet(f.Vendor) && !isSet(f.Warranty) && !isSet(f.Risk)
}
