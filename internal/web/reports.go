package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/railsuraksha/railsuraksha/internal/integration"
	"github.com/railsuraksha/railsuraksha/internal/inventory"
	"github.com/railsuraksha/railsuraksha/internal/model"
	"github.com/railsuraksha/railsuraksha/internal/store"
)

// VendorsPage handles GET /vendors.
func (s *Server) VendorsPage(w http.ResponseWriter, r *http.Request) {
	vendors, err := store.ListVendors(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list vendors", "error", err)
	}

	s.Templates.Render(w, "vendors.html", &struct {
		PageData
		Vendors []model.Vendor
	}{
		PageData: s.page(r, "Vendor report cards", "vendors"),
		Vendors:  vendors,
	})
}

func (s *Server) renderIntegrations(w http.ResponseWriter, r *http.Request, data PageData) {
	systems, err := store.ListIntegrations(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list integrations", "error", err)
	}
	lastRefresh, err := integration.LastRefresh(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to read last refresh", "error", err)
	}

	s.Templates.Render(w, "integrations.html", &struct {
		PageData
		Systems     []model.IntegrationSystem
		LastRefresh time.Time
	}{
		PageData:    data,
		Systems:     systems,
		LastRefresh: lastRefresh,
	})
}

// IntegrationsPage handles GET /integrations.
func (s *Server) IntegrationsPage(w http.ResponseWriter, r *http.Request) {
	s.renderIntegrations(w, r, s.page(r, "Integrations", "integrations"))
}

// IntegrationsRefresh handles POST /integrations/refresh.
func (s *Server) IntegrationsRefresh(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, model.RoleInspector) {
		return
	}

	data := s.page(r, "Integrations", "integrations")
	if err := integration.Wait(r.Context(), s.SimulatedDelay); err != nil {
		slog.Warn("integration refresh cancelled", "error", err)
		return
	}
	if _, err := s.Refresher.Refresh(r.Context(), integration.TriggerManual); err != nil {
		slog.Error("failed to refresh integrations", "error", err)
		data.Error = "Refresh failed."
	} else {
		data.Success = "Integration status refreshed."
	}
	s.renderIntegrations(w, r, data)
}

// AnalyticsPage handles GET /analytics. Adding run=1 performs the
// (simulated) analysis for the selected zone.
func (s *Server) AnalyticsPage(w http.ResponseWriter, r *http.Request) {
	zone := r.URL.Query().Get("zone")

	facets, err := store.FittingFacets(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list facets", "error", err)
		facets = &store.Facets{}
	}

	var summaries []inventory.ZoneSummary
	ran := r.URL.Query().Get("run") != ""
	if ran {
		fittings, err := store.ListFittings(r.Context(), s.DB)
		if err != nil {
			slog.Error("failed to list fittings for analytics", "error", err)
		}
		if err := integration.Wait(r.Context(), s.SimulatedDelay); err != nil {
			slog.Warn("zone analysis cancelled", "error", err)
			return
		}
		summaries = inventory.Summarize(fittings, zone)
	}

	s.Templates.Render(w, "analytics.html", &struct {
		PageData
		Zones     []string
		Zone      string
		Ran       bool
		Summaries []inventory.ZoneSummary
	}{
		PageData:  s.page(r, "Maintenance outlook", "analytics"),
		Zones:     facets.Zones,
		Zone:      zone,
		Ran:       ran,
		Summaries: summaries,
	})
}
