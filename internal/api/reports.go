package api

import (
	"log/slog"
	"net/http"

	"github.com/railsuraksha/railsuraksha/internal/integration"
	"github.com/railsuraksha/railsuraksha/internal/inventory"
	"github.com/railsuraksha/railsuraksha/internal/model"
	"github.com/railsuraksha/railsuraksha/internal/store"
)

// ReportsHandler serves vendor report cards, integration status and zone
// analytics.
type ReportsHandler struct {
	*Deps
}

// Vendors handles GET /api/vendors.
func (h *ReportsHandler) Vendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := store.ListVendors(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list vendors", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list vendors")
		return
	}
	if vendors == nil {
		vendors = []model.Vendor{}
	}
	jsonResponse(w, http.StatusOK, vendors)
}

// Integrations handles GET /api/integrations.
func (h *ReportsHandler) Integrations(w http.ResponseWriter, r *http.Request) {
	systems, err := store.ListIntegrations(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list integrations", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list integrations")
		return
	}
	if systems == nil {
		systems = []model.IntegrationSystem{}
	}
	jsonResponse(w, http.StatusOK, systems)
}

// RefreshIntegrations handles POST /api/integrations/refresh.
func (h *ReportsHandler) RefreshIntegrations(w http.ResponseWriter, r *http.Request) {
	if err := integration.Wait(r.Context(), h.SimulatedDelay); err != nil {
		slog.Warn("integration refresh cancelled", "error", err)
		return
	}

	systems, err := h.Refresher.Refresh(r.Context(), integration.TriggerManual)
	if err != nil {
		slog.Error("failed to refresh integrations", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to refresh integrations")
		return
	}
	jsonResponse(w, http.StatusOK, systems)
}

// Zones handles GET /api/analytics/zones.
func (h *ReportsHandler) Zones(w http.ResponseWriter, r *http.Request) {
	fittings, err := store.ListFittings(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list fittings for analytics", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to analyze zones")
		return
	}

	if err := integration.Wait(r.Context(), h.SimulatedDelay); err != nil {
		slog.Warn("zone analysis cancelled", "error", err)
		return
	}

	jsonResponse(w, http.StatusOK, inventory.Summarize(fittings, r.URL.Query().Get("zone")))
}
