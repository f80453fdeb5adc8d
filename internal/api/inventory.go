package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/railsuraksha/railsuraksha/internal/export"
	"github.com/railsuraksha/railsuraksha/internal/inventory"
	"github.com/railsuraksha/railsuraksha/internal/model"
	"github.com/railsuraksha/railsuraksha/internal/store"
)

// InventoryHandler handles inventory listing and export.
type InventoryHandler struct {
	*Deps
}

// filtered loads all fittings and applies the request's filters.
func (h *InventoryHandler) filtered(r *http.Request) ([]model.Fitting, inventory.Filter, error) {
	filter := inventory.FromQuery(r.URL.Query())
	all, err := store.ListFittings(r.Context(), h.DB)
	if err != nil {
		return nil, filter, err
	}
	if !filter.IsEmpty() {
		h.Metrics.Filtered()
	}
	return filter.Apply(all), filter, nil
}

// List handles GET /api/inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, _, err := h.filtered(r)
	if err != nil {
		slog.Error("failed to list inventory", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/inventory/{id}.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	fitting, err := store.GetFitting(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get fitting", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get fitting")
		return
	}
	if fitting == nil {
		jsonError(w, http.StatusNotFound, "fitting not found")
		return
	}
	jsonResponse(w, http.StatusOK, fitting)
}

// Facets handles GET /api/inventory/facets.
func (h *InventoryHandler) Facets(w http.ResponseWriter, r *http.Request) {
	facets, err := store.FittingFacets(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list facets", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list facets")
		return
	}
	jsonResponse(w, http.StatusOK, facets)
}

// Export handles GET /api/inventory/export.
func (h *InventoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")

	items, filter, err := h.filtered(r)
	if err != nil {
		slog.Error("failed to list inventory for export", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to export inventory")
		return
	}

	file, err := export.Inventory(items, filter, format, h.Now())
	if errors.Is(err, export.ErrUnknownFormat) {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("export failed", "format", format, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to export inventory")
		return
	}

	h.Metrics.Exported(file.Format)
	slog.Info("inventory exported", "user", GetClaims(r.Context()).Username, "format", file.Format, "records", len(items))
	Attachment(w, file.Name, file.ContentType, file.Data)
}
