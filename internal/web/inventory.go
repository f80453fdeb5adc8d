package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/railsuraksha/railsuraksha/internal/api"
	"github.com/railsuraksha/railsuraksha/internal/export"
	"github.com/railsuraksha/railsuraksha/internal/inventory"
	"github.com/railsuraksha/railsuraksha/internal/model"
	"github.com/railsuraksha/railsuraksha/internal/store"
)

// exportLink is a download offered on the inventory page.
type exportLink struct {
	Label string
	URL   string
}

// exportLinks returns download links carrying the active filters.
func exportLinks(filter inventory.Filter) []exportLink {
	formats := []struct{ format, label string }{
		{export.FormatCSV, "CSV"},
		{export.FormatExcel, "Excel CSV"},
		{export.FormatXLSX, "Excel workbook"},
		{export.FormatJSON, "JSON"},
	}
	links := make([]exportLink, 0, len(formats))
	for _, f := range formats {
		q := filter.Query()
		q.Set("format", f.format)
		links = append(links, exportLink{Label: f.label, URL: "/inventory/export?" + q.Encode()})
	}
	return links
}

// InventoryPage handles GET /inventory.
func (s *Server) InventoryPage(w http.ResponseWriter, r *http.Request) {
	filter := inventory.FromQuery(r.URL.Query())

	all, err := store.ListFittings(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list fittings", "error", err)
	}
	facets, err := store.FittingFacets(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list facets", "error", err)
		facets = &store.Facets{}
	}
	if !filter.IsEmpty() {
		s.Metrics.Filtered()
	}
	items := filter.Apply(all)

	s.Templates.Render(w, "inventory.html", &struct {
		PageData
		Filter    inventory.Filter
		Facets    *store.Facets
		Items     []model.Fitting
		Total     int
		Exports   []exportLink
		Warranty  []string
		RiskLevel []string
	}{
		PageData:  s.page(r, "Inventory", "inventory"),
		Filter:    filter,
		Facets:    facets,
		Items:     items,
		Total:     len(all),
		Exports:   exportLinks(filter),
		Warranty:  []string{model.WarrantyActive, model.WarrantyExpiring, model.WarrantyExpired},
		RiskLevel: []string{model.RiskLow, model.RiskMedium, model.RiskHigh},
	})
}

// InventoryExport handles GET /inventory/export.
func (s *Server) InventoryExport(w http.ResponseWriter, r *http.Request) {
	filter := inventory.FromQuery(r.URL.Query())
	format := r.URL.Query().Get("format")

	all, err := store.ListFittings(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list fittings for export", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	file, err := export.Inventory(filter.Apply(all), filter, format, s.Now())
	if errors.Is(err, export.ErrUnknownFormat) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.Error("export failed", "format", format, "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	s.Metrics.Exported(file.Format)
	slog.Info("inventory exported", "user", GetWebClaims(r.Context()).Username, "format", file.Format)
	api.Attachment(w, file.Name, file.ContentType, file.Data)
}
