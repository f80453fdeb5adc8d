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

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	fittings, err := store.ListFittings(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list fittings for dashboard", "error", err)
	}
	issued, err := store.CountCertificates(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to count certificates for dashboard", "error", err)
	}
	recent, err := store.ListCertificates(r.Context(), s.DB, "", 10)
	if err != nil {
		slog.Error("failed to list certificates for dashboard", "error", err)
	}
	systems, err := store.ListIntegrations(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list integrations for dashboard", "error", err)
	}
	lastRefresh, err := integration.LastRefresh(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to read last refresh", "error", err)
	}

	online := 0
	for _, sys := range systems {
		if sys.Status == model.IntegrationConnected {
			online++
		}
	}

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		Stats        inventory.Stats
		Certificates int
		Recent       []model.Certificate
		Online       int
		Systems      int
		LastRefresh  time.Time
	}{
		PageData:     s.page(r, "Dashboard", "dashboard"),
		Stats:        inventory.Count(fittings),
		Certificates: issued,
		Recent:       recent,
		Online:       online,
		Systems:      len(systems),
		LastRefresh:  lastRefresh,
	})
}
