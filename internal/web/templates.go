package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/railsuraksha/railsuraksha/internal/api"
	"github.com/railsuraksha/railsuraksha/internal/auth"
	"github.com/railsuraksha/railsuraksha/internal/model"
	webembed "github.com/railsuraksha/railsuraksha/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"roleAtLeast": model.RoleAtLeast,
		"roleName": func(role string) string {
			switch role {
			case model.RoleAdmin:
				return "Administrator"
			case model.RoleInspector:
				return "Inspector"
			case model.RoleViewer:
				return "Viewer"
			default:
				return role
			}
		},
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		// badge maps a status, risk or trend value to its CSS class.
		"badge": func(v string) string {
			switch v {
			case model.WarrantyActive, model.RiskLow, model.IntegrationConnected, model.TrendUp:
				return "badge-ok"
			case model.WarrantyExpiring, model.RiskMedium, model.IntegrationWarning, model.FittingStatusMaintenance:
				return "badge-warn"
			case model.WarrantyExpired, model.RiskHigh, model.IntegrationError, model.TrendDown:
				return "badge-bad"
			default:
				return "badge-muted"
			}
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return "never"
			}
			return t.UTC().Format("2006-01-02 15:04 MST")
		},
		"percent": func(v float64) string {
			return fmt.Sprintf("%.1f%%", v)
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	// Read layout.
	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"login.html",
		"dashboard.html",
		"inventory.html",
		"qr.html",
		"vendors.html",
		"integrations.html",
		"analytics.html",
		"users.html",
		"settings.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Active  string
	User    *auth.Claims
	Error   string
	Success string
}

// Server holds all dependencies for page handlers.
type Server struct {
	*api.Deps
	Templates *Templates
}

// page returns the base data for an authenticated page.
func (s *Server) page(r *http.Request, title, active string) PageData {
	return PageData{Title: title, Active: active, User: GetWebClaims(r.Context())}
}

// allow reports whether the current user has at least role, writing a 403
// otherwise.
func (s *Server) allow(w http.ResponseWriter, r *http.Request, role string) bool {
	claims := GetWebClaims(r.Context())
	if claims == nil || !model.RoleAtLeast(claims.Role, role) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}
