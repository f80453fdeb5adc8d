package web

import (
	"net/http"

	"github.com/railsuraksha/railsuraksha/internal/api"
	webembed "github.com/railsuraksha/railsuraksha/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(d *api.Deps) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	d.SetDefaults()

	s := &Server{Deps: d, Templates: templates}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(d.JWTSecret, d.DB)
	page := func(h http.HandlerFunc) http.Handler { return cookieAuth(h) }

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Authenticated routes.
	mux.Handle("GET /{$}", page(s.Dashboard))

	mux.Handle("GET /inventory", page(s.InventoryPage))
	mux.Handle("GET /inventory/export", page(s.InventoryExport))

	mux.Handle("GET /qr", page(s.QRPage))
	mux.Handle("POST /qr", page(s.QRSubmit))
	mux.Handle("POST /qr/download", page(s.QRDownload))
	mux.Handle("POST /qr/decode", page(s.QRDecode))

	mux.Handle("GET /vendors", page(s.VendorsPage))
	mux.Handle("GET /integrations", page(s.IntegrationsPage))
	mux.Handle("POST /integrations/refresh", page(s.IntegrationsRefresh))
	mux.Handle("GET /analytics", page(s.AnalyticsPage))

	mux.Handle("GET /users", page(s.UsersPage))
	mux.Handle("POST /users", page(s.UserCreateSubmit))
	mux.Handle("POST /users/{id}/role", page(s.UserUpdateRoleSubmit))
	mux.Handle("POST /users/{id}/delete", page(s.UserDeleteSubmit))

	mux.Handle("GET /settings", page(s.SettingsPage))
	mux.Handle("POST /settings", page(s.SettingsSubmit))

	return mux, nil
}
