package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/railsuraksha/railsuraksha/internal/integration"
	"github.com/railsuraksha/railsuraksha/internal/metrics"
	"github.com/railsuraksha/railsuraksha/internal/model"
	"github.com/railsuraksha/railsuraksha/internal/qrcert"
)

// Deps are the shared dependencies of the API handlers.
type Deps struct {
	DB        *sql.DB
	JWTSecret string
	Codec     *qrcert.Codec
	Refresher *integration.Refresher
	Metrics   *metrics.Metrics

	// SimulatedDelay is how long "analyze" and manual refreshes pretend to work.
	SimulatedDelay time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// SetDefaults fills unset optional dependencies.
func (d *Deps) SetDefaults() {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Codec == nil {
		d.Codec = qrcert.NewCodec()
	}
	if d.Refresher == nil {
		d.Refresher = integration.NewRefresher(d.DB, d.Metrics)
	}
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d *Deps) http.Handler {
	d.SetDefaults()

	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: d.DB, JWTSecret: d.JWTSecret}
	usersHandler := &UsersHandler{DB: d.DB}
	inventoryHandler := &InventoryHandler{Deps: d}
	qrHandler := &QRHandler{Deps: d}
	reportsHandler := &ReportsHandler{Deps: d}

	authMW := AuthMiddleware(d.JWTSecret, d.DB)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireInspector := RequireRole(model.RoleInspector)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Inventory (all roles).
	mux.Handle("GET /api/inventory", authMW(http.HandlerFunc(inventoryHandler.List)))
	mux.Handle("GET /api/inventory/facets", authMW(http.HandlerFunc(inventoryHandler.Facets)))
	mux.Handle("GET /api/inventory/export", authMW(http.HandlerFunc(inventoryHandler.Export)))
	mux.Handle("GET /api/inventory/{id}", authMW(http.HandlerFunc(inventoryHandler.Get)))

	// QR certificates: generate (inspector+), decode and list (all roles).
	mux.Handle("POST /api/qr", authMW(requireInspector(http.HandlerFunc(qrHandler.Generate))))
	mux.Handle("POST /api/qr/download", authMW(requireInspector(http.HandlerFunc(qrHandler.Download))))
	mux.Handle("POST /api/qr/decode", authMW(http.HandlerFunc(qrHandler.Decode)))
	mux.Handle("GET /api/certificates", authMW(http.HandlerFunc(qrHandler.Certificates)))

	// Reports (all roles), refresh (inspector+).
	mux.Handle("GET /api/vendors", authMW(http.HandlerFunc(reportsHandler.Vendors)))
	mux.Handle("GET /api/integrations", authMW(http.HandlerFunc(reportsHandler.Integrations)))
	mux.Handle("POST /api/integrations/refresh", authMW(requireInspector(http.HandlerFunc(reportsHandler.RefreshIntegrations))))
	mux.Handle("GET /api/analytics/zones", authMW(http.HandlerFunc(reportsHandler.Zones)))

	return mux
}
