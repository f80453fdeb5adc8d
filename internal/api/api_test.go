package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/railsuraksha/railsuraksha/internal/auth"
	"github.com/railsuraksha/railsuraksha/internal/db"
	"github.com/railsuraksha/railsuraksha/internal/metrics"
	"github.com/railsuraksha/railsuraksha/internal/model"
	"github.com/railsuraksha/railsuraksha/internal/qrcert"
	"github.com/railsuraksha/railsuraksha/internal/store"
)

const testJWTSecret = "test-secret"

var testNow = time.Date(2024, 12, 15, 10, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*httptest.Server, *Deps) {
	t.Helper()
	database := db.NewTestDB(t)
	codec := qrcert.NewCodec()
	codec.Now = func() time.Time { return testNow }
	deps := &Deps{
		DB:        database,
		JWTSecret: testJWTSecret,
		Codec:     codec,
		Now:       func() time.Time { return testNow },
	}
	server := httptest.NewServer(NewRouter(deps))
	t.Cleanup(server.Close)
	return server, deps
}

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	server, deps := newTestServer(t)

	// Create admin user.
	hash, _ := auth.HashPassword("password")
	store.CreateUser(context.Background(), deps.DB, "admin", hash, model.RoleAdmin)

	return server, login(t, server, "admin", "password")
}

func login(t *testing.T, server *httptest.Server, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	json.NewDecoder(resp.Body).Decode(&loginResp)
	if loginResp.Token == "" {
		t.Fatal("empty token from login")
	}
	return loginResp.Token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func do(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	req, err := authRequest(method, url, token, body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func sampleFitting() model.FittingData {
	return model.FittingData{
		VendorName:      "Tata Steel Limited",
		LotNumber:       "LOT-7",
		ItemType:        "Rail Joint",
		ManufactureDate: "2024-01-15",
		SupplyDate:      "2024-02-01",
		WarrantyPeriod:  "5 years",
		BatchID:         "24-01-1234",
	}
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	// Test invalid credentials.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	server, token := setupTestServer(t)

	resp := do(t, "POST", server.URL+"/api/auth/logout", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from logout, got %d", resp.StatusCode)
	}

	resp = do(t, "GET", server.URL+"/api/inventory", token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestUnauthenticatedAccess(t *testing.T) {
	server, _ := newTestServer(t)

	resp, _ := http.Get(server.URL + "/api/inventory")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRoleBasedAccess(t *testing.T) {
	server, deps := newTestServer(t)

	hash, _ := auth.HashPassword("password")
	store.CreateUser(context.Background(), deps.DB, "viewer", hash, model.RoleViewer)
	viewerToken := login(t, server, "viewer", "password")

	// Viewers can read the inventory.
	resp := do(t, "GET", server.URL+"/api/inventory", viewerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for viewer listing inventory, got %d", resp.StatusCode)
	}

	// Viewers cannot generate certificates (inspector+ required).
	resp = do(t, "POST", server.URL+"/api/qr", viewerToken, map[string]any{"fitting": sampleFitting()})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for viewer generating QR, got %d", resp.StatusCode)
	}

	// Viewers cannot manage users.
	resp = do(t, "GET", server.URL+"/api/users", viewerToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for viewer accessing users, got %d", resp.StatusCode)
	}
}

func TestInventoryFilters(t *testing.T) {
	server, token := setupTestServer(t)

	resp := do(t, "GET", server.URL+"/api/inventory?zone=Western+Railway&risk=all", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var items []model.Fitting
	json.NewDecoder(resp.Body).Decode(&items)
	if len(items) != 1 || items[0].ID != "FIT-002" {
		t.Errorf("expected [FIT-002], got %+v", items)
	}

	resp = do(t, "GET", server.URL+"/api/inventory?search=steel", token, nil)
	json.NewDecoder(resp.Body).Decode(&items)
	if len(items) != 3 {
		t.Errorf("expected 3 steel vendors, got %d", len(items))
	}
}

func TestInventoryGetAndFacets(t *testing.T) {
	server, token := setupTestServer(t)

	resp := do(t, "GET", server.URL+"/api/inventory/FIT-004", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp = do(t, "GET", server.URL+"/api/inventory/FIT-404", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}

	resp = do(t, "GET", server.URL+"/api/inventory/facets", token, nil)
	var facets store.Facets
	json.NewDecoder(resp.Body).Decode(&facets)
	if len(facets.Zones) != 5 {
		t.Errorf("expected 5 zones, got %v", facets.Zones)
	}
}

func TestExportJSON(t *testing.T) {
	server, token := setupTestServer(t)

	resp := do(t, "GET", server.URL+"/api/inventory/export?format=json&zone=Northern+Railway", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	want := `attachment; filename=railsuraksha_inventory_2024-12-15.json`
	if got := resp.Header.Get("Content-Disposition"); got != want {
		t.Errorf("Content-Disposition = %q, want %q", got, want)
	}

	var env struct {
		TotalRecords   int                `json:"totalRecords"`
		AppliedFilters map[string]*string `json:"appliedFilters"`
		Data           []map[string]string
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	if env.TotalRecords != 1 || len(env.Data) != 1 {
		t.Fatalf("expected one record, got %d", env.TotalRecords)
	}
	if env.Data[0]["Batch ID"] != "24-01-1234" {
		t.Errorf("unexpected record %v", env.Data[0])
	}
	if z := env.AppliedFilters["zoneFilter"]; z == nil || *z != "Northern Railway" {
		t.Errorf("expected zone filter, got %v", z)
	}
	if env.AppliedFilters["searchTerm"] != nil {
		t.Error("expected null search term")
	}
}

func TestExportCSVAndUnknownFormat(t *testing.T) {
	server, token := setupTestServer(t)

	resp := do(t, "GET", server.URL+"/api/inventory/export?format=excel", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("expected UTF-8 BOM in excel export")
	}
	if lines := strings.Split(string(body), "\n"); len(lines) != 6 {
		t.Errorf("expected header and 5 rows, got %d lines", len(lines))
	}

	resp = do(t, "GET", server.URL+"/api/inventory/export?format=pdf", token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown format, got %d", resp.StatusCode)
	}
}

func TestGenerateQR(t *testing.T) {
	server, token := setupTestServer(t)

	resp := do(t, "POST", server.URL+"/api/qr", token, map[string]any{"fitting": sampleFitting(), "format": "png"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out qrResponse
	json.NewDecoder(resp.Body).Decode(&out)
	if !strings.HasPrefix(out.Image, "data:image/png;base64,") {
		t.Errorf("expected PNG data URL, got %.40q", out.Image)
	}
	if out.Filename != "QR_24-01-1234_2024-12-15.png" {
		t.Errorf("unexpected filename %q", out.Filename)
	}
	if out.CertificateID == "" {
		t.Error("expected certificate id")
	}
	if !strings.Contains(out.Payload, `"timestamp":"2024-12-15T10:30:00.000Z"`) {
		t.Errorf("unexpected payload %s", out.Payload)
	}

	resp = do(t, "GET", server.URL+"/api/certificates?batch=24-01-1234", token, nil)
	var certs []model.Certificate
	json.NewDecoder(resp.Body).Decode(&certs)
	if len(certs) != 1 || certs[0].GeneratedByName != "admin" || certs[0].Payload != out.Payload {
		t.Errorf("unexpected certificates %+v", certs)
	}
}

func TestGenerateQRValidation(t *testing.T) {
	server, token := setupTestServer(t)

	incomplete := sampleFitting()
	incomplete.VendorName = "  "
	resp := do(t, "POST", server.URL+"/api/qr", token, map[string]any{"fitting": incomplete})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing vendor, got %d", resp.StatusCode)
	}

	resp = do(t, "POST", server.URL+"/api/qr", token, map[string]any{
		"fitting": sampleFitting(),
		"options": map[string]any{"errorCorrectionLevel": "Z"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad level, got %d", resp.StatusCode)
	}

	big := sampleFitting()
	big.Specifications = strings.Repeat("x", 4000)
	resp = do(t, "POST", server.URL+"/api/qr", token, map[string]any{
		"fitting": big,
		"options": map[string]any{"errorCorrectionLevel": "H"},
	})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500 for oversized payload, got %d", resp.StatusCode)
	}
	var e map[string]string
	json.NewDecoder(resp.Body).Decode(&e)
	if e["error"] != "failed to generate QR code" {
		t.Errorf("unexpected error %q", e["error"])
	}
}

func TestGenerateQRNormalisesInput(t *testing.T) {
	server, deps := newTestServer(t)
	deps.Metrics = metrics.New()
	hash, _ := auth.HashPassword("password")
	store.CreateUser(context.Background(), deps.DB, "admin", hash, model.RoleAdmin)
	token := login(t, server, "admin", "password")

	padded := sampleFitting()
	padded.BatchID = " 24-01-1234\t"
	padded.VendorName = "Tata Steel Limited  "
	resp := do(t, "POST", server.URL+"/api/qr", token, map[string]any{"fitting": padded, "format": " SVG "})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out qrResponse
	json.NewDecoder(resp.Body).Decode(&out)
	if out.Format != qrcert.FormatSVG || out.Filename != "QR_24-01-1234_2024-12-15.svg" {
		t.Errorf("unexpected format %q / filename %q", out.Format, out.Filename)
	}
	if !strings.Contains(out.Payload, `"id":"24-01-1234"`) || !strings.Contains(out.Payload, `"vendor":"Tata Steel Limited"`) {
		t.Errorf("expected trimmed payload, got %s", out.Payload)
	}

	for i := range 3 {
		resp = do(t, "POST", server.URL+"/api/qr", token, map[string]any{"fitting": sampleFitting(), "format": fmt.Sprintf("gif-%d", i)})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400 for unknown format, got %d", resp.StatusCode)
		}
	}
	if got := testutil.CollectAndCount(deps.Metrics.QRGenerations); got != 1 {
		t.Errorf("expected only the svg series, got %d", got)
	}
}

func TestDownloadQRSVG(t *testing.T) {
	server, token := setupTestServer(t)

	resp := do(t, "POST", server.URL+"/api/qr/download", token, map[string]any{"fitting": sampleFitting(), "format": "svg"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "QR_24-01-1234_2024-12-15.svg") {
		t.Errorf("unexpected disposition %q", cd)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(body, []byte("<svg")) {
		t.Errorf("expected svg markup, got %.40q", body)
	}
}

func TestDecodeQR(t *testing.T) {
	server, token := setupTestServer(t)

	payload, _ := qrcert.NewCodec().Encode(sampleFitting())
	resp := do(t, "POST", server.URL+"/api/qr/decode", token, map[string]string{"payload": payload})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out decodeResponse
	json.NewDecoder(resp.Body).Decode(&out)
	if out.Fitting == nil || *out.Fitting != sampleFitting() {
		t.Errorf("round trip mismatch: %+v", out.Fitting)
	}

	resp = do(t, "POST", server.URL+"/api/qr/decode", token, map[string]string{"payload": "not json"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", resp.StatusCode)
	}
}

func TestReports(t *testing.T) {
	server, token := setupTestServer(t)

	resp := do(t, "GET", server.URL+"/api/vendors", token, nil)
	var vendors []model.Vendor
	json.NewDecoder(resp.Body).Decode(&vendors)
	if len(vendors) != 5 || vendors[0].Grade != "A" {
		t.Errorf("unexpected vendors %+v", vendors)
	}

	resp = do(t, "GET", server.URL+"/api/integrations", token, nil)
	var systems []model.IntegrationSystem
	json.NewDecoder(resp.Body).Decode(&systems)
	if len(systems) != 5 {
		t.Errorf("expected 5 systems, got %d", len(systems))
	}

	resp = do(t, "POST", server.URL+"/api/integrations/refresh", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from refresh, got %d", resp.StatusCode)
	}

	resp = do(t, "GET", server.URL+"/api/analytics/zones?zone=Eastern+Railway", token, nil)
	var zones []struct {
		Zone      string  `json:"zone"`
		RiskScore float64 `json:"riskScore"`
	}
	json.NewDecoder(resp.Body).Decode(&zones)
	if len(zones) != 1 || zones[0].Zone != "Eastern Railway" || zones[0].RiskScore != 9 {
		t.Errorf("unexpected zone summary %+v", zones)
	}
}

func TestUsersAPIFlow(t *testing.T) {
	server, token := setupTestServer(t)

	resp := do(t, "POST", server.URL+"/api/users", token, map[string]string{
		"username": "inspector", "password": "password", "role": model.RoleInspector,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created model.User
	json.NewDecoder(resp.Body).Decode(&created)

	resp = do(t, "POST", server.URL+"/api/users", token, map[string]string{
		"username": "x", "password": "password", "role": "manager",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown role, got %d", resp.StatusCode)
	}

	inspectorToken := login(t, server, "inspector", "password")
	resp = do(t, "POST", server.URL+"/api/qr", inspectorToken, map[string]any{"fitting": sampleFitting()})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected inspector to generate QR, got %d", resp.StatusCode)
	}
}
