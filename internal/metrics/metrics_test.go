package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()

	m.QRGenerated("png", nil)
	m.QRGenerated("png", nil)
	m.QRGenerated("svg", errors.New("boom"))
	m.Exported("csv")
	m.Filtered()
	m.Refreshed("cron", nil)

	if got := testutil.ToFloat64(m.QRGenerations.WithLabelValues("png", ResultOK)); got != 2 {
		t.Errorf("expected 2 png generations, got %v", got)
	}
	if got := testutil.ToFloat64(m.QRGenerations.WithLabelValues("svg", ResultError)); got != 1 {
		t.Errorf("expected 1 failed svg generation, got %v", got)
	}
	if got := testutil.ToFloat64(m.Exports.WithLabelValues("csv")); got != 1 {
		t.Errorf("expected 1 csv export, got %v", got)
	}
	if got := testutil.ToFloat64(m.FilterQueries); got != 1 {
		t.Errorf("expected 1 filter query, got %v", got)
	}
}

func TestQRFormatLabelBounded(t *testing.T) {
	m := New()

	for i := range 50 {
		m.QRGenerated(fmt.Sprintf("bogus-%d", i), errors.New("bad format"))
	}
	m.QRGenerated("svg", nil)

	if got := testutil.CollectAndCount(m.QRGenerations); got != 2 {
		t.Errorf("expected 2 series, got %d", got)
	}
	if got := testutil.ToFloat64(m.QRGenerations.WithLabelValues(FormatInvalid, ResultError)); got != 50 {
		t.Errorf("expected 50 invalid generations, got %v", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.QRGenerated("png", nil)
	m.Exported("csv")
	m.Filtered()
	m.Refreshed("manual", nil)
}

func TestHandler(t *testing.T) {
	m := New()
	m.Exported("json")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `railsuraksha_inventory_exports_total{format="json"} 1`) {
		t.Errorf("exposition missing export counter:\n%s", body)
	}
}
