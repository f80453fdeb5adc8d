package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/railsuraksha/railsuraksha/internal/inventory"
	"github.com/railsuraksha/railsuraksha/internal/model"
)

var exportTime = time.Date(2024, 12, 14, 10, 30, 0, 0, time.UTC)

func sampleItems() []model.Fitting {
	return []model.Fitting{
		{
			ID: "FIT-001", BatchID: "24-01-1234", Vendor: "Tata Steel Limited", ItemType: "Rail Joint",
			Zone: "Northern Railway", Location: "Section A, Track 1",
			ManufactureDate: "2024-01-15", SupplyDate: "2024-02-01",
			WarrantyStatus: "active", RiskLevel: "low", LastScanned: "2024-12-10", Status: "active",
		},
		{
			ID: "FIT-009", BatchID: "24-03-0001", Vendor: `Acme "Rail" Works`, ItemType: "Elastic\nClip",
			Zone: "Central Railway", Location: "Yard 4",
			ManufactureDate: "unknown", SupplyDate: "2024-03-02",
			WarrantyStatus: "expired", RiskLevel: "high", LastScanned: "2024-12-01", Status: "maintenance",
		},
	}
}

func TestFormat(t *testing.T) {
	r := Format(sampleItems())[0]
	if r.ManufactureDate != "1/15/2024" || r.SupplyDate != "2/1/2024" || r.LastScanned != "12/10/2024" {
		t.Errorf("unexpected dates: %+v", r)
	}
	if r.WarrantyStatus != "Active" || r.RiskLevel != "Low" || r.Status != "Active" {
		t.Errorf("unexpected capitalisation: %+v", r)
	}

	r = Format(sampleItems())[1]
	if r.ManufactureDate != "unknown" {
		t.Errorf("unparseable date should pass through, got %q", r.ManufactureDate)
	}
}

func TestCSVQuoting(t *testing.T) {
	out := string(CSV(Format(sampleItems())))
	lines := strings.SplitN(out, "\n", 2)

	if lines[0] != strings.Join(Header, ",") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(out, `"Section A, Track 1"`) {
		t.Error("expected comma-containing cell to be quoted")
	}
	if !strings.Contains(out, `"Acme ""Rail"" Works"`) {
		t.Error("expected inner quotes to be doubled")
	}
	if !strings.Contains(out, "\"Elastic\nClip\"") {
		t.Error("expected newline-containing cell to be quoted")
	}
	if strings.Contains(out, `"Tata Steel Limited"`) {
		t.Error("plain cells must not be quoted")
	}
}

func TestCSVReparse(t *testing.T) {
	items := sampleItems()
	records := Format(items)

	rows, err := csv.NewReader(bytes.NewReader(CSV(records))).ReadAll()
	if err != nil {
		t.Fatalf("re-parsing CSV: %v", err)
	}
	if len(rows) != len(records)+1 {
		t.Fatalf("expected %d rows, got %d", len(records)+1, len(rows))
	}
	for i, r := range records {
		want := r.Values()
		for j := range want {
			if rows[i+1][j] != want[j] {
				t.Errorf("row %d col %d: got %q, want %q", i+1, j, rows[i+1][j], want[j])
			}
		}
	}
}

func TestCSVEmpty(t *testing.T) {
	if got := string(CSV(nil)); got != strings.Join(Header, ",") {
		t.Errorf("expected header only, got %q", got)
	}
}

func TestExcelCSV(t *testing.T) {
	records := Format(sampleItems())
	out := ExcelCSV(records)
	if !bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatal("expected UTF-8 BOM prefix")
	}
	if !bytes.Equal(out[3:], CSV(records)) {
		t.Error("expected body identical to plain CSV")
	}
}

func TestJSONEnvelope(t *testing.T) {
	f := inventory.Filter{Zone: "Northern Railway", Vendor: inventory.All, Warranty: inventory.All, Risk: inventory.All}
	items := f.Apply(sampleItems())

	data, err := JSON(Format(items), f, exportTime)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if !bytes.Contains(data, []byte("\n  \"totalRecords\": 1,")) {
		t.Errorf("expected 2-space indentation, got:\n%s", data)
	}

	var env map[string]any
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env["exportDate"] != "2024-12-14T10:30:00.000Z" {
		t.Errorf("unexpected exportDate %v", env["exportDate"])
	}
	if env["totalRecords"] != float64(1) {
		t.Errorf("expected totalRecords 1, got %v", env["totalRecords"])
	}

	filters := env["appliedFilters"].(map[string]any)
	if filters["zoneFilter"] != "Northern Railway" {
		t.Errorf("unexpected zoneFilter %v", filters["zoneFilter"])
	}
	for _, key := range []string{"searchTerm", "vendorFilter", "warrantyFilter", "riskFilter"} {
		v, ok := filters[key]
		if !ok || v != nil {
			t.Errorf("expected %s to be present and null, got %v (present=%v)", key, v, ok)
		}
	}

	rows := env["data"].([]any)
	if len(rows) != 1 || rows[0].(map[string]any)["Batch ID"] != "24-01-1234" {
		t.Errorf("unexpected data %v", rows)
	}
}

func TestJSONEmptyData(t *testing.T) {
	data, err := JSON(nil, inventory.Filter{}, exportTime)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if !bytes.Contains(data, []byte(`"data": []`)) {
		t.Errorf("expected empty data array, got:\n%s", data)
	}
}

func TestXLSX(t *testing.T) {
	records := Format(sampleItems())
	data, err := XLSX(records)
	if err != nil {
		t.Fatalf("XLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Batch ID" || rows[1][0] != "24-01-1234" || rows[2][4] != "Yard 4" {
		t.Errorf("unexpected workbook contents: %v", rows)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(InventoryPrefix, "csv", exportTime); got != "railsuraksha_inventory_2024-12-14.csv" {
		t.Errorf("unexpected filename %q", got)
	}
}

func TestInventoryFormats(t *testing.T) {
	tests := []struct {
		format      string
		name        string
		contentType string
	}{
		{FormatCSV, "railsuraksha_inventory_2024-12-14.csv", "text/csv; charset=utf-8"},
		{FormatExcel, "railsuraksha_inventory_2024-12-14.csv", "text/csv; charset=utf-8"},
		{FormatJSON, "railsuraksha_inventory_2024-12-14.json", "application/json; charset=utf-8"},
		{FormatXLSX, "railsuraksha_inventory_2024-12-14.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	}

	for _, tt := range tests {
		file, err := Inventory(sampleItems(), inventory.Filter{}, tt.format, exportTime)
		if err != nil {
			t.Errorf("%s: %v", tt.format, err)
			continue
		}
		if file.Name != tt.name || file.ContentType != tt.contentType || len(file.Data) == 0 {
			t.Errorf("%s: unexpected file %q %q (%d bytes)", tt.format, file.Name, file.ContentType, len(file.Data))
		}
	}

	if _, err := Inventory(nil, inventory.Filter{}, "pdf", exportTime); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}
