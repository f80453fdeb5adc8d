// Package export renders inventory listings as downloadable CSV, Excel and
// JSON files.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/railsuraksha/railsuraksha/internal/inventory"
	"github.com/railsuraksha/railsuraksha/internal/model"
)

// Export formats.
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatJSON  = "json"
	FormatXLSX  = "xlsx"
)

// InventoryPrefix is the filename prefix for inventory exports.
const InventoryPrefix = "railsuraksha_inventory"

// ErrUnknownFormat is returned for an unsupported export format.
var ErrUnknownFormat = errors.New("unknown export format")

// utf8BOM lets spreadsheet applications detect UTF-8 encoding.
const utf8BOM = "\uFEFF"

// Header is the fixed, human-readable column list.
var Header = []string{
	"Batch ID",
	"Vendor",
	"Item Type",
	"Zone",
	"Location",
	"Manufacture Date",
	"Supply Date",
	"Warranty Status",
	"Risk Level",
	"Status",
	"Last Scanned",
}

// Record is one formatted inventory row. JSON keys follow Header.
type Record struct {
	BatchID         string `json:"Batch ID"`
	Vendor          string `json:"Vendor"`
	ItemType        string `json:"Item Type"`
	Zone            string `json:"Zone"`
	Location        string `json:"Location"`
	ManufactureDate string `json:"Manufacture Date"`
	SupplyDate      string `json:"Supply Date"`
	WarrantyStatus  string `json:"Warranty Status"`
	RiskLevel       string `json:"Risk Level"`
	Status          string `json:"Status"`
	LastScanned     string `json:"Last Scanned"`
}

// Values returns the record cells in Header order.
func (r Record) Values() []string {
	return []string{
		r.BatchID,
		r.Vendor,
		r.ItemType,
		r.Zone,
		r.Location,
		r.ManufactureDate,
		r.SupplyDate,
		r.WarrantyStatus,
		r.RiskLevel,
		r.Status,
		r.LastScanned,
	}
}

// Format converts fittings into export records.
func Format(items []model.Fitting) []Record {
	records := make([]Record, 0, len(items))
	for _, it := range items {
		records = append(records, Record{
			BatchID:         it.BatchID,
			Vendor:          it.Vendor,
			ItemType:        it.ItemType,
			Zone:            it.Zone,
			Location:        it.Location,
			ManufactureDate: formatDate(it.ManufactureDate),
			SupplyDate:      formatDate(it.SupplyDate),
			WarrantyStatus:  capitalize(it.WarrantyStatus),
			RiskLevel:       capitalize(it.RiskLevel),
			Status:          capitalize(it.Status),
			LastScanned:     formatDate(it.LastScanned),
		})
	}
	return records
}

// formatDate renders an ISO date as M/D/YYYY. Unparseable values pass
// through unchanged.
func formatDate(s string) string {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("1/2/2006")
		}
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// quoteCell wraps a cell in quotes, doubling inner quotes, if it contains a
// comma, newline or quote.
func quoteCell(v string) string {
	if strings.ContainsAny(v, ",\n\"") {
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return v
}

// CSV renders records as comma-separated lines joined by "\n".
func CSV(records []Record) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(Header, ","))
	for _, r := range records {
		b.WriteByte('\n')
		values := r.Values()
		for i, v := range values {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteCell(v))
		}
	}
	return []byte(b.String())
}

// ExcelCSV renders records as CSV prefixed with a UTF-8 byte-order mark.
func ExcelCSV(records []Record) []byte {
	return append([]byte(utf8BOM), CSV(records)...)
}

// Envelope wraps exported records with export metadata.
type Envelope struct {
	ExportDate     string            `json:"exportDate"`
	TotalRecords   int               `json:"totalRecords"`
	AppliedFilters inventory.Applied `json:"appliedFilters"`
	Data           []Record          `json:"data"`
}

// JSON renders records in a pretty-printed metadata envelope.
func JSON(records []Record, filter inventory.Filter, now time.Time) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	env := Envelope{
		ExportDate:     now.UTC().Format("2006-01-02T15:04:05.000Z"),
		TotalRecords:   len(records),
		AppliedFilters: filter.Applied(),
		Data:           records,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return nil, fmt.Errorf("encoding export envelope: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// File is an export ready to be offered for download.
type File struct {
	Format      string
	Name        string
	ContentType string
	Data        []byte
}

// Filename returns "<prefix>_<YYYY-MM-DD>.<ext>".
func Filename(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.UTC().Format("2006-01-02"), ext)
}

// Inventory renders the filtered items in the requested format.
func Inventory(items []model.Fitting, filter inventory.Filter, format string, now time.Time) (*File, error) {
	records := Format(items)

	switch format {
	case FormatCSV, "":
		return &File{
			Format:      FormatCSV,
			Name:        Filename(InventoryPrefix, "csv", now),
			ContentType: "text/csv; charset=utf-8",
			Data:        CSV(records),
		}, nil
	case FormatExcel:
		return &File{
			Format:      FormatExcel,
			Name:        Filename(InventoryPrefix, "csv", now),
			ContentType: "text/csv; charset=utf-8",
			Data:        ExcelCSV(records),
		}, nil
	case FormatJSON:
		data, err := JSON(records, filter, now)
		if err != nil {
			return nil, err
		}
		return &File{
			Format:      FormatJSON,
			Name:        Filename(InventoryPrefix, "json", now),
			ContentType: "application/json; charset=utf-8",
			Data:        data,
		}, nil
	case FormatXLSX:
		data, err := XLSX(records)
		if err != nil {
			return nil, err
		}
		return &File{
			Format:      FormatXLSX,
			Name:        Filename(InventoryPrefix, "xlsx", now),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
