package model

import (
	"reflect"
	"testing"
)

func completeFitting() FittingData {
	return FittingData{
		VendorName:      "Tata Steel Limited",
		LotNumber:       "LOT-2024-001",
		ItemType:        "Rail Joint",
		ManufactureDate: "2024-01-15",
		SupplyDate:      "2024-02-01",
		BatchID:         "24-01-1234",
	}
}

func TestMissingFieldsComplete(t *testing.T) {
	if missing := completeFitting().MissingFields(); len(missing) != 0 {
		t.Errorf("expected no missing fields, got %v", missing)
	}
}

func TestMissingFieldsWhitespaceOnly(t *testing.T) {
	d := completeFitting()
	d.LotNumber = "   "
	d.BatchID = "\t\n"

	got := d.MissingFields()
	want := []string{"lotNumber", "batchId"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MissingFields() = %v, want %v", got, want)
	}
}

func TestMissingFieldsOptionalIgnored(t *testing.T) {
	d := completeFitting()
	d.WarrantyPeriod = ""
	d.Specifications = " "
	if missing := d.MissingFields(); len(missing) != 0 {
		t.Errorf("optional fields should not be required, got %v", missing)
	}
}

func TestTrimmed(t *testing.T) {
	d := completeFitting()
	d.VendorName = "  Tata Steel Limited\t"
	d.BatchID = "\n24-01-1234 "
	d.Specifications = " IS 2062 "

	want := completeFitting()
	want.Specifications = "IS 2062"
	if got := d.Trimmed(); !reflect.DeepEqual(got, want) {
		t.Errorf("Trimmed() = %+v, want %+v", got, want)
	}
}
