package db

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDSN(t *testing.T) {
	got := dsn("data/rail.sqlite3")
	if !strings.HasPrefix(got, "file:data/rail.sqlite3?") {
		t.Errorf("unexpected dsn prefix: %s", got)
	}
	for _, p := range []string{"journal_mode%28WAL%29", "foreign_keys%28ON%29"} {
		if !strings.Contains(got, p) {
			t.Errorf("expected %s in dsn %s", p, got)
		}
	}
}

func TestOpenFileAndSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sqlite3")
	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := Seed(database); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	// Seeding twice must not duplicate rows.
	if err := Seed(database); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	for table, want := range map[string]int{
		"fittings":            len(seedFittings),
		"vendors":             len(seedVendors),
		"integration_systems": len(seedIntegrations),
	} {
		var got int
		if err := database.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&got); err != nil {
			t.Fatalf("counting %s: %v", table, err)
		}
		if got != want {
			t.Errorf("%s: expected %d rows, got %d", table, want, got)
		}
	}

	var fk int
	if err := database.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("reading pragma: %v", err)
	}
	if fk != 1 {
		t.Error("expected foreign keys to be enabled")
	}
}
