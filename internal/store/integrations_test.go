package store

import (
	"context"
	"testing"
	"time"

	"github.com/railsuraksha/railsuraksha/internal/db"
	"github.com/railsuraksha/railsuraksha/internal/model"
)

func TestListAndUpdateIntegrations(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	systems, err := ListIntegrations(ctx, database)
	if err != nil {
		t.Fatalf("ListIntegrations: %v", err)
	}
	if len(systems) != 5 {
		t.Fatalf("expected 5 systems, got %d", len(systems))
	}
	if systems[0].ID != "udm" {
		t.Errorf("expected udm first, got %q", systems[0].ID)
	}

	s := systems[0]
	s.Status = model.IntegrationWarning
	s.ResponseTimeMs = 999
	s.ErrorCount = 7
	s.LastSync = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := UpdateIntegration(ctx, database, s); err != nil {
		t.Fatalf("UpdateIntegration: %v", err)
	}

	systems, _ = ListIntegrations(ctx, database)
	got := systems[0]
	if got.Status != model.IntegrationWarning || got.ResponseTimeMs != 999 || got.ErrorCount != 7 {
		t.Errorf("update not stored: %+v", got)
	}
	if !got.LastSync.Equal(s.LastSync) {
		t.Errorf("expected last sync %v, got %v", s.LastSync, got.LastSync)
	}
}

func TestUpdateIntegrationMissing(t *testing.T) {
	database := db.NewTestDB(t)

	err := UpdateIntegration(context.Background(), database, model.IntegrationSystem{ID: "nope", Status: model.IntegrationConnected})
	if err == nil {
		t.Fatal("expected error for unknown system")
	}
}
