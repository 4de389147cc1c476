package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SailQuote/internal/model"
)

func TestExportImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup", "sailquote-backup.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultCurrency = "NZD"
	designs := model.NewDesignStore()
	designs.Add(model.NewSavedDesign("Patio", "", squareConfiguration()))

	backup := NewBackup(cfg, model.DefaultCatalog(), DefaultPricingProfile(), designs)
	if err := ExportAllData(path, backup); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	loaded, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if loaded.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %s", loaded.Version)
	}
	if loaded.Config.DefaultCurrency != "NZD" {
		t.Errorf("expected NZD, got %s", loaded.Config.DefaultCurrency)
	}
	if len(loaded.Designs.Designs) != 1 {
		t.Errorf("expected 1 design, got %d", len(loaded.Designs.Designs))
	}
	if len(loaded.Catalog.Fabrics) != len(model.DefaultCatalog().Fabrics) {
		t.Errorf("expected catalog to round-trip, got %d fabrics", len(loaded.Catalog.Fabrics))
	}
}

func TestImportAllData_MissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte(`{"config":{}}`), 0644); err != nil {
		t.Fatalf("failed to write backup: %v", err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Error("expected error for backup without version")
	}
}

func TestImportAllData_FillsMissingSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte(`{"version":"1.0.0","config":{}}`), 0644); err != nil {
		t.Fatalf("failed to write backup: %v", err)
	}

	loaded, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if loaded.Config.RecentDesigns == nil || loaded.Designs.Designs == nil {
		t.Error("slices should never be nil after import")
	}
	if loaded.Pricing.Rates.Base == "" {
		t.Error("missing pricing section should fall back to defaults")
	}
}
