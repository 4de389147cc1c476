package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SailQuote/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultUnit = model.UnitImperial
	cfg.DefaultCurrency = "AUD"
	cfg.ListenAddr = ":9090"
	cfg.RecentDesigns = []string{"/tmp/patio.json", "/tmp/pool.json"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if loaded.DefaultUnit != model.UnitImperial {
		t.Errorf("expected imperial default unit, got %s", loaded.DefaultUnit)
	}
	if loaded.DefaultCurrency != "AUD" {
		t.Errorf("expected AUD, got %s", loaded.DefaultCurrency)
	}
	if loaded.ListenAddr != ":9090" {
		t.Errorf("expected :9090, got %s", loaded.ListenAddr)
	}
	if len(loaded.RecentDesigns) != 2 {
		t.Errorf("expected 2 recent designs, got %d", len(loaded.RecentDesigns))
	}
}

func TestLoadAppConfig_MissingFile(t *testing.T) {
	loaded, err := LoadAppConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if loaded.ListenAddr != model.DefaultAppConfig().ListenAddr {
		t.Errorf("expected default listen address, got %s", loaded.ListenAddr)
	}
	if loaded.RecentDesigns == nil {
		t.Error("RecentDesigns should never be nil")
	}
}

func TestLoadAppConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"log_level":"debug"}`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("expected debug, got %s", loaded.LogLevel)
	}
	if loaded.DefaultEdgeType != model.EdgeWebbing {
		t.Errorf("expected default edge type to survive, got %s", loaded.DefaultEdgeType)
	}
}

func TestLoadAppConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadAppConfig(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
