package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cdr.dev/slog"
	"cdr.dev/slog/sloggers/sloghuman"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SailQuote/internal/engine"
	"github.com/piwi3910/SailQuote/internal/model"
	"github.com/piwi3910/SailQuote/internal/order"
	"github.com/piwi3910/SailQuote/internal/project"
	"github.com/piwi3910/SailQuote/internal/store"
)

func quietLog() slog.Logger {
	return slog.Make(sloghuman.Sink(io.Discard))
}

// withHome points the per-user data directory at a temp dir.
func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SAILQUOTE_CONFIG", "")
	t.Setenv("SAILQUOTE_LOG_LEVEL", "")
	return home
}

func writeDesign(t *testing.T, dir string) string {
	t.Helper()
	cfg := model.NewShadeConfiguration()
	cfg.SetCorners(4)
	cfg.FabricType = "shade-cloth"
	cfg.FabricColor = "Lime Fizz"
	for _, k := range model.EdgeKeys(4) {
		cfg.Measurements[k] = 3000
	}
	path := filepath.Join(dir, "patio.json")
	require.NoError(t, project.SaveDesign(path, model.NewSavedDesign("Patio", "", cfg)))
	return path
}

func TestRunUsageErrors(t *testing.T) {
	withHome(t)
	ctx := context.Background()

	var uerr usageError
	assert.ErrorAs(t, run(ctx, nil, io.Discard, quietLog()), &uerr)
	assert.ErrorAs(t, run(ctx, []string{"frobnicate"}, io.Discard, quietLog()), &uerr)
	assert.ErrorAs(t, run(ctx, []string{"quote"}, io.Discard, quietLog()), &uerr)
	err := run(ctx, []string{"quote", "--bogus", "x.json"}, io.Discard, quietLog())
	require.ErrorAs(t, err, &uerr)
	assert.True(t, strings.HasPrefix(err.Error(), "quote: "), err.Error())
}

func TestRunQuote(t *testing.T) {
	home := withHome(t)
	path := writeDesign(t, home)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"quote", path}, &out, quietLog()))
	assert.Contains(t, out.String(), "Patio")
	assert.Contains(t, out.String(), "9.00 m²")
	assert.Contains(t, out.String(), "$507.00")

	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	require.NoError(t, err)
	require.NotEmpty(t, cfg.RecentDesigns)
	assert.Equal(t, path, cfg.RecentDesigns[0])
}

func TestRunQuoteJSONInCurrency(t *testing.T) {
	home := withHome(t)
	path := writeDesign(t, home)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"quote", "--json", "--currency", "aud", path}, &out, quietLog()))

	var calc model.ShadeCalculations
	require.NoError(t, json.Unmarshal(out.Bytes(), &calc))
	assert.True(t, calc.Valid)
	assert.Equal(t, "AUD", calc.Currency)
	assert.Equal(t, "770.64", calc.TotalPrice.String())
}

func TestRunQuoteInvalidDesign(t *testing.T) {
	home := withHome(t)
	cfg := model.NewShadeConfiguration()
	cfg.SetCorners(3)
	cfg.FabricType = "shade-cloth"
	cfg.FabricColor = "Lime Fizz"
	cfg.Measurements = map[string]float64{"AB": 1000, "BC": 1000, "CA": 5000}
	path := filepath.Join(home, "bad.json")
	require.NoError(t, project.SaveDesign(path, model.NewSavedDesign("Bad", "", cfg)))

	var out bytes.Buffer
	err := run(context.Background(), []string{"quote", path}, &out, quietLog())
	require.Error(t, err)
	assert.Contains(t, out.String(), "!")
}

func TestRunImportCatalog(t *testing.T) {
	home := withHome(t)
	csvPath := filepath.Join(home, "fabrics.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Fabric,Colour,Price\nmesh-60,Teal,30\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"import-catalog", csvPath}, &out, quietLog()))
	assert.True(t, strings.HasPrefix(out.String(), "imported 1 fabrics (1 new)"))

	cat, err := project.LoadCatalog(project.DefaultCatalogPath())
	require.NoError(t, err)
	assert.NotNil(t, cat.FindFabric("mesh-60"))
	assert.NotNil(t, cat.FindFabric("shade-cloth"))
}

func TestRunBackupRestore(t *testing.T) {
	home := withHome(t)
	designs := model.NewDesignStore()
	designs.Add(model.NewSavedDesign("Pool", "", model.NewShadeConfiguration()))
	require.NoError(t, project.SaveDesigns(project.DefaultDesignsPath(), designs))

	backupPath := filepath.Join(home, "backup.json")
	require.NoError(t, run(context.Background(), []string{"backup", backupPath}, io.Discard, quietLog()))

	require.NoError(t, os.Remove(project.DefaultDesignsPath()))
	require.NoError(t, run(context.Background(), []string{"restore", backupPath}, io.Discard, quietLog()))

	restored, err := project.LoadDesigns(project.DefaultDesignsPath())
	require.NoError(t, err)
	require.Len(t, restored.Designs, 1)
	assert.Equal(t, "Pool", restored.Designs[0].Name)
}

func TestParseLevel(t *testing.T) {
	lvl, err := parseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, err = parseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)

	_, err = parseLevel("loud")
	assert.Error(t, err)
}

func TestRunDesignsListAndRemove(t *testing.T) {
	withHome(t)
	lib := model.NewDesignStore()
	keep := model.NewSavedDesign("Deck", "", model.NewShadeConfiguration())
	drop := model.NewSavedDesign("Carport", "", model.NewShadeConfiguration())
	lib.Add(keep)
	lib.Add(drop)
	require.NoError(t, project.SaveDesigns(project.DefaultDesignsPath(), lib))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"designs"}, &out, quietLog()))
	assert.Contains(t, out.String(), "Deck")
	assert.Contains(t, out.String(), "Carport")

	require.NoError(t, run(context.Background(), []string{"designs", "--remove", drop.ID}, io.Discard, quietLog()))
	lib, err := project.LoadDesigns(project.DefaultDesignsPath())
	require.NoError(t, err)
	assert.Equal(t, []string{"Deck"}, lib.Names())

	assert.Error(t, run(context.Background(), []string{"designs", "--remove", "nope"}, io.Discard, quietLog()))
}

func TestRunTicket(t *testing.T) {
	home := withHome(t)
	dbPath := filepath.Join(home, "orders.db")

	cfg := model.NewShadeConfiguration()
	cfg.SetCorners(4)
	cfg.MeasurementOption = model.MeasureAdjustToFit
	cfg.EdgeType = model.EdgeWebbing
	cfg.FabricType = "shade-cloth"
	cfg.FabricColor = "Lime Fizz"
	for i, k := range model.EdgeKeys(4) {
		cfg.Measurements[k] = 3000
		cfg.FixingHeights[i] = 2400
		cfg.FixingTypes[i] = model.FixingPost
		cfg.EyeOrientations[i] = model.EyeVertical
	}
	eng := engine.Default()
	ack := order.Acknowledgments{
		CustomManufactured:       true,
		MeasurementsAccurate:     true,
		InstallationNotIncluded:  true,
		StructuralResponsibility: true,
	}
	o, err := order.Build(cfg, eng.Calculate(cfg), eng.Catalog(), ack)
	require.NoError(t, err)

	db, err := store.Open(dbPath)
	require.NoError(t, err)
	repo := store.New(db)
	require.NoError(t, repo.Init(context.Background()))
	require.NoError(t, repo.SaveOrder(context.Background(), o))
	require.NoError(t, db.Close())

	outDir := filepath.Join(home, "tickets")
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"ticket", "--db", dbPath, "--out", outDir, o.ID}, &out, quietLog()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	for _, p := range lines {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	err = run(context.Background(), []string{"ticket", "--db", dbPath, "missing"}, io.Discard, quietLog())
	assert.ErrorIs(t, err, store.ErrNotFound)
}
