package importer

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/SailQuote/internal/model"
	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Fabric,Colour,Price\nmesh,Teal,30\nmesh,Sand,30\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Fabric;Colour;Price\nmesh;Teal;30\nmesh;Sand;30\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Fabric\tColour\tPrice\nmesh\tTeal\t30\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_Aliases(t *testing.T) {
	row := []string{"SKU", "Colour", "Price per sqm", "Shade Factor", "Hex", "Warranty"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Fabric != 0 || mapping.Color != 1 || mapping.Price != 2 {
		t.Errorf("unexpected required columns: %+v", mapping)
	}
	if mapping.ShadeFactor != 3 || mapping.Hex != 4 || mapping.Warranty != 5 {
		t.Errorf("unexpected optional columns: %+v", mapping)
	}
	if mapping.Label != -1 || mapping.ColorPrice != -1 {
		t.Errorf("absent columns should be -1: %+v", mapping)
	}
}

func TestDetectColumns_NoHeaderFallsBackToPositions(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"mesh-60", "Mesh 60", "30", "5", "Teal"})
	if isHeader {
		t.Error("data row should not be treated as a header")
	}
	if mapping != positionalMapping {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCatalogCSVFromReader_GroupsColours(t *testing.T) {
	data := "Fabric,Name,Price,Warranty,Colour,Hex,Shade Factor,Colour Price\n" +
		"Mesh-60,Mesh 60,30,5,Teal,0f766e,80,\n" +
		"mesh-60,,,,Sand,#e7d4b5,75,\n" +
		"canvas,Canvas,$55.50,8,Black,#000000,98%,60\n"
	result := ImportCatalogCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Catalog.Fabrics) != 2 {
		t.Fatalf("expected 2 fabrics, got %d", len(result.Catalog.Fabrics))
	}

	mesh := result.Catalog.FindFabric("mesh-60")
	if mesh == nil {
		t.Fatal("fabric ids should be lower-cased")
	}
	if mesh.Label != "Mesh 60" || mesh.PricePerSqM != 30 || mesh.WarrantyYears != 5 {
		t.Errorf("unexpected fabric fields: %+v", mesh)
	}
	if len(mesh.Colors) != 2 {
		t.Fatalf("expected 2 colours, got %d", len(mesh.Colors))
	}
	if mesh.Colors[0].Hex != "#0f766e" {
		t.Errorf("expected hex to gain a leading #, got %q", mesh.Colors[0].Hex)
	}
	if mesh.Colors[1].TextColor != model.ContrastText("#e7d4b5") {
		t.Errorf("text colour should be derived from the swatch, got %q", mesh.Colors[1].TextColor)
	}

	canvas := result.Catalog.FindFabric("canvas")
	if canvas.PricePerSqM != 55.5 {
		t.Errorf("expected currency symbol to be stripped, got %f", canvas.PricePerSqM)
	}
	black := canvas.FindColor("black")
	if black == nil || black.ShadeFactor != 98 || black.PricePerSqM != 60 {
		t.Errorf("unexpected colour: %+v", black)
	}
}

func TestImportCatalogCSVFromReader_MissingRequiredColumns(t *testing.T) {
	data := "Fabric,Name\nmesh,Mesh\n"
	result := ImportCatalogCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Color") || !strings.Contains(result.Errors[0], "Price") {
		t.Errorf("error should list missing columns, got %q", result.Errors[0])
	}
}

func TestImportCatalogCSVFromReader_RowErrors(t *testing.T) {
	data := "Fabric,Colour,Price,Shade\n" +
		"mesh,Teal,30,80\n" +
		",Sand,30,80\n" +
		"mesh,,30,80\n" +
		"mesh,Red,abc,80\n" +
		"mesh,Blue,30,150\n" +
		"mesh,Teal,30,80\n"
	result := ImportCatalogCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 4 {
		t.Errorf("expected 4 errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if len(result.Catalog.Fabrics) != 1 || len(result.Catalog.Fabrics[0].Colors) != 1 {
		t.Errorf("expected one fabric with one colour, got %+v", result.Catalog.Fabrics)
	}

	foundDuplicate := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Duplicate colour") {
			foundDuplicate = true
		}
	}
	if !foundDuplicate {
		t.Errorf("expected duplicate colour warning, got %v", result.Warnings)
	}
}

func TestImportCatalogCSVFromReader_FabricWithoutPrice(t *testing.T) {
	data := "Fabric,Colour,Price\nmesh,Teal,\n"
	result := ImportCatalogCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "no price") {
		t.Errorf("expected missing price error, got %v", result.Errors)
	}
}

func TestImportCatalogCSV_DetectsDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fabrics.csv")
	data := "Fabric;Colour;Price\nmesh;Teal;30\nmesh;Sand;30\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	result := ImportCatalog(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Catalog.Fabrics) != 1 || len(result.Catalog.Fabrics[0].Colors) != 2 {
		t.Errorf("unexpected catalog: %+v", result.Catalog)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "semicolon") {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCatalogCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	result := ImportCatalogCSV(path)
	if len(result.Errors) != 1 || result.Errors[0] != "File is empty" {
		t.Errorf("expected empty file error, got %v", result.Errors)
	}
}

func TestImportCatalogCSV_MissingFile(t *testing.T) {
	result := ImportCatalogCSV(filepath.Join(t.TempDir(), "nope.csv"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fabrics.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportCatalogExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Fabric", "Label", "Price", "Colour", "Shade Factor"},
		{"mesh", "Mesh", 30, "Teal", 80},
		{"mesh", "Mesh", 30, "Sand", 75},
	})

	result := ImportCatalog(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	mesh := result.Catalog.FindFabric("mesh")
	if mesh == nil {
		t.Fatal("expected mesh fabric")
	}
	if mesh.PricePerSqM != 30 || len(mesh.Colors) != 2 {
		t.Errorf("unexpected fabric: %+v", mesh)
	}
	if mesh.Colors[1].ShadeFactor != 75 {
		t.Errorf("expected shade factor 75, got %f", mesh.Colors[1].ShadeFactor)
	}
}

func TestImportCatalogExcel_Positional(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"mesh", "Mesh", 30, 5, "Teal", "#0f766e", 80},
	})

	result := ImportCatalogExcel(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	mesh := result.Catalog.FindFabric("mesh")
	if mesh == nil || mesh.WarrantyYears != 5 || mesh.Colors[0].Hex != "#0f766e" {
		t.Errorf("unexpected fabric: %+v", mesh)
	}
}

func TestImportCatalogExcel_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	if err := os.WriteFile(path, []byte("not a workbook"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	result := ImportCatalogExcel(path)
	if len(result.Errors) == 0 {
		t.Error("expected error for invalid workbook")
	}
}

// ─── DXF Survey Tests ──────────────────────────────────────

func writeDXFLines(t *testing.T, pts [][2]float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.dxf")

	d := dxf.NewDrawing()
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			t.Fatalf("failed to add line: %v", err)
		}
	}
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("failed to save DXF: %v", err)
	}
	return path
}

func TestImportSurveyDXF_Rectangle(t *testing.T) {
	path := writeDXFLines(t, [][2]float64{{1000, 1000}, {5000, 1000}, {5000, 4000}, {1000, 4000}})

	result := ImportSurveyDXF(path, model.UnitMetric)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	cfg := result.Configuration
	if cfg.Corners != 4 || cfg.Unit != model.UnitMetric {
		t.Fatalf("unexpected configuration header: %+v", cfg)
	}
	want := map[string]float64{"AB": 4000, "BC": 3000, "CD": 4000, "DA": 3000}
	for k, v := range want {
		if cfg.Measurements[k] != v {
			t.Errorf("edge %s: expected %f, got %f", k, v, cfg.Measurements[k])
		}
	}
	if cfg.Diagonals["AC"] != 5000 || cfg.Diagonals["BD"] != 5000 {
		t.Errorf("unexpected diagonals: %v", cfg.Diagonals)
	}
	if result.Points[0] != (model.Point2D{X: 0, Y: 0}) {
		t.Errorf("expected outline normalised to origin, got %v", result.Points[0])
	}
}

func TestImportSurveyDXF_DropsCollinearVertices(t *testing.T) {
	// Triangle with an extra vertex halfway along the base.
	path := writeDXFLines(t, [][2]float64{{0, 0}, {2000, 0}, {4000, 0}, {2000, 3000}})

	result := ImportSurveyDXF(path, model.UnitMetric)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Configuration.Corners != 3 {
		t.Fatalf("expected 3 corners, got %d", result.Configuration.Corners)
	}
	if got := result.Configuration.Measurements["AB"]; got != 4000 {
		t.Errorf("expected merged base of 4000, got %f", got)
	}
	side := math.Round(math.Hypot(2000, 3000)*10) / 10
	if got := result.Configuration.Measurements["BC"]; got != side {
		t.Errorf("expected %f, got %f", side, got)
	}
	if len(result.Configuration.Diagonals) != 0 {
		t.Errorf("triangles have no diagonals, got %v", result.Configuration.Diagonals)
	}
}

func TestImportSurveyDXF_TooManyCorners(t *testing.T) {
	var pts [][2]float64
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		pts = append(pts, [2]float64{3000 + 2000*math.Cos(a), 3000 + 2000*math.Sin(a)})
	}
	result := ImportSurveyDXF(writeDXFLines(t, pts), model.UnitMetric)
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "8 corners") {
		t.Errorf("expected corner count error, got %v", result.Errors)
	}
}

func TestImportSurveyDXF_OpenChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "open.dxf")
	d := dxf.NewDrawing()
	if _, err := d.Line(0, 0, 0, 1000, 0, 0); err != nil {
		t.Fatalf("failed to add line: %v", err)
	}
	if _, err := d.Line(1000, 0, 0, 1000, 1000, 0); err != nil {
		t.Fatalf("failed to add line: %v", err)
	}
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("failed to save DXF: %v", err)
	}

	result := ImportSurveyDXF(path, model.UnitMetric)
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "No closed shapes") {
		t.Errorf("expected no closed shapes error, got %v", result.Errors)
	}
}

func TestImportSurveyDXF_MissingFile(t *testing.T) {
	result := ImportSurveyDXF(filepath.Join(t.TempDir(), "nope.dxf"), model.UnitMetric)
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

// ─── Helper Tests ──────────────────────────────────────────

func TestChainSegments_ReversedSegments(t *testing.T) {
	segs := []segment{
		{start: model.Point2D{X: 0, Y: 0}, end: model.Point2D{X: 10, Y: 0}},
		{start: model.Point2D{X: 10, Y: 10}, end: model.Point2D{X: 10, Y: 0}},
		{start: model.Point2D{X: 10, Y: 10}, end: model.Point2D{X: 0, Y: 0}},
	}
	outlines := chainSegments(segs, 0.01)
	if len(outlines) != 1 || len(outlines[0]) != 3 {
		t.Errorf("expected one closed triangle, got %v", outlines)
	}
}

func TestRotateToFirstCorner(t *testing.T) {
	o := model.Outline{{X: 5, Y: 5}, {X: 0, Y: 5}, {X: 0, Y: 0}, {X: 5, Y: 0}}
	got := rotateToFirstCorner(o)
	if got[0] != (model.Point2D{X: 0, Y: 0}) || got[1] != (model.Point2D{X: 5, Y: 0}) {
		t.Errorf("unexpected rotation: %v", got)
	}
}

func TestRotateToFirstCornerTieGoesToSmallerX(t *testing.T) {
	// (4, 0) and (0, 4) share x+y = 4; the smaller x wins.
	o := model.Outline{{X: 4, Y: 0}, {X: 8, Y: 4}, {X: 4, Y: 8}, {X: 0, Y: 4}}
	got := rotateToFirstCorner(o)
	if got[0] != (model.Point2D{X: 0, Y: 4}) || got[1] != (model.Point2D{X: 4, Y: 0}) {
		t.Errorf("unexpected rotation: %v", got)
	}
}
