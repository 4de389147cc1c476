// Package importer loads fabric price lists from CSV and Excel sheets and
// site surveys from DXF drawings. Delimiters and header names are detected
// automatically; each spreadsheet row describes one colour of a fabric.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/SailQuote/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of a catalog import.
type ImportResult struct {
	Catalog  model.Catalog
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Fabric      int
	Label       int
	Price       int
	Warranty    int
	Color       int
	Hex         int
	ShadeFactor int
	ColorPrice  int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"fabric":       {"fabric", "fabric id", "id", "code", "sku"},
	"label":        {"label", "name", "fabric name", "product"},
	"price":        {"price", "price per sqm", "price/m2", "price per m2", "rate"},
	"warranty":     {"warranty", "warranty years", "years"},
	"color":        {"color", "colour", "color name", "colour name"},
	"hex":          {"hex", "swatch", "rgb"},
	"shade_factor": {"shade factor", "shade", "uv block", "uv"},
	"color_price":  {"color price", "colour price", "override", "price override"},
}

// positionalMapping is used for sheets without a recognisable header.
var positionalMapping = ColumnMapping{
	Fabric:      0,
	Label:       1,
	Price:       2,
	Warranty:    3,
	Color:       4,
	Hex:         5,
	ShadeFactor: 6,
	ColorPrice:  7,
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Matching is case-insensitive against known aliases for each column role.
// Returns the mapping and true if a header was detected, or the positional
// mapping and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{-1, -1, -1, -1, -1, -1, -1, -1}
	slots := map[string]*int{
		"fabric":       &mapping.Fabric,
		"label":        &mapping.Label,
		"price":        &mapping.Price,
		"warranty":     &mapping.Warranty,
		"color":        &mapping.Color,
		"hex":          &mapping.Hex,
		"shade_factor": &mapping.ShadeFactor,
		"color_price":  &mapping.ColorPrice,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseNumber reads an optional numeric cell. Currency symbols, percent signs
// and thousands separators are ignored.
func parseNumber(s string) (float64, bool, error) {
	s = strings.NewReplacer("$", "", "%", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// catalogRow is one parsed colour line.
type catalogRow struct {
	fabricID string
	label    string
	price    float64
	warranty int
	color    model.FabricColor
}

// parseRow extracts a colour line using the given column mapping.
// Returns the row, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (catalogRow, string, string) {
	r := catalogRow{
		fabricID: strings.ToLower(getCell(row, mapping.Fabric)),
		label:    getCell(row, mapping.Label),
	}
	if r.fabricID == "" {
		return r, fmt.Sprintf("%s: Missing fabric id", rowLabel), ""
	}

	r.color.Name = getCell(row, mapping.Color)
	if r.color.Name == "" {
		return r, fmt.Sprintf("%s: Missing colour name", rowLabel), ""
	}

	priceStr := getCell(row, mapping.Price)
	price, _, err := parseNumber(priceStr)
	if err != nil {
		return r, fmt.Sprintf("%s: Invalid price '%s'", rowLabel, priceStr), ""
	}
	if price < 0 {
		return r, fmt.Sprintf("%s: Price must not be negative", rowLabel), ""
	}
	r.price = price

	colorPriceStr := getCell(row, mapping.ColorPrice)
	colorPrice, _, err := parseNumber(colorPriceStr)
	if err != nil || colorPrice < 0 {
		return r, fmt.Sprintf("%s: Invalid colour price '%s'", rowLabel, colorPriceStr), ""
	}
	r.color.PricePerSqM = colorPrice

	var warning string
	if s := getCell(row, mapping.Warranty); s != "" {
		years, err := strconv.Atoi(s)
		if err != nil || years < 0 {
			warning = fmt.Sprintf("%s: Invalid warranty '%s', ignoring", rowLabel, s)
		} else {
			r.warranty = years
		}
	}

	shadeStr := getCell(row, mapping.ShadeFactor)
	shade, _, err := parseNumber(shadeStr)
	if err != nil || shade < 0 || shade > 100 {
		return r, fmt.Sprintf("%s: Shade factor '%s' must be a percentage", rowLabel, shadeStr), ""
	}
	r.color.ShadeFactor = shade

	r.color.Hex = getCell(row, mapping.Hex)
	if r.color.Hex != "" && !strings.HasPrefix(r.color.Hex, "#") {
		r.color.Hex = "#" + r.color.Hex
	}
	r.color.TextColor = model.ContrastText(r.color.Hex)

	return r, "", warning
}

// ImportCatalog imports a price list, choosing the reader by file extension.
func ImportCatalog(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return ImportCatalogExcel(path)
	default:
		return ImportCatalogCSV(path)
	}
}

// ImportCatalogCSV imports fabrics from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCatalogCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", warnings)
}

// ImportCatalogCSVFromReader imports fabrics from a CSV reader with a known delimiter.
func ImportCatalogCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	records, err := readCSV(reader, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	if len(records) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}
	return importFromRows(records, "Line", nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1
	return csvReader.ReadAll()
}

// ImportCatalogExcel imports fabrics from the first sheet of an Excel workbook.
func ImportCatalogExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// Rows sharing a fabric id are grouped into one Fabric; the first non-empty
// label, price and warranty seen for a fabric win.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Fabric == -1 {
			missing = append(missing, "Fabric")
		}
		if mapping.Color == -1 {
			missing = append(missing, "Color")
		}
		if mapping.Price == -1 {
			missing = append(missing, "Price")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		parsed, errMsg, warning := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		addRow(&result, parsed, rowLabel)
	}

	for _, f := range result.Catalog.Fabrics {
		if f.PricePerSqM <= 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Fabric '%s' has no price", f.ID))
		}
	}

	if len(result.Catalog.Fabrics) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No fabrics found")
	}

	return result
}

func addRow(result *ImportResult, r catalogRow, rowLabel string) {
	fabric := result.Catalog.FindFabric(r.fabricID)
	if fabric == nil {
		result.Catalog.Fabrics = append(result.Catalog.Fabrics, model.Fabric{ID: r.fabricID})
		fabric = &result.Catalog.Fabrics[len(result.Catalog.Fabrics)-1]
	}
	if fabric.Label == "" {
		fabric.Label = r.label
		if fabric.Label == "" {
			fabric.Label = r.fabricID
		}
	}
	if fabric.PricePerSqM == 0 {
		fabric.PricePerSqM = r.price
	}
	if fabric.WarrantyYears == 0 {
		fabric.WarrantyYears = r.warranty
	}
	if fabric.FindColor(r.color.Name) != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s: Duplicate colour '%s' for fabric '%s', skipping", rowLabel, r.color.Name, r.fabricID))
		return
	}
	fabric.Colors = append(fabric.Colors, r.color)
}
