// Package importer reads instrument readings from CSV and Excel files so they
// can be pasted into a parameter table in edit mode. It supports automatic
// delimiter detection, case-insensitive header recognition and both a long
// (one parameter per row) and a wide (one parameter per column) layout.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/lumispec/internal/model"
)

// ImportResult holds the readings found, keyed by catalog key, with the
// values as typed in the file.
type ImportResult struct {
	Readings map[string]string
	Errors   []string
	Warnings []string
}

// ColumnMapping maps the long layout's column roles to their indices.
type ColumnMapping struct {
	Parameter int
	Value     int
	Unit      int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"parameter": {"parametro", "parâmetro", "parameter", "param", "nome", "name", "grandeza"},
	"value":     {"valor", "value", "medida", "leitura", "reading"},
	"unit":      {"unidade", "unit", "un"},
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

// DetectColumns examines a header row of the long layout. It returns a
// positional mapping and false when the row is not a header.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Parameter: -1, Value: -1, Unit: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "parameter":
					if mapping.Parameter == -1 {
						mapping.Parameter = i
					}
				case "value":
					if mapping.Value == -1 {
						mapping.Value = i
					}
				case "unit":
					if mapping.Unit == -1 {
						mapping.Unit = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Parameter: 0, Value: 1, Unit: 2}, false
	}
	return mapping, true
}

// ResolveParameter maps a cell naming a parameter to its catalog key. It
// accepts the key, the label, or either followed by a "(unit)" suffix.
func ResolveParameter(cell string) (string, bool) {
	name := strings.TrimSpace(cell)
	if i := strings.LastIndex(name, "("); i > 0 && strings.HasSuffix(name, ")") {
		if d, ok := lookup(name); ok {
			return d.Key, true
		}
		name = strings.TrimSpace(name[:i])
	}
	d, ok := lookup(name)
	return d.Key, ok
}

func lookup(name string) (model.ParamDef, bool) {
	if d, ok := model.CatalogByKey(name); ok {
		return d, true
	}
	for _, d := range model.Catalog {
		if strings.EqualFold(d.Label, name) {
			return d, true
		}
	}
	return model.ParamDef{}, false
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

// wideColumns returns the catalog key of each column of a wide header, or
// nil when fewer than two columns name a parameter.
func wideColumns(row []string) map[int]string {
	cols := make(map[int]string)
	for i, cell := range row {
		if key, ok := ResolveParameter(cell); ok {
			cols[i] = key
		}
	}
	if len(cols) < 2 {
		return nil
	}
	return cols
}

// ImportCSV imports readings from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
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

	result = ImportCSVFromReader(bytes.NewReader(data), delimiter)
	result.Warnings = append(warnings, result.Warnings...)
	return result
}

// ImportCSVFromReader imports readings from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line")
}

// ImportExcel imports readings from the first sheet of an Excel file.
func ImportExcel(path string) ImportResult {
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

	return importFromRows(rows, "Row")
}

// ImportFile picks the CSV or Excel importer from the file extension.
func ImportFile(path string) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") || strings.HasSuffix(lower, ".xls") {
		return ImportExcel(path)
	}
	return ImportCSV(path)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string) ImportResult {
	result := ImportResult{Readings: make(map[string]string)}

	first := 0
	for first < len(rows) && isEmptyRow(rows[first]) {
		first++
	}
	if first == len(rows) {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	if cols := wideColumns(rows[first]); cols != nil {
		importWide(rows[first+1:], cols, rowPrefix, first+2, &result)
	} else {
		importLong(rows[first:], rowPrefix, first+1, &result)
	}

	if len(result.Readings) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No readings found")
	}
	return result
}

// importLong reads one parameter per row.
func importLong(rows [][]string, rowPrefix string, firstLine int, result *ImportResult) {
	mapping, hasHeader := DetectColumns(rows[0])
	start := 0
	if hasHeader {
		start = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
		if mapping.Parameter == -1 || mapping.Value == -1 {
			result.Errors = append(result.Errors, "Required columns not found in header: parameter, value")
			return
		}
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, firstLine+i)
		name := getCell(row, mapping.Parameter)
		key, ok := ResolveParameter(name)
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Unknown parameter '%s', skipping", rowLabel, name))
			continue
		}
		value := getCell(row, mapping.Value)
		if value == "" {
			continue
		}
		addReading(result, rowLabel, key, value, getCell(row, mapping.Unit))
	}
}

// importWide reads one parameter per column from the first data row.
func importWide(rows [][]string, cols map[int]string, rowPrefix string, firstLine int, result *ImportResult) {
	var data []string
	line := firstLine
	extra := 0
	for i, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		if data == nil {
			data = row
			line = firstLine + i
			continue
		}
		extra++
	}
	if data == nil {
		result.Errors = append(result.Errors, "No data rows found")
		return
	}
	if extra > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Using the first data row, ignoring %d more", extra))
	}
	rowLabel := fmt.Sprintf("%s %d", rowPrefix, line)
	for idx, key := range cols {
		if v := getCell(data, idx); v != "" {
			addReading(result, rowLabel, key, v, "")
		}
	}
}

func addReading(result *ImportResult, rowLabel, key, value, unit string) {
	if _, ok := model.ParseReading(value); !ok {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: Invalid value '%s' for %s", rowLabel, value, key))
		return
	}
	if d, _ := model.CatalogByKey(key); unit != "" && d.Unit != "" && !strings.EqualFold(unit, d.Unit) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Unit '%s' differs from %s, keeping the value", rowLabel, unit, d.Unit))
	}
	if _, dup := result.Readings[key]; dup {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Duplicate %s, using the last value", rowLabel, key))
	}
	result.Readings[key] = value
}
