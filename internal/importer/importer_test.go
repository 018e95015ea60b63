package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/lumispec/internal/export"
	"github.com/piwi3910/lumispec/internal/model"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Parametro,Valor,Unidade\npotencia,9.8,W\nfluxo,806,lm\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	// decimal commas are common in readings exported with a pt-BR locale
	data := []byte("Parametro;Valor;Unidade\npotencia;9,8;W\nfluxo;806;lm\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Parametro\tValor\npotencia\t9.8\nfluxo\t806\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

// ─── DetectColumns / ResolveParameter Tests ────────────────

func TestDetectColumns_Headers(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Unidade", "Parâmetro", "Valor"})
	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Parameter != 1 || mapping.Value != 2 || mapping.Unit != 0 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
}

func TestDetectColumns_Positional(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"potencia", "9.8"})
	if isHeader {
		t.Error("data row mistaken for a header")
	}
	if mapping.Parameter != 0 || mapping.Value != 1 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
}

func TestResolveParameter(t *testing.T) {
	cases := map[string]string{
		"potencia":                            "potencia",
		" POTENCIA ":                          "potencia",
		"Fluxo luminoso":                      "fluxo",
		"potencia (W)":                        "potencia",
		"IRC (Índice de reprodução de cores)": "irc",
		"tcc (K)":                             "tcc",
	}
	for in, want := range cases {
		got, ok := ResolveParameter(in)
		if !ok || got != want {
			t.Errorf("ResolveParameter(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := ResolveParameter("Projeto"); ok {
		t.Error("non-catalog column resolved")
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_Long(t *testing.T) {
	data := "Parametro,Valor,Unidade\npotencia,9.8,W\nFluxo luminoso,806,lm\ncor,azul,\n\ntcc,,K\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Readings) != 2 {
		t.Fatalf("expected 2 readings, got %v", result.Readings)
	}
	if result.Readings["potencia"] != "9.8" || result.Readings["fluxo"] != "806" {
		t.Errorf("unexpected readings: %v", result.Readings)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Unknown parameter 'cor'") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an unknown parameter warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_InvalidValue(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("potencia,abc\ntensao,127\n"), ',')

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Line 1") {
		t.Errorf("expected one error on line 1, got %v", result.Errors)
	}
	if result.Readings["tensao"] != "127" {
		t.Errorf("valid rows should still import, got %v", result.Readings)
	}
}

func TestImportCSVFromReader_UnitMismatchWarns(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("parametro,valor,unidade\npotencia,9.8,kW\n"), ',')

	if result.Readings["potencia"] != "9.8" {
		t.Fatalf("expected the reading to be kept, got %v", result.Readings)
	}
	if len(result.Warnings) != 2 {
		t.Errorf("expected header and unit warnings, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_Wide(t *testing.T) {
	data := "Amostra,potencia (W),tensao (V),fluxo (lm)\nA1,9.8,127,\nA2,10.1,127,810\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Readings) != 2 || result.Readings["potencia"] != "9.8" {
		t.Errorf("expected the first data row, got %v", result.Readings)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected a warning about the extra row, got %v", result.Warnings)
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.csv")
	if err := os.WriteFile(path, []byte("Parametro;Valor\npotencia;9,8\nangulo;120\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportFile(path)
	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if result.Readings["potencia"] != "9,8" {
		t.Errorf("expected the decimal comma to be kept as typed, got %v", result.Readings)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "semicolon") {
		t.Errorf("expected delimiter warning first, got %v", result.Warnings)
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	result := ImportCSV(path)
	if len(result.Errors) != 1 || result.Errors[0] != "File is empty" {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestImportCSV_MissingFile(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "nope.csv"))
	if len(result.Errors) == 0 {
		t.Error("expected an error for a missing file")
	}
}

func TestImportCSVFromReader_NoReadings(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("parametro,valor\ncor,azul\n"), ',')
	if len(result.Errors) != 1 || result.Errors[0] != "No readings found" {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "readings.xlsx")

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

func TestImportExcel_Long(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Parâmetro", "Valor", "Unidade"},
		{"Potência", 9.8, "W"},
		{"Corrente", 0.08, "A"},
	})

	result := ImportFile(path)
	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if result.Readings["potencia"] != "9.8" || result.Readings["corrente"] != "0.08" {
		t.Errorf("unexpected readings: %v", result.Readings)
	}
}

func TestImportExcel_ExportedSpecSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.xlsx")
	p := model.Product{ID: "p", Name: "Luminária X", Parameters: model.NewCatalogParameters()}
	p.Parameters[0].Value = 9.8
	p.Parameters[4].Value = 806
	if err := export.ExportXLSX(path, p); err != nil {
		t.Fatalf("ExportXLSX: %v", err)
	}

	result := ImportExcel(path)
	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Readings) != 2 || result.Readings["potencia"] != "9.8" || result.Readings["fluxo"] != "806" {
		t.Errorf("unexpected readings: %v", result.Readings)
	}
}

func TestImportExcel_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	if err := os.WriteFile(path, []byte("not a workbook"), 0644); err != nil {
		t.Fatal(err)
	}
	result := ImportExcel(path)
	if len(result.Errors) == 0 {
		t.Error("expected an error for a corrupt workbook")
	}
}
