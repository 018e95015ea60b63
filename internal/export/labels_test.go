package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/lumispec/internal/model"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportLabels(path, buildTestProduct()); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportLabels_NoSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.pdf")

	p := buildTestProduct()
	p.Projects = []model.Project{{ID: "pj", Number: "P-1"}}
	err := ExportLabels(path, p)
	if !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
}

func TestExportLabels_MoreThanOnePage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many.pdf")

	p := buildTestProduct()
	var samples []model.Sample
	for i := 0; i < labelsPerPage+5; i++ {
		samples = append(samples, model.Sample{ID: string(rune('a'+i%26)) + string(rune('0'+i/26)), Code: "S"})
	}
	p.Projects = []model.Project{{ID: "pj", Number: "P-1", Samples: samples}}

	if err := ExportLabels(path, p); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildTestProduct())

	if len(labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(labels))
	}
	first := labels[0]
	if first.Sample != "A1" || first.Project != "P-2024-01" || first.Reference != "LX-001" {
		t.Errorf("unexpected first label: %+v", first)
	}
	if len(first.Measurements) != 2 || first.Measurements[1] != string(model.Goniophotometer) {
		t.Errorf("expected both measurement types, got %v", first.Measurements)
	}
	if len(labels[1].Measurements) != 0 {
		t.Errorf("sample without measurements should list none, got %v", labels[1].Measurements)
	}
}

func TestLabelInfo_JSONKeys(t *testing.T) {
	data, err := json.Marshal(LabelInfo{SampleID: "s1", Sample: "A1"})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if raw["amostraId"] != "s1" || raw["amostra"] != "A1" {
		t.Errorf("unexpected QR payload: %s", data)
	}
}

func TestMeasurementLine(t *testing.T) {
	got := measurementLine([]string{string(model.IntegratingSphere), string(model.Goniophotometer)})
	if got != "Esfera, Gônio" {
		t.Errorf("got %q", got)
	}
}
