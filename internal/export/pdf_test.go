package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/lumispec/internal/model"
)

// buildTestProduct creates a product with two projects and a few readings.
func buildTestProduct() model.Product {
	created := time.Date(2024, 5, 14, 12, 0, 0, 0, time.UTC)
	reading := func(id string, t model.MeasurementType, values map[string]float64) model.Measurement {
		params := model.NewCatalogParameters()
		for i := range params {
			params[i].ID = id + "-" + params[i].Name
			if v, ok := values[params[i].Name]; ok {
				params[i].Value = v
			}
		}
		return model.Measurement{ID: id, Type: t, CreatedAt: created, Parameters: params}
	}
	return model.Product{
		ID:         "p1",
		Name:       "Luminária X",
		Type:       model.ProductLamp,
		Reference:  "LX-001",
		CreatedAt:  created,
		Parameters: model.NewCatalogParameters(),
		Projects: []model.Project{
			{
				ID:     "pj1",
				Number: "P-2024-01",
				Samples: []model.Sample{
					{ID: "s1", Code: "A1", Measurements: []model.Measurement{
						reading("m1", model.IntegratingSphere, map[string]float64{"potencia": 9.8, "fluxo": 806}),
						reading("m2", model.Goniophotometer, map[string]float64{"angulo": 120}),
					}},
					{ID: "s2", Code: "A2"},
				},
			},
			{ID: "pj2", Number: "P-2024-02"},
		},
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.pdf")

	if err := ExportPDF(path, buildTestProduct()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 1000 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_ManyMeasurementsSpansPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.pdf")

	p := buildTestProduct()
	var samples []model.Sample
	for i := 0; i < 12; i++ {
		samples = append(samples, model.Sample{
			ID:   fmt.Sprintf("s%d", i),
			Code: fmt.Sprintf("B%d", i),
			Measurements: []model.Measurement{
				{ID: fmt.Sprintf("m%d", i), Type: model.IntegratingSphere, Parameters: model.NewCatalogParameters()},
			},
		})
	}
	p.Projects = append(p.Projects, model.Project{ID: "pj3", Number: "P-2024-03", Samples: samples})

	if err := ExportPDF(path, p); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read PDF: %v", err)
	}
	if len(data) < 4 || string(data[:4]) != "%PDF" {
		t.Error("output does not start with a PDF header")
	}
}

func TestExportPDF_EmptyProduct(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	err := ExportPDF(path, model.Product{})
	if !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written for an empty product")
	}
}

func TestExportPDF_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "spec.pdf")

	if err := ExportPDF(path, buildTestProduct()); err == nil {
		t.Fatal("expected an error writing to a missing directory")
	}
}
