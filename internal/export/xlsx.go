package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/lumispec/internal/model"
)

// Sheet names of the workbook written by ExportXLSX.
const (
	SpecSheet         = "Especificação"
	MeasurementsSheet = "Medições"
)

// measurementHeaders precede the catalog columns on the measurements sheet.
var measurementHeaders = []string{"Projeto", "Amostra", "Medição", "Criado em"}

// ExportXLSX writes p to a workbook: the product parameters on one sheet and
// one row per measurement, catalog readings as columns, on another.
// Unmeasured readings are left blank.
func ExportXLSX(path string, p model.Product) error {
	if p.ID == "" && p.Name == "" {
		return ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SpecSheet); err != nil {
		return err
	}
	if err := writeSpecSheet(f, p); err != nil {
		return fmt.Errorf("writing %s: %w", SpecSheet, err)
	}

	if _, err := f.NewSheet(MeasurementsSheet); err != nil {
		return err
	}
	if err := writeMeasurementsSheet(f, p); err != nil {
		return fmt.Errorf("writing %s: %w", MeasurementsSheet, err)
	}

	return f.SaveAs(path)
}

func writeSpecSheet(f *excelize.File, p model.Product) error {
	header := [][]any{
		{"Produto", p.Name},
		{"Referência", p.Reference},
		{"Tipo", p.Type.Label()},
		{"Criado em", model.FormatDate(p.CreatedAt)},
		{},
		{"Parâmetro", "Valor", "Unidade"},
	}
	for i, row := range header {
		if err := setRow(f, SpecSheet, i+1, row); err != nil {
			return err
		}
	}
	for i, d := range model.Catalog {
		row := []any{d.Label, nil, d.Unit}
		if param, ok := model.FindParameter(p.Parameters, d.Key); ok {
			row[1] = cellValue(param.Value)
			if param.Unit != "" {
				row[2] = param.Unit
			}
		}
		if err := setRow(f, SpecSheet, len(header)+i+1, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(SpecSheet, "A", "A", 40)
}

func writeMeasurementsSheet(f *excelize.File, p model.Product) error {
	header := make([]any, 0, len(measurementHeaders)+len(model.Catalog))
	for _, h := range measurementHeaders {
		header = append(header, h)
	}
	for _, d := range model.Catalog {
		if d.Unit != "" {
			header = append(header, fmt.Sprintf("%s (%s)", d.Key, d.Unit))
		} else {
			header = append(header, d.Key)
		}
	}
	if err := setRow(f, MeasurementsSheet, 1, header); err != nil {
		return err
	}

	rowNum := 2
	for _, pj := range p.Projects {
		for _, smp := range pj.Samples {
			for _, m := range smp.Measurements {
				row := []any{pj.Number, smp.Code, m.Type.Label(), model.FormatDate(m.CreatedAt)}
				for _, d := range model.Catalog {
					var v any
					if param, ok := model.FindParameter(m.Parameters, d.Key); ok {
						v = cellValue(param.Value)
					}
					row = append(row, v)
				}
				if err := setRow(f, MeasurementsSheet, rowNum, row); err != nil {
					return err
				}
				rowNum++
			}
		}
	}
	return nil
}

// cellValue leaves unmeasured readings blank.
func cellValue(v float64) any {
	if v == model.Unmeasured {
		return nil
	}
	return v
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
