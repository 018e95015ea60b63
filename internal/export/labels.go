package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/lumispec/internal/model"
)

// LabelInfo holds the data encoded into each sample label's QR code.
type LabelInfo struct {
	ProductID    string   `json:"produtoId"`
	Product      string   `json:"produto"`
	Reference    string   `json:"referencia"`
	ProjectID    string   `json:"projetoId"`
	Project      string   `json:"projeto"`
	SampleID     string   `json:"amostraId"`
	Sample       string   `json:"amostra"`
	Measurements []string `json:"medicoes"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
const (
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// CollectLabelInfos returns one label per sample of p, in project order.
func CollectLabelInfos(p model.Product) []LabelInfo {
	var labels []LabelInfo
	for _, pj := range p.Projects {
		for _, smp := range pj.Samples {
			var types []string
			for _, m := range smp.Measurements {
				types = append(types, string(m.Type))
			}
			labels = append(labels, LabelInfo{
				ProductID:    p.ID,
				Product:      p.Name,
				Reference:    p.Reference,
				ProjectID:    pj.ID,
				Project:      pj.Number,
				SampleID:     smp.ID,
				Sample:       smp.Code,
				Measurements: types,
			})
		}
	}
	return labels
}

// ExportLabels writes a sheet of QR-coded labels, one per sample, so the
// physical samples on the bench can be traced back to their records.
func ExportLabels(path string, p model.Product) error {
	labels := CollectLabelInfos(p)
	if len(labels) == 0 {
		return fmt.Errorf("no samples to label: %w", ErrNothingToExport)
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}
		pos := i % labelsPerPage
		x := labelMarginLeft + float64(pos%labelCols)*labelWidth
		y := labelMarginTop + float64(pos/labelCols)*labelHeight

		if err := renderLabel(pdf, tr, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for sample %q: %w", label.Sample, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

func renderLabel(pdf *fpdf.Fpdf, tr func(string) string, x, y float64, info LabelInfo) error {
	// cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := "qr_" + info.ProjectID + "_" + info.SampleID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, tr(info.Sample), textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, truncate(pdf, tr(info.Product), textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	ref := info.Reference
	if ref == "" {
		ref = "-"
	}
	pdf.CellFormat(textW, 3, truncate(pdf, tr(ref+" / "+info.Project), textW), "", 1, "L", false, 0, "")

	if len(info.Measurements) > 0 {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, truncate(pdf, tr(measurementLine(info.Measurements)), textW), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

func measurementLine(types []string) string {
	labels := make([]string, len(types))
	for i, t := range types {
		labels[i] = model.MeasurementType(t).ShortLabel()
	}
	return strings.Join(labels, ", ")
}

// truncate shortens s with an ellipsis until it fits w at the current font.
func truncate(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w {
		s = s[:len(s)-1]
	}
	return s + "..."
}
