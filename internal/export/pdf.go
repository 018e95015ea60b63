// Package export writes a product's specification to PDF, label sheet and
// spreadsheet files.
package export

import (
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/lumispec/internal/model"
)

// ErrNothingToExport is returned when the product has no data for the
// requested format.
var ErrNothingToExport = errors.New("nothing to export")

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	rowHeight    = 6.0
	contentWidth = pageWidth - marginLeft - marginRight
)

var paramColWidths = []float64{100, 45, 35}

// sheet tracks the cursor while a document is laid out.
type sheet struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	y   float64
}

// need moves to a new page unless h millimetres fit below the cursor.
func (s *sheet) need(h float64) {
	if s.y+h > pageHeight-marginBottom {
		s.pdf.AddPage()
		s.y = marginTop
	}
}

func (s *sheet) heading(size float64, text string) {
	s.need(size/2 + 4)
	s.pdf.SetFont("Helvetica", "B", size)
	s.pdf.SetTextColor(0, 0, 0)
	s.pdf.SetXY(marginLeft, s.y)
	s.pdf.CellFormat(contentWidth, size/2+2, s.tr(text), "", 0, "L", false, 0, "")
	s.y += size/2 + 4
}

func (s *sheet) line(text string) {
	s.need(5)
	s.pdf.SetFont("Helvetica", "", 9)
	s.pdf.SetXY(marginLeft, s.y)
	s.pdf.CellFormat(contentWidth, 5, s.tr(text), "", 0, "L", false, 0, "")
	s.y += 5
}

// paramTable draws rows as a bordered Parameter | Value | Unit table.
func (s *sheet) paramTable(rows []model.ParamRow) {
	s.need(rowHeight * 2)
	s.pdf.SetFont("Helvetica", "B", 9)
	s.pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range []string{"Parâmetro", "Valor", "Unidade"} {
		s.pdf.SetXY(x, s.y)
		s.pdf.CellFormat(paramColWidths[i], rowHeight, s.tr(h), "1", 0, "C", true, 0, "")
		x += paramColWidths[i]
	}
	s.y += rowHeight

	s.pdf.SetFont("Helvetica", "", 9)
	for i, r := range rows {
		s.need(rowHeight)
		if i%2 == 0 {
			s.pdf.SetFillColor(245, 245, 245)
		} else {
			s.pdf.SetFillColor(255, 255, 255)
		}
		x = marginLeft
		for j, cell := range []string{r.Label, r.Value, r.Unit} {
			align := "C"
			if j == 0 {
				align = "L"
			}
			s.pdf.SetXY(x, s.y)
			s.pdf.CellFormat(paramColWidths[j], rowHeight, s.tr(cell), "1", 0, align, true, 0, "")
			x += paramColWidths[j]
		}
		s.y += rowHeight
	}
	s.y += 3
}

// ExportPDF writes the specification sheet of p: its own parameters,
// followed by every measurement grouped by project and sample.
func ExportPDF(path string, p model.Product) error {
	if p.ID == "" && p.Name == "" {
		return ErrNothingToExport
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle(p.Name, true)
	pdf.AddPage()

	s := &sheet{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), y: marginTop}
	renderHeader(s, p)

	s.heading(12, "Especificação")
	s.paramTable(model.BuildRows(p.Parameters))

	for _, pj := range p.Projects {
		s.heading(12, "Projeto "+pj.Number)
		if len(pj.Samples) == 0 {
			s.line("Nenhuma amostra.")
		}
		for _, smp := range pj.Samples {
			s.heading(10, "Amostra "+smp.Code)
			if len(smp.Measurements) == 0 {
				s.line("Nenhuma medição.")
			}
			for _, m := range smp.Measurements {
				s.line(fmt.Sprintf("%s - %s", m.Type.Label(), model.FormatDate(m.CreatedAt)))
				s.paramTable(model.BuildRows(m.Parameters))
			}
		}
	}

	renderFooter(pdf)
	return pdf.OutputFileAndClose(path)
}

func renderHeader(s *sheet, p model.Product) {
	s.heading(16, p.Name)

	s.pdf.SetDrawColor(0, 0, 0)
	s.pdf.SetLineWidth(0.5)
	s.pdf.Line(marginLeft, s.y-1, pageWidth-marginRight, s.y-1)
	s.y += 2

	items := []struct {
		label string
		value string
	}{
		{"Referência", p.Reference},
		{"Tipo", p.Type.Label()},
		{"Criado em", model.FormatDate(p.CreatedAt)},
		{"Projetos", fmt.Sprintf("%d", len(p.Projects))},
	}
	s.pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		s.pdf.SetXY(marginLeft+5, s.y)
		s.pdf.CellFormat(40, 6, s.tr(item.label+":"), "", 0, "L", false, 0, "")
		s.pdf.SetFont("Helvetica", "B", 10)
		s.pdf.CellFormat(100, 6, s.tr(item.value), "", 0, "L", false, 0, "")
		s.pdf.SetFont("Helvetica", "", 10)
		s.y += 6
	}
	s.y += 4
}

// renderFooter stamps every page with its number.
func renderFooter(pdf *fpdf.Fpdf) {
	total := pdf.PageCount()
	for i := 1; i <= total; i++ {
		pdf.SetPage(i)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.SetXY(marginLeft, pageHeight-marginBottom+2)
		pdf.CellFormat(contentWidth, 4, fmt.Sprintf("LumiSpec - %d/%d", i, total), "", 0, "C", false, 0, "")
	}
}
