package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
	keyWidth     = contentWidth * 0.6
	rowHeight    = 7.0
)

// pdfText makes text safe for the core fonts, which only cover Latin-1.
func pdfText(s string) string {
	return strings.ReplaceAll(s, "₹", "Rs.")
}

// PDFFormat writes an A4 report with one page per document.
func PDFFormat(w io.Writer, docs []Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetCreator("finance-calculators", true)
	if len(docs) == 1 {
		pdf.SetTitle(pdfText(docs[0].heading()), false)
	}

	if len(docs) == 0 {
		pdf.AddPage()
		pdf.SetFont("Arial", "I", 11)
		pdf.CellFormat(contentWidth, rowHeight, "No calculations", "", 1, "C", false, 0, "")
	}

	for _, doc := range docs {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(contentWidth, 10, pdfText(doc.heading()), "", 1, "L", false, 0, "")
		pdf.Ln(4)

		for _, s := range sections(doc) {
			writeSection(pdf, s)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func writeSection(pdf *fpdf.Fpdf, s section) {
	pdf.SetFillColor(245, 247, 250)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(contentWidth, 8, strings.ToUpper(s.Name[:1])+s.Name[1:], "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, f := range s.Fields {
		pdf.CellFormat(keyWidth, rowHeight, pdfText(f.Key), "1", 0, "L", false, 0, "")
		pdf.CellFormat(contentWidth-keyWidth, rowHeight, pdfText(f.Value), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
}
