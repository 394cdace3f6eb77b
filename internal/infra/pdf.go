package infra

// pdf.go renders an already formatted ticket text into a PDF that looks like
// the thermal print: one Courier line per text line, page sized to the roll.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin = 3.0 // mm
	// Courier glyphs are 0.6 em wide; 1pt = 0.3528 mm
	courierAdvance = 0.6 * 0.3528
)

// rollWidth maps the configured line width to the paper it is printed on.
func rollWidth(cols int) float64 {
	switch {
	case cols <= 32:
		return 58
	case cols <= 42:
		return 72
	default:
		return 80
	}
}

// GenerateTicketPDF writes text as a receipt-shaped PDF to dir/name.pdf and
// returns the file path. cols is the line width the text was rendered at.
func GenerateTicketPDF(text string, cols int, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create dir: %w", err)
	}
	path := filepath.Join(dir, name+".pdf")

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	pageW := rollWidth(cols)
	contentW := pageW - 2*pdfMargin
	fontSize := contentW / (float64(cols) * courierAdvance)
	lineH := fontSize * 0.3528 * 1.15
	pageH := float64(len(lines))*lineH + 2*pdfMargin

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont("Courier", "", fontSize)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, l := range lines {
		pdf.CellFormat(contentW, lineH, tr(l), "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", path, err)
	}
	return path, nil
}
