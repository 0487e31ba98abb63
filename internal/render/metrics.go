package render

import (
	"github.com/go-pdf/fpdf"

	"diarist/internal/layout"
)

// FontMetrics measures text with the core font width tables.
type FontMetrics struct {
	pdf *fpdf.Fpdf
}

// NewFontMetrics returns a measurer working in points.
func NewFontMetrics() *FontMetrics {
	return &FontMetrics{pdf: fpdf.New("P", "pt", "Letter", "")}
}

// Width implements layout.Measurer.
func (m *FontMetrics) Width(text string, font layout.Font) float64 {
	m.pdf.SetFont(font.Family, font.Style, font.Size)
	return m.pdf.GetStringWidth(encodeText(text))
}
