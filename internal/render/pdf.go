package render

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"diarist/internal/layout"
)

// documentDate is stamped on every PDF so identical input yields identical bytes.
var documentDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// WritePDF draws laid-out pages. Layout coordinates grow upward from the page
// bottom; fpdf measures from the top, so every baseline is flipped.
func WritePDF(w io.Writer, pages []layout.Page, g layout.Geometry) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: g.PageWidth, Ht: g.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(g.Margin, g.Margin, g.Margin)
	pdf.SetCreationDate(documentDate)
	pdf.SetModificationDate(documentDate)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(g.Title, true)
	pdf.SetCreator("diarist", false)

	for _, page := range pages {
		pdf.AddPage()
		if page.Title != "" {
			pdf.SetFont(g.TitleFont.Family, g.TitleFont.Style, g.TitleFont.Size)
			pdf.Text(g.Margin, g.PageHeight-page.TitleY, encodeText(page.Title))
		}
		pdf.SetFont(g.BodyFont.Family, g.BodyFont.Style, g.BodyFont.Size)
		for _, line := range page.Lines {
			pdf.Text(g.Margin, g.PageHeight-line.Y, encodeText(line.Text))
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
