package layout

import (
	"errors"
	"fmt"
	"strings"
)

// Font names a typeface, its style letters, and its size in points.
type Font struct {
	Family string
	Style  string
	Size   float64
}

// Measurer reports the rendered width of text set in font.
type Measurer interface {
	Width(text string, font Font) float64
}

// Geometry describes the page and typography of a paginated document.
type Geometry struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
	LineHeight float64
	Title      string
	TitleFont  Font
	// TitleGap is the vertical space between the title baseline and the
	// first body line on page one.
	TitleGap float64
	BodyFont Font
}

// ContentWidth is the maximum width of a body line.
func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - 2*g.Margin
}

// Top is the cursor position at the start of every page.
func (g Geometry) Top() float64 {
	return g.PageHeight - g.Margin
}

// Validate rejects geometry that cannot hold a single body line.
func (g Geometry) Validate() error {
	for name, value := range map[string]float64{
		"page width":      g.PageWidth,
		"page height":     g.PageHeight,
		"margin":          g.Margin,
		"line height":     g.LineHeight,
		"title gap":       g.TitleGap,
		"title font size": g.TitleFont.Size,
		"body font size":  g.BodyFont.Size,
	} {
		if value <= 0 {
			return fmt.Errorf("layout: %s must be positive, got %v", name, value)
		}
	}
	if strings.TrimSpace(g.Title) == "" {
		return errors.New("layout: title is required")
	}
	if g.ContentWidth() <= 0 {
		return errors.New("layout: margins leave no horizontal space")
	}
	if g.Top()-g.TitleGap < g.Margin {
		return errors.New("layout: margins and title gap leave no body space on the first page")
	}
	return nil
}

// Capacity reports how many body lines fit on a page. The first page holds
// fewer because the title occupies its top.
func Capacity(g Geometry, first bool) int {
	start := g.Top()
	if first {
		start -= g.TitleGap
	}
	if g.LineHeight <= 0 || start < g.Margin {
		return 0
	}
	return int((start-g.Margin)/g.LineHeight) + 1
}
