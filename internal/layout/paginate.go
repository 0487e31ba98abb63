package layout

import "diarist/internal/transcript"

// Line is one body line and the baseline it is drawn at.
type Line struct {
	Text string
	Y    float64
}

// Page is one laid-out page. Only the first page carries a title.
type Page struct {
	Number int
	Title  string
	TitleY float64
	Lines  []Line
}

// Layout wraps every segment to the content width and paginates the result.
func Layout(segments []transcript.Segment, g Geometry, m Measurer) []Page {
	var lines []string
	for _, seg := range segments {
		lines = append(lines, Wrap(SegmentText(seg), g.ContentWidth(), g.BodyFont, m)...)
	}
	return Paginate(lines, g)
}

// Paginate places lines top to bottom. A new page starts whenever the cursor
// has dropped below the bottom margin, so no baseline sits under it.
func Paginate(lines []string, g Geometry) []Page {
	cursor := g.Top()
	pages := []Page{{Number: 1, Title: g.Title, TitleY: cursor}}
	cursor -= g.TitleGap

	for _, text := range lines {
		if cursor < g.Margin {
			pages = append(pages, Page{Number: len(pages) + 1})
			cursor = g.Top()
		}
		current := &pages[len(pages)-1]
		current.Lines = append(current.Lines, Line{Text: text, Y: cursor})
		cursor -= g.LineHeight
	}
	return pages
}
