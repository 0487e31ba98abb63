// Package render writes assembled segments as flat text or as a paginated
// PDF document.
//
// Flat text is one line per segment with no wrapping. PDF output runs the
// segments through the layout engine using FontMetrics, which measures with
// the same core-font tables and Windows-1252 transcoding the PDF writer uses,
// so wrapped lines fit the rendered page.
package render
