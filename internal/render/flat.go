package render

import (
	"fmt"
	"io"
	"strings"

	"diarist/internal/transcript"
)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// FlatLine renders "{speaker} [{start:.1f}s→{end:.1f}s]: {text}". Line breaks
// inside the text become spaces so each segment stays on one line.
func FlatLine(seg transcript.Segment) string {
	return fmt.Sprintf("%s [%.1fs→%.1fs]: %s", seg.Speaker, seg.Start, seg.End, lineBreaks.Replace(seg.Text))
}

// WriteText writes one line per segment joined by newlines.
func WriteText(w io.Writer, segments []transcript.Segment) error {
	lines := make([]string, len(segments))
	for i, seg := range segments {
		lines[i] = FlatLine(seg)
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("write transcript text: %w", err)
	}
	return nil
}
