package layout

import (
	"strings"

	"diarist/internal/transcript"
)

// Header renders "{speaker} [{H:MM:SS} → {H:MM:SS}]:".
func Header(seg transcript.Segment) string {
	return seg.Speaker + " [" + transcript.FormatClock(seg.Start) + " → " + transcript.FormatClock(seg.End) + "]:"
}

// SegmentText is the header followed by the segment text.
func SegmentText(seg transcript.Segment) string {
	text := strings.TrimSpace(seg.Text)
	if text == "" {
		return Header(seg)
	}
	return Header(seg) + " " + text
}

// Wrap greedily packs whitespace-separated words into lines no wider than
// maxWidth. A word wider than maxWidth is placed alone on its own line.
func Wrap(text string, maxWidth float64, font Font, m Measurer) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	lines := make([]string, 0, 4)
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if m.Width(candidate, font) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}
