package render

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// substitutions cover runes the core PDF fonts cannot show.
var substitutions = map[rune]string{
	'→':  "->",
	'\t': " ",
}

// encodeText converts UTF-8 into the Windows-1252 bytes expected by the core
// PDF fonts. Unsupported runes become '?'.
func encodeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if sub, ok := substitutions[r]; ok {
			b.WriteString(sub)
			continue
		}
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}
