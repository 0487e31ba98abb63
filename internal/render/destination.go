package render

import (
	"path/filepath"
	"strings"
)

// Kind selects the output format.
type Kind int

const (
	KindStdout Kind = iota
	KindText
	KindPDF
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindPDF:
		return "pdf"
	default:
		return "stdout"
	}
}

// Destination is a resolved output target.
type Destination struct {
	Kind Kind
	Path string
}

// ResolveDestination picks the format from the file extension. An empty path
// means stdout; ".pdf" means a paginated document; anything else is flat text
// with ".txt" appended when missing.
func ResolveDestination(path string) Destination {
	path = strings.TrimSpace(path)
	if path == "" {
		return Destination{Kind: KindStdout}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return Destination{Kind: KindPDF, Path: path}
	case ".txt":
		return Destination{Kind: KindText, Path: path}
	}
	return Destination{Kind: KindText, Path: path + ".txt"}
}
