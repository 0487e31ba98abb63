package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"diarist/internal/config"
	"diarist/internal/layout"
	"diarist/internal/logging"
	"diarist/internal/services"
	"diarist/internal/transcript"
)

// Renderer writes segments to a destination.
type Renderer struct {
	geometry layout.Geometry
	measurer layout.Measurer
	stdout   io.Writer
	logger   *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMeasurer overrides the text measurer used for PDF wrapping.
func WithMeasurer(m layout.Measurer) Option {
	return func(r *Renderer) {
		if m != nil {
			r.measurer = m
		}
	}
}

// WithStdout redirects stdout output.
func WithStdout(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.stdout = w
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// New constructs a Renderer for the given page geometry.
func New(geometry layout.Geometry, opts ...Option) *Renderer {
	r := &Renderer{
		geometry: geometry,
		stdout:   os.Stdout,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.measurer == nil {
		r.measurer = NewFontMetrics()
	}
	r.logger = logging.NewComponentLogger(r.logger, "render")
	return r
}

// GeometryFromConfig converts the document section into layout geometry.
func GeometryFromConfig(cfg *config.Config) layout.Geometry {
	width, height := cfg.PageDimensions()
	doc := cfg.Document
	return layout.Geometry{
		PageWidth:  width,
		PageHeight: height,
		Margin:     doc.Margin,
		LineHeight: doc.LineHeight,
		Title:      doc.Title,
		TitleFont:  layout.Font{Family: doc.TitleFont, Style: doc.TitleFontStyle, Size: doc.TitleFontSize},
		TitleGap:   doc.TitleGap,
		BodyFont:   layout.Font{Family: doc.BodyFont, Style: doc.BodyFontStyle, Size: doc.BodyFontSize},
	}
}

// Render writes segments to dest. Files are replaced atomically, so a failed
// render never leaves partial output behind.
func (r *Renderer) Render(ctx context.Context, dest Destination, segments []transcript.Segment) error {
	logger := logging.WithContext(ctx, r.logger)
	switch dest.Kind {
	case KindStdout:
		if err := WriteText(r.stdout, segments); err != nil {
			return err
		}
		_, err := io.WriteString(r.stdout, "\n")
		return err
	case KindText:
		var buf bytes.Buffer
		if err := WriteText(&buf, segments); err != nil {
			return err
		}
		if err := writeFileAtomic(dest.Path, buf.Bytes()); err != nil {
			return err
		}
	case KindPDF:
		if err := r.geometry.Validate(); err != nil {
			return services.Wrap(services.ErrValidation, "render", "validate geometry", "Document geometry is unusable", err)
		}
		pages := layout.Layout(segments, r.geometry, r.measurer)
		var buf bytes.Buffer
		if err := WritePDF(&buf, pages, r.geometry); err != nil {
			return err
		}
		if err := writeFileAtomic(dest.Path, buf.Bytes()); err != nil {
			return err
		}
		logger.Debug("pdf laid out", logging.Int("pages", len(pages)))
	default:
		return fmt.Errorf("unknown destination kind %d", dest.Kind)
	}
	logger.Info("transcript written",
		logging.String("path", dest.Path),
		logging.String("format", dest.Kind.String()),
		logging.Int("segments", len(segments)),
	)
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp output: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
