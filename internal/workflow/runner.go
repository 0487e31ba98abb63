package workflow

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"diarist/internal/capture"
	"diarist/internal/config"
	"diarist/internal/history"
	"diarist/internal/jobs"
	"diarist/internal/layout"
	"diarist/internal/logging"
	"diarist/internal/render"
	"diarist/internal/services/assemblyai"
	"diarist/internal/staging"
)

// Service is the remote transcription API used by a run.
type Service interface {
	staging.Uploader
	jobs.Remote
}

// Recorder captures microphone audio into dest until stop is closed.
type Recorder interface {
	Record(ctx context.Context, dest string, stop <-chan struct{}) error
}

// Progress receives short human-readable milestones of a run.
type Progress func(stage, detail string)

// Runner coordinates staging, job polling, history, and rendering.
type Runner struct {
	cfg    *config.Config
	store  *history.Store
	logger *slog.Logger
	base   *slog.Logger

	service  Service
	recorder Recorder
	clock    jobs.Clock
	measurer layout.Measurer
	stdout   io.Writer
	progress Progress
	newID    func() string

	lock *flock.Flock
}

// Option customizes a Runner.
type Option func(*Runner)

// WithService replaces the AssemblyAI client.
func WithService(service Service) Option {
	return func(r *Runner) {
		if service != nil {
			r.service = service
		}
	}
}

// WithHTTPClient sets the HTTP client of the default AssemblyAI client.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Runner) {
		r.service = newService(r.cfg, assemblyai.WithHTTPClient(client))
	}
}

// WithRecorder replaces the ffmpeg recorder.
func WithRecorder(recorder Recorder) Option {
	return func(r *Runner) {
		if recorder != nil {
			r.recorder = recorder
		}
	}
}

// WithClock replaces the clock used between polls.
func WithClock(clock jobs.Clock) Option {
	return func(r *Runner) {
		r.clock = clock
	}
}

// WithMeasurer replaces the PDF font metrics.
func WithMeasurer(m layout.Measurer) Option {
	return func(r *Runner) {
		r.measurer = m
	}
}

// WithStdout redirects transcripts written to standard output.
func WithStdout(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.stdout = w
		}
	}
}

// WithProgress registers a callback for run milestones.
func WithProgress(fn Progress) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// WithRequestIDs replaces the request ID generator.
func WithRequestIDs(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// New constructs a runner. The store stays owned by the caller.
func New(cfg *config.Config, store *history.Store, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "workflow"),
		base:   logger,
		stdout: os.Stdout,
		newID:  uuid.NewString,
		lock:   flock.New(cfg.LockPath()),
	}
	r.service = newService(cfg)
	r.recorder = capture.NewRecorder(cfg, logger)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newService(cfg *config.Config, opts ...assemblyai.Option) *assemblyai.Client {
	return assemblyai.NewClient(assemblyai.Config{
		APIKey:           cfg.AssemblyAI.APIKey,
		BaseURL:          cfg.AssemblyAI.BaseURL,
		TimeoutSeconds:   cfg.AssemblyAI.TimeoutSeconds,
		LanguageCode:     cfg.AssemblyAI.LanguageCode,
		SpeakersExpected: cfg.AssemblyAI.SpeakersExpected,
	}, opts...)
}

func (r *Runner) renderer() *render.Renderer {
	opts := []render.Option{
		render.WithStdout(r.stdout),
		render.WithLogger(r.base),
	}
	if r.measurer != nil {
		opts = append(opts, render.WithMeasurer(r.measurer))
	}
	return render.New(render.GeometryFromConfig(r.cfg), opts...)
}

func (r *Runner) report(stage, detail string) {
	if r.progress != nil {
		r.progress(stage, detail)
	}
}
