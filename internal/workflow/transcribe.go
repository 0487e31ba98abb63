package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"diarist/internal/history"
	"diarist/internal/jobs"
	"diarist/internal/logging"
	"diarist/internal/render"
	"diarist/internal/services"
	"diarist/internal/staging"
	"diarist/internal/transcript"
)

// Request describes one transcription run.
type Request struct {
	// Input is a local audio path or an http(s) URL. It must be empty when
	// Record is set.
	Input  string
	Output string
	Record bool
	// Stop ends a recording. With a nil channel ffmpeg runs until it exits.
	Stop <-chan struct{}
	// PollInterval overrides jobs.poll_interval_seconds when positive.
	PollInterval time.Duration
	// Timeout overrides jobs.poll_timeout_seconds when positive; a negative
	// value waits indefinitely.
	Timeout time.Duration
}

// Outcome summarizes a finished run.
type Outcome struct {
	JobID       string
	RequestID   string
	Source      string
	Destination render.Destination
	Segments    int
	Polls       int
}

// Transcribe stages the input, runs a job to completion, and renders the
// diarized transcript. Nothing is written to the destination unless the job
// completes.
func (r *Runner) Transcribe(ctx context.Context, req Request) (*Outcome, error) {
	dest := render.ResolveDestination(req.Output)
	if err := r.checkDestination(dest); err != nil {
		return nil, err
	}
	if req.Record && strings.TrimSpace(req.Input) != "" {
		return nil, services.Wrap(services.ErrValidation, "input", "resolve input", "Give either an audio source or --record, not both", nil)
	}

	release, err := r.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	requestID := r.newID()
	ctx = services.WithRequestID(ctx, requestID)
	logger := logging.WithContext(ctx, r.logger)

	input := req.Input
	if req.Record {
		if input, err = r.record(ctx, req.Stop); err != nil {
			return nil, err
		}
	}

	stageCtx := services.WithStage(ctx, "staging")
	ref, err := staging.Stage(stageCtx, r.service, input)
	if err != nil {
		return nil, err
	}
	if ref.Uploaded {
		r.report("upload", ref.Source)
	}

	client := r.jobClient(ctx, 0)
	jobID, err := client.Submit(services.WithStage(ctx, "submit"), ref)
	if err != nil {
		return nil, err
	}
	r.report("submit", jobID)
	if _, err := r.store.Record(ctx, jobID, requestID, ref.Source, ref.URL); err != nil {
		return nil, fmt.Errorf("record job %s: %w", jobID, err)
	}
	logger.Info("job recorded",
		logging.String(logging.FieldJobID, jobID),
		logging.String("source", ref.Source),
	)

	outcome := &Outcome{JobID: jobID, RequestID: requestID, Source: ref.Source, Destination: dest}
	if err := r.complete(ctx, jobID, 0, r.pollOptions(req.PollInterval, req.Timeout), dest, outcome); err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (r *Runner) checkDestination(dest render.Destination) error {
	if dest.Kind != render.KindPDF {
		return nil
	}
	if err := r.cfg.ValidateDocument(); err != nil {
		return services.Wrap(services.ErrConfiguration, "render", "validate document", "Document settings cannot produce a PDF", err)
	}
	if err := render.GeometryFromConfig(r.cfg).Validate(); err != nil {
		return services.Wrap(services.ErrConfiguration, "render", "validate geometry", "Document settings cannot produce a PDF", err)
	}
	return nil
}

func (r *Runner) record(ctx context.Context, stop <-chan struct{}) (string, error) {
	ctx = services.WithStage(ctx, "capture")
	logger := logging.WithContext(ctx, r.logger)

	dir := r.cfg.RecordingDir()
	now := time.Now()
	staging.CleanStaleRecordings(dir, r.cfg.RecordingRetention(), now, logger)

	dest := filepath.Join(dir, "recording-"+now.UTC().Format("20060102-150405")+".wav")
	r.report("record", dest)
	if err := r.recorder.Record(ctx, dest, stop); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", services.Wrap(services.ErrValidation, "capture", "record", "Microphone recording failed", err)
	}
	return dest, nil
}

func (r *Runner) pollOptions(interval, timeout time.Duration) jobs.PollOptions {
	opts := jobs.PollOptions{
		Interval:            r.cfg.PollInterval(),
		Timeout:             r.cfg.PollTimeout(),
		MaxTransientRetries: r.cfg.Jobs.MaxTransientRetries,
	}
	if interval > 0 {
		opts.Interval = interval
	}
	switch {
	case timeout > 0:
		opts.Timeout = timeout
	case timeout < 0:
		opts.Timeout = 0
	}
	return opts
}

// jobClient builds a jobs client whose transitions are persisted. priorPolls
// carries the poll count of an earlier attempt on the same job.
func (r *Runner) jobClient(ctx context.Context, priorPolls int) *jobs.Client {
	logger := logging.WithContext(ctx, r.logger)
	observer := func(t jobs.Transition) {
		r.report("status", string(t.To))
		if t.To.Terminal() {
			return
		}
		if err := r.store.UpdateStatus(ctx, t.JobID, history.Status(t.To), "", priorPolls+t.Polls); err != nil {
			logging.WarnWithContext(logger, "failed to persist job status", "history_update_failed",
				logging.String(logging.FieldJobID, t.JobID),
				logging.String("status", string(t.To)),
				logging.Error(err),
				logging.String(logging.FieldImpact, "history shows a stale status"),
			)
		}
	}
	opts := []jobs.Option{jobs.WithLogger(r.base), jobs.WithObserver(observer)}
	if r.clock != nil {
		opts = append(opts, jobs.WithClock(r.clock))
	}
	return jobs.New(r.service, opts...)
}

// complete waits for jobID, stores its result, and renders it.
func (r *Runner) complete(ctx context.Context, jobID string, priorPolls int, opts jobs.PollOptions, dest render.Destination, outcome *Outcome) error {
	ctx = services.WithJobID(ctx, jobID)
	client := r.jobClient(ctx, priorPolls)

	job, err := client.Await(services.WithStage(ctx, "poll"), jobID, opts)
	if job != nil {
		outcome.Polls = priorPolls + job.Polls
	}
	if err != nil {
		r.recordFailure(ctx, jobID, err, outcome.Polls)
		return err
	}
	if err := r.store.SaveResult(ctx, jobID, job.Result); err != nil {
		return fmt.Errorf("save result of job %s: %w", jobID, err)
	}
	if err := r.store.UpdateStatus(ctx, jobID, history.StatusCompleted, "", outcome.Polls); err != nil {
		return fmt.Errorf("record completion of job %s: %w", jobID, err)
	}
	return r.renderResult(ctx, jobID, job.Result, dest, outcome)
}

func (r *Runner) renderResult(ctx context.Context, jobID string, result transcript.Result, dest render.Destination, outcome *Outcome) error {
	ctx = services.WithStage(services.WithJobID(ctx, jobID), "render")
	segments := transcript.Assemble(result)
	outcome.Segments = len(segments)
	outcome.Destination = dest

	if err := r.renderer().Render(ctx, dest, segments); err != nil {
		return err
	}
	if dest.Path != "" {
		if err := r.store.SetOutput(ctx, jobID, dest.Path); err != nil {
			return fmt.Errorf("record output of job %s: %w", jobID, err)
		}
		r.report("output", dest.Path)
	}
	return nil
}

// recordFailure persists the failure classification of a run. It uses a
// context detached from cancellation so an interrupted wait still lands as
// detached.
func (r *Runner) recordFailure(ctx context.Context, jobID string, runErr error, polls int) {
	status := services.FailureStatus(runErr)
	message := runErr.Error()
	var jobErr *jobs.JobError
	if errors.As(runErr, &jobErr) {
		message = jobErr.Message
	}
	logger := logging.WithContext(ctx, r.logger)
	if err := r.store.UpdateStatus(context.WithoutCancel(ctx), jobID, status, message, polls); err != nil {
		logging.WarnWithContext(logger, "failed to persist job failure", "history_update_failed",
			logging.Error(err),
			logging.String("status", string(status)),
		)
	}
	logging.ErrorWithContext(logger, "transcription job did not complete", "job_failed",
		logging.String("status", string(status)),
		logging.Int("polls", polls),
		logging.Error(runErr),
		logging.String(logging.FieldErrorHint, failureHint(status)),
	)
}

func failureHint(status history.Status) string {
	switch status {
	case history.StatusDetached:
		return "run 'diarist resume <job-id>' to keep waiting"
	case history.StatusErrored:
		return "the service rejected the audio; check the source file"
	default:
		return "check network access and the api key"
	}
}
