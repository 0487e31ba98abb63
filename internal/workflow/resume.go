package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"diarist/internal/history"
	"diarist/internal/jobs"
	"diarist/internal/logging"
	"diarist/internal/render"
	"diarist/internal/services"
)

// LatestJob selects the most recently submitted job in Resume and Render.
const LatestJob = "latest"

// Resume waits again on a previously submitted job and renders it. A job
// whose result is already stored is rendered without polling.
func (r *Runner) Resume(ctx context.Context, jobID, output string, interval, timeout time.Duration) (*Outcome, error) {
	dest := render.ResolveDestination(output)
	if err := r.checkDestination(dest); err != nil {
		return nil, err
	}
	release, err := r.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	entry, err := r.lookup(ctx, jobID)
	if err != nil {
		return nil, err
	}
	ctx = services.WithRequestID(ctx, entry.RequestID)
	outcome := &Outcome{
		JobID:       entry.ID,
		RequestID:   entry.RequestID,
		Source:      entry.Source,
		Destination: dest,
		Polls:       entry.Polls,
	}

	switch {
	case entry.HasResult:
		logging.WithContext(services.WithJobID(ctx, entry.ID), r.logger).Info("job already completed; rendering stored result")
		return outcome, r.renderStored(ctx, entry, dest, outcome)
	case entry.Status == history.StatusErrored:
		return outcome, &jobs.JobError{ID: entry.ID, Message: entry.ErrorMessage}
	case !entry.Status.Resumable():
		return outcome, services.Wrap(services.ErrValidation, "resume", "check status", fmt.Sprintf("Job %s cannot be resumed from status %s", entry.ID, entry.Status), nil)
	}

	r.report("resume", entry.ID)
	if err := r.complete(ctx, entry.ID, entry.Polls, r.pollOptions(interval, timeout), dest, outcome); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// Render rebuilds a document from the stored result of a completed job
// without contacting the service.
func (r *Runner) Render(ctx context.Context, jobID, output string) (*Outcome, error) {
	dest := render.ResolveDestination(output)
	if err := r.checkDestination(dest); err != nil {
		return nil, err
	}
	entry, err := r.lookup(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !entry.HasResult {
		return nil, services.Wrap(services.ErrValidation, "render", "load result", fmt.Sprintf("Job %s has no stored transcript (status %s)", entry.ID, entry.Status), nil)
	}
	ctx = services.WithRequestID(ctx, entry.RequestID)
	outcome := &Outcome{
		JobID:       entry.ID,
		RequestID:   entry.RequestID,
		Source:      entry.Source,
		Destination: dest,
		Polls:       entry.Polls,
	}
	return outcome, r.renderStored(ctx, entry, dest, outcome)
}

func (r *Runner) renderStored(ctx context.Context, entry *history.Entry, dest render.Destination, outcome *Outcome) error {
	result, err := r.store.Result(ctx, entry.ID)
	if err != nil {
		return err
	}
	return r.renderResult(ctx, entry.ID, result, dest, outcome)
}

func (r *Runner) lookup(ctx context.Context, jobID string) (*history.Entry, error) {
	jobID = strings.TrimSpace(jobID)
	var (
		entry *history.Entry
		err   error
	)
	if jobID == "" || jobID == LatestJob {
		entry, err = r.store.Latest(ctx)
	} else {
		entry, err = r.store.Get(ctx, jobID)
	}
	if errors.Is(err, history.ErrNotFound) {
		if jobID == "" || jobID == LatestJob {
			return nil, services.Wrap(services.ErrValidation, "history", "lookup", "No jobs have been submitted yet", err)
		}
		return nil, services.Wrap(services.ErrValidation, "history", "lookup", fmt.Sprintf("Unknown job %s", jobID), err)
	}
	return entry, err
}
