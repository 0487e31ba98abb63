package jobs

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"diarist/internal/logging"
	"diarist/internal/services"
	"diarist/internal/services/assemblyai"
	"diarist/internal/staging"
	"diarist/internal/transcript"
)

const (
	// DefaultPollInterval is used when PollOptions.Interval is not positive.
	DefaultPollInterval = 5 * time.Second
	// DefaultMaxTransientRetries bounds consecutive transient poll failures.
	DefaultMaxTransientRetries = 3
)

// Remote is the subset of the transcription service the client drives.
type Remote interface {
	Submit(ctx context.Context, audioURL string) (string, error)
	Transcript(ctx context.Context, id string) (assemblyai.Transcript, error)
}

// PollOptions tune AwaitCompletion.
type PollOptions struct {
	Interval time.Duration
	// Timeout stops local waiting once elapsed; zero waits indefinitely.
	Timeout             time.Duration
	MaxTransientRetries int
}

// Transition is one observed status change.
type Transition struct {
	JobID string
	From  Status
	To    Status
	Polls int
	At    time.Time
}

// Job is the locally tracked state of one remote job.
type Job struct {
	ID      string
	Status  Status
	Polls   int
	Message string
	Result  transcript.Result
}

// Client submits jobs and waits for them to finish.
type Client struct {
	remote    Remote
	clock     Clock
	logger    *slog.Logger
	observers []func(Transition)
}

// Option customizes the client.
type Option func(*Client)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock Clock) Option {
	return func(c *Client) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithObserver registers fn to receive every status change.
func WithObserver(fn func(Transition)) Option {
	return func(c *Client) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}

// New constructs a client around remote.
func New(remote Remote, opts ...Option) *Client {
	c := &Client{remote: remote, clock: realClock{}}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "jobs")
	return c
}

// Submit sends one job request for ref. It is never retried.
func (c *Client) Submit(ctx context.Context, ref staging.Reference) (string, error) {
	if strings.TrimSpace(ref.URL) == "" {
		return "", &SubmissionError{Cause: errors.New("audio reference has no url")}
	}
	id, err := c.remote.Submit(ctx, ref.URL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", &SubmissionError{Cause: err}
	}
	logging.WithContext(ctx, c.logger).Info("transcription job submitted",
		logging.String(logging.FieldJobID, id),
		logging.String("source", ref.Source),
		logging.Bool("uploaded", ref.Uploaded),
	)
	return id, nil
}

// AwaitCompletion polls job id until it completes, errors, times out, or ctx
// ends. The first poll happens immediately; later polls wait opts.Interval.
func (c *Client) AwaitCompletion(ctx context.Context, id string, opts PollOptions) (transcript.Result, error) {
	job, err := c.Await(ctx, id, opts)
	if err != nil {
		return transcript.Result{}, err
	}
	return job.Result, nil
}

// Await is AwaitCompletion returning the job state. On failure the returned
// job holds the state reached before the error.
func (c *Client) Await(ctx context.Context, id string, opts PollOptions) (*Job, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	maxRetries := opts.MaxTransientRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	ctx = services.WithJobID(ctx, id)
	logger := logging.WithContext(ctx, c.logger)
	job := &Job{ID: id, Status: StatusSubmitted}
	start := c.clock.Now()
	failures := 0

	for {
		if err := ctx.Err(); err != nil {
			return job, err
		}

		doc, err := c.remote.Transcript(ctx, id)
		job.Polls++
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return job, ctxErr
			}
			if !services.IsTransient(err) {
				return job, &TransportError{ID: id, Attempts: failures + 1, Cause: err}
			}
			failures++
			if failures > maxRetries {
				return job, &TransportError{ID: id, Attempts: failures, Cause: err}
			}
			logging.WarnWithContext(logger, "transient poll failure; retrying", "poll_retry",
				logging.Error(err),
				logging.Int("attempt", failures),
				logging.Int("max_retries", maxRetries),
				logging.String(logging.FieldErrorHint, "check network connectivity to the transcription service"),
				logging.String(logging.FieldImpact, "status check delayed by one interval"),
			)
		} else {
			failures = 0
			status, parseErr := ParseStatus(doc.Status)
			if parseErr != nil {
				return job, &TransportError{ID: id, Attempts: 1, Cause: parseErr}
			}
			c.advance(job, status, logger)
			switch job.Status {
			case StatusCompleted:
				job.Result = doc.Result
				logger.Info("transcription job completed",
					logging.Int("polls", job.Polls),
					logging.Float64("audio_duration", doc.AudioDuration),
				)
				return job, nil
			case StatusErrored:
				job.Message = strings.TrimSpace(doc.Error)
				return job, &JobError{ID: id, Message: job.Message}
			}
		}

		wait := interval
		if opts.Timeout > 0 {
			elapsed := c.clock.Now().Sub(start)
			if elapsed >= opts.Timeout {
				return job, &PollTimeoutError{ID: id, Elapsed: elapsed, LastStatus: job.Status}
			}
			// The last wait stops at the deadline for one final poll.
			if remaining := opts.Timeout - elapsed; remaining < wait {
				wait = remaining
			}
		}
		if err := c.clock.Sleep(ctx, wait); err != nil {
			return job, err
		}
	}
}

func (c *Client) advance(job *Job, to Status, logger *slog.Logger) {
	if job.Status == to {
		logger.Debug("job status unchanged", logging.String("status", string(to)), logging.Int("polls", job.Polls))
		return
	}
	if !CanTransition(job.Status, to) {
		logger.Debug("ignoring impossible status change",
			logging.String("from", string(job.Status)),
			logging.String("to", string(to)),
		)
		return
	}
	t := Transition{JobID: job.ID, From: job.Status, To: to, Polls: job.Polls, At: c.clock.Now()}
	job.Status = to
	logger.Debug("job status changed",
		logging.String("from", string(t.From)),
		logging.String("to", string(t.To)),
		logging.Int("polls", t.Polls),
	)
	for _, fn := range c.observers {
		fn(t)
	}
}
