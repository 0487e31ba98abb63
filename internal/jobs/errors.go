package jobs

import (
	"fmt"
	"time"

	"diarist/internal/services"
)

// SubmissionError reports that the service rejected or never received a job.
type SubmissionError struct {
	Cause error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit transcription job: %v", e.Cause)
}

func (e *SubmissionError) Unwrap() error { return e.Cause }

func (e *SubmissionError) Is(target error) bool { return target == services.ErrSubmission }

// JobError carries the service's message for a job that ended in error.
type JobError struct {
	ID      string
	Message string
}

func (e *JobError) Error() string {
	return fmt.Sprintf("transcription job %s failed: %s", e.ID, e.Message)
}

func (e *JobError) Is(target error) bool { return target == services.ErrJobFailed }

// TransportError reports a poll failure that is permanent or exhausted its
// retry budget.
type TransportError struct {
	ID       string
	Attempts int
	Cause    error
}

func (e *TransportError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("poll job %s: failed after %d attempts: %v", e.ID, e.Attempts, e.Cause)
	}
	return fmt.Sprintf("poll job %s: %v", e.ID, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

func (e *TransportError) Is(target error) bool { return target == services.ErrTransport }

// PollTimeoutError reports that the local wait ended before a terminal
// state. The remote job keeps running.
type PollTimeoutError struct {
	ID         string
	Elapsed    time.Duration
	LastStatus Status
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("job %s still %s after %s; resume it later", e.ID, e.LastStatus, e.Elapsed)
}

func (e *PollTimeoutError) Is(target error) bool { return target == services.ErrPollTimeout }
