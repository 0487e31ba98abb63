package history

import "time"

// Status represents the last known lifecycle state of a job.
type Status string

// Remote states share their wire spelling with the transcription service so
// a polled status converts directly.
const (
	StatusSubmitted  Status = "submitted"
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusErrored    Status = "error"
	// StatusDetached marks a job whose local wait ended before a terminal
	// state; the remote job may still complete.
	StatusDetached Status = "detached"
	// StatusFailed marks a local failure (transport, submission, rendering).
	StatusFailed Status = "failed"
)

var allStatuses = []Status{
	StatusSubmitted,
	StatusQueued,
	StatusProcessing,
	StatusCompleted,
	StatusErrored,
	StatusDetached,
	StatusFailed,
}

// ParseStatus converts a stored value back into a Status.
func ParseStatus(value string) (Status, bool) {
	for _, status := range allStatuses {
		if string(status) == value {
			return status, true
		}
	}
	return "", false
}

// Resumable reports whether waiting on the job again can make progress.
func (s Status) Resumable() bool {
	switch s {
	case StatusSubmitted, StatusQueued, StatusProcessing, StatusDetached, StatusFailed:
		return true
	default:
		return false
	}
}

// Entry is one persisted job.
type Entry struct {
	ID           string
	RequestID    string
	Source       string
	AudioURL     string
	Status       Status
	ErrorMessage string
	OutputPath   string
	Polls        int
	HasResult    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
