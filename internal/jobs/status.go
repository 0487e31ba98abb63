package jobs

import "fmt"

// Status is the lifecycle state of a remote job. Values share the service's
// wire spelling.
type Status string

const (
	StatusSubmitted  Status = "submitted"
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusErrored    Status = "error"
)

// ParseStatus converts a status reported by the service.
func ParseStatus(value string) (Status, error) {
	switch s := Status(value); s {
	case StatusQueued, StatusProcessing, StatusCompleted, StatusErrored:
		return s, nil
	default:
		return "", fmt.Errorf("unknown job status %q", value)
	}
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusErrored
}

// CanTransition reports whether a job may move from one status to another.
// Terminal states are final and nothing returns to Submitted.
func CanTransition(from, to Status) bool {
	if from.Terminal() || to == StatusSubmitted {
		return false
	}
	switch to {
	case StatusQueued, StatusProcessing, StatusCompleted, StatusErrored:
		return true
	default:
		return false
	}
}
