package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"diarist/internal/history"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrSubmission    = errors.New("submission error")
	ErrTransport     = errors.New("transport error")
	ErrJobFailed     = errors.New("transcription job failed")
	ErrPollTimeout   = errors.New("poll timeout")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later status classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a run error to the history status recorded for the job.
// A local poll timeout or cancellation leaves the remote job running, so the
// entry is marked detached and can be resumed.
func FailureStatus(err error) history.Status {
	switch {
	case errors.Is(err, ErrJobFailed):
		return history.StatusErrored
	case errors.Is(err, ErrPollTimeout), errors.Is(err, context.Canceled):
		return history.StatusDetached
	default:
		return history.StatusFailed
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
