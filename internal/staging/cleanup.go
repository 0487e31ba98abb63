package staging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"diarist/internal/logging"
)

// CleanupResult contains the outcome of a recording cleanup.
type CleanupResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStaleRecordings removes .wav captures in dir older than maxAge. A
// non-positive maxAge keeps everything.
func CleanStaleRecordings(dir string, maxAge time.Duration, now time.Time, logger *slog.Logger) CleanupResult {
	result := CleanupResult{}

	dir = strings.TrimSpace(dir)
	if dir == "" || maxAge <= 0 {
		return result
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
		}
		return result
	}

	cutoff := now.Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".wav") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			logging.WarnWithContext(logger, "failed to remove stale recording", "recording_cleanup_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check state_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, path)
		if logger != nil {
			logger.Info("removed stale recording",
				logging.String("path", path),
				logging.Duration("age", now.Sub(info.ModTime())),
				logging.String(logging.FieldEventType, "recording_cleanup"),
			)
		}
	}
	return result
}
