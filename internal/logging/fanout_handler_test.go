package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewFanoutHandlerCollapses(t *testing.T) {
	if _, ok := newFanoutHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every handler is nil")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := newFanoutHandler(nil, inner); h != inner {
		t.Fatal("expected single non-nil handler to be returned unwrapped")
	}
}

func TestFanoutHandlerRespectsPerHandlerLevels(t *testing.T) {
	var quiet, verbose bytes.Buffer
	h := newFanoutHandler(
		slog.NewJSONHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&verbose, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected fanout enabled when any handler accepts the level")
	}

	logger := slog.New(h).With("job_id", "abc")
	logger.Debug("poll")
	logger.Warn("retry")

	if strings.Contains(quiet.String(), "poll") || !strings.Contains(quiet.String(), "retry") {
		t.Fatalf("unexpected warn-level output: %q", quiet.String())
	}
	if strings.Count(verbose.String(), `"job_id":"abc"`) != 2 {
		t.Fatalf("expected both records with attrs in verbose sink: %q", verbose.String())
	}
}
