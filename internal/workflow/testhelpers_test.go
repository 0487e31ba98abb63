package workflow_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"diarist/internal/config"
	"diarist/internal/history"
	"diarist/internal/layout"
	"diarist/internal/testsupport"
	"diarist/internal/workflow"
)

const completedTranscript = `{
  "id": "job-1",
  "status": "completed",
  "text": "hello there general kenobi",
  "audio_duration": 3.5,
  "words": [
    {"text": "hello", "start": 0, "end": 400},
    {"text": "there", "start": 500, "end": 900},
    {"text": "general", "start": 1500, "end": 1900},
    {"text": "kenobi", "start": 2000, "end": 2500}
  ],
  "speaker_labels": {"segments": [
    {"speaker_label": "A", "start": 0, "end": 1000},
    {"speaker_label": "B", "start": 1500, "end": 3000}
  ]}
}`

const wantStdout = "A [0.0s→1.0s]: hello there\nB [1.5s→3.0s]: general kenobi\n"

// fakeService mimics the AssemblyAI v2 endpoints. Each GET returns the next
// scripted document; the last one repeats.
type fakeService struct {
	t *testing.T

	mu        sync.Mutex
	documents []string
	polls     int
	uploads   [][]byte
	submitted []map[string]any
}

func newFakeService(t *testing.T, documents ...string) (*fakeService, *httptest.Server) {
	t.Helper()
	fake := &fakeService{t: t, documents: documents}
	server := httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(server.Close)
	return fake, server
}

func statusDocument(status string) string {
	return `{"id": "job-1", "status": "` + status + `"}`
}

func (f *fakeService) serve(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "test-token" {
		http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v2/upload":
		data, _ := io.ReadAll(r.Body)
		f.uploads = append(f.uploads, data)
		_, _ = io.WriteString(w, `{"upload_url": "https://cdn.example/upload/1"}`)
	case r.Method == http.MethodPost && r.URL.Path == "/v2/transcript":
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			f.t.Errorf("decode submit payload: %v", err)
		}
		f.submitted = append(f.submitted, payload)
		_, _ = io.WriteString(w, statusDocument("queued"))
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v2/transcript/"):
		idx := f.polls
		if idx >= len(f.documents) {
			idx = len(f.documents) - 1
		}
		f.polls++
		_, _ = io.WriteString(w, f.documents[idx])
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeService) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

type fixture struct {
	cfg    *config.Config
	store  *history.Store
	stdout *bytes.Buffer
	clock  *testsupport.FakeClock
	runner *workflow.Runner
}

func newFixture(t *testing.T, baseURL string, opts ...workflow.Option) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(baseURL))
	store := testsupport.MustOpenStore(t, cfg)
	stdout := &bytes.Buffer{}
	clock := testsupport.NewFakeClock()
	ids := 0
	base := []workflow.Option{
		workflow.WithStdout(stdout),
		workflow.WithClock(clock),
		workflow.WithMeasurer(runeMeasurer{}),
		workflow.WithRequestIDs(func() string {
			ids++
			return "req-" + strings.Repeat("x", ids)
		}),
	}
	runner := workflow.New(cfg, store, nil, append(base, opts...)...)
	return &fixture{cfg: cfg, store: store, stdout: stdout, clock: clock, runner: runner}
}

type runeMeasurer struct{}

func (runeMeasurer) Width(text string, font layout.Font) float64 {
	return float64(len([]rune(text))) * font.Size / 2
}
