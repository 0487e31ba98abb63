package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

const completedJob = `{
  "id": "job-42",
  "status": "completed",
  "text": "good morning hi",
  "audio_duration": 2.0,
  "words": [
    {"text": "good", "start": 0, "end": 300},
    {"text": "morning", "start": 300, "end": 800},
    {"text": "hi", "start": 1200, "end": 1400}
  ],
  "speaker_labels": {"segments": [
    {"speaker_label": "A", "start": 0, "end": 1000},
    {"speaker_label": "B", "start": 1000, "end": 2000}
  ]}
}`

type cliTestEnv struct {
	baseDir    string
	configPath string
	server     *httptest.Server
	requests   atomic.Int32
	document   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("AAI_TOKEN", "")
	t.Setenv("ASSEMBLYAI_API_KEY", "")
	t.Setenv("DIARIST_ENV", "")
	chdirForTest(t, base)

	env := &cliTestEnv{baseDir: base, document: completedJob}
	env.server = httptest.NewServer(http.HandlerFunc(env.serve))
	t.Cleanup(env.server.Close)

	env.configPath = filepath.Join(base, "diarist.toml")
	env.writeConfig(t, "test-token")
	return env
}

func (e *cliTestEnv) serve(w http.ResponseWriter, r *http.Request) {
	e.requests.Add(1)
	if r.Header.Get("Authorization") != "test-token" {
		http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
		return
	}
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v2/upload":
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = io.WriteString(w, `{"upload_url": "https://cdn.example/u/1"}`)
	case r.Method == http.MethodPost && r.URL.Path == "/v2/transcript":
		_, _ = io.WriteString(w, `{"id": "job-42", "status": "queued"}`)
	case r.Method == http.MethodGet && r.URL.Path == "/v2/transcript/job-42":
		_, _ = io.WriteString(w, e.document)
	default:
		http.NotFound(w, r)
	}
}

func (e *cliTestEnv) writeConfig(t *testing.T, apiKey string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
state_dir = %q
log_dir = %q

[assemblyai]
api_key = %q
base_url = %q

[jobs]
poll_interval_seconds = 1
`,
		filepath.Join(e.baseDir, "state"),
		filepath.Join(e.baseDir, "logs"),
		apiKey,
		e.server.URL,
	)
	if err := os.WriteFile(e.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q, got:\n%s", substr, output)
	}
}

// chdirForTest changes the working directory for the duration of the test
// and restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}
