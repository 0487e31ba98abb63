package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"diarist/internal/services"
)

func TestTranscribeURLPrintsTranscript(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, stderr, err := runCLI(t, []string{"transcribe", "https://media.example/standup.mp3"}, env.configPath)
	if err != nil {
		t.Fatalf("transcribe failed: %v\nstderr: %s", err, stderr)
	}
	want := "A [0.0s→1.0s]: good morning\nB [1.0s→2.0s]: hi\n"
	if stdout != want {
		t.Fatalf("unexpected stdout:\n got %q\nwant %q", stdout, want)
	}
	requireContains(t, stderr, "job-42")
	requireContains(t, stderr, "[OK] completed")
	if strings.Contains(stderr, "\x1b[") {
		t.Fatalf("expected no color codes off a terminal, got %q", stderr)
	}
}

func TestTranscribeLocalFileToPDF(t *testing.T) {
	env := setupCLITestEnv(t)
	audio := filepath.Join(env.baseDir, "clip.wav")
	if err := os.WriteFile(audio, []byte("RIFF....WAVEfmt "), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	out := filepath.Join(env.baseDir, "out", "clip.pdf")

	stdout, stderr, err := runCLI(t, []string{"transcribe", audio, "-o", out}, env.configPath)
	if err != nil {
		t.Fatalf("transcribe failed: %v\nstderr: %s", err, stderr)
	}
	if stdout != "" {
		t.Fatalf("expected empty stdout for file output, got %q", stdout)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatal("expected a PDF document")
	}
	requireContains(t, stderr, "Upload:")
}

func TestTranscribeWithoutCredentialFailsBeforeNetwork(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeConfig(t, "")

	_, _, err := runCLI(t, []string{"transcribe", "https://media.example/a.mp3"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	requireContains(t, err.Error(), "assemblyai.api_key")
	if n := env.requests.Load(); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestTranscribeRequiresInput(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"transcribe"}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTranscribeJobErrorIsFatal(t *testing.T) {
	env := setupCLITestEnv(t)
	env.document = `{"id": "job-42", "status": "error", "error": "audio too short"}`

	stdout, _, err := runCLI(t, []string{"transcribe", "https://media.example/a.mp3"}, env.configPath)
	if !errors.Is(err, services.ErrJobFailed) {
		t.Fatalf("expected job failure, got %v", err)
	}
	requireContains(t, err.Error(), "audio too short")
	if stdout != "" {
		t.Fatalf("expected no transcript output, got %q", stdout)
	}
}

func TestJobsListsHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, stderr, err := runCLI(t, []string{"transcribe", "https://media.example/standup.mp3"}, env.configPath); err != nil {
		t.Fatalf("transcribe failed: %v\nstderr: %s", err, stderr)
	}

	stdout, _, err := runCLI(t, []string{"jobs"}, env.configPath)
	if err != nil {
		t.Fatalf("jobs failed: %v", err)
	}
	requireContains(t, stdout, "job-42")
	requireContains(t, stdout, "completed")
	requireContains(t, stdout, "╭")

	stdout, _, err = runCLI(t, []string{"jobs", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("jobs --json failed: %v", err)
	}
	var views []jobView
	if err := json.Unmarshal([]byte(stdout), &views); err != nil {
		t.Fatalf("decode jobs json: %v\n%s", err, stdout)
	}
	if len(views) != 1 || views[0].ID != "job-42" || !views[0].HasResult || views[0].Status != "completed" {
		t.Fatalf("unexpected job views: %+v", views)
	}
}

func TestRenderWorksWithoutCredential(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, stderr, err := runCLI(t, []string{"transcribe", "https://media.example/standup.mp3"}, env.configPath); err != nil {
		t.Fatalf("transcribe failed: %v\nstderr: %s", err, stderr)
	}
	env.writeConfig(t, "")
	env.server.Close()

	out := filepath.Join(env.baseDir, "again")
	if _, stderr, err := runCLI(t, []string{"render", "job-42", "-o", out}, env.configPath); err != nil {
		t.Fatalf("render failed: %v\nstderr: %s", err, stderr)
	}
	data, err := os.ReadFile(out + ".txt")
	if err != nil {
		t.Fatalf("read rendered text: %v", err)
	}
	if string(data) != "A [0.0s→1.0s]: good morning\nB [1.0s→2.0s]: hi" {
		t.Fatalf("unexpected render output %q", data)
	}
}

func TestJobsEmptyHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"jobs"}, env.configPath)
	if err != nil {
		t.Fatalf("jobs failed: %v", err)
	}
	requireContains(t, stdout, "No jobs recorded yet")
}
