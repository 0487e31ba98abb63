package history_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"diarist/internal/history"
	"diarist/internal/testsupport"
	"diarist/internal/transcript"
)

func TestRecordAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	entry, err := store.Record(ctx, "job-1", "req-1", "/tmp/interview.wav", "https://cdn.example/upload/1")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if entry.Status != history.StatusSubmitted {
		t.Fatalf("expected submitted status, got %q", entry.Status)
	}
	if entry.RequestID != "req-1" || entry.Source != "/tmp/interview.wav" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
	if entry.HasResult {
		t.Fatal("new entry should not have a result")
	}
	if entry.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be populated")
	}
	if store.Path() != cfg.HistoryPath() {
		t.Fatalf("unexpected db path %q", store.Path())
	}
}

func TestRecordRequiresID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.Record(context.Background(), "  ", "", "src", "url"); err == nil {
		t.Fatal("expected error for blank id")
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateStatus(context.Background(), "nope", history.StatusQueued, "", 1); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from UpdateStatus, got %v", err)
	}
}

func TestUpdateStatusKeepsMessageOnlyForFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.RecordJob(t, store, "job-2", "a.wav")

	ctx := context.Background()
	if err := store.UpdateStatus(ctx, "job-2", history.StatusProcessing, "ignored", 2); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	entry, err := store.Get(ctx, "job-2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry.Status != history.StatusProcessing || entry.ErrorMessage != "" || entry.Polls != 2 {
		t.Fatalf("unexpected entry after processing update: %#v", entry)
	}

	if err := store.UpdateStatus(ctx, "job-2", history.StatusErrored, "audio too short", 3); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	entry, err = store.Get(ctx, "job-2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry.Status != history.StatusErrored || entry.ErrorMessage != "audio too short" {
		t.Fatalf("unexpected entry after error update: %#v", entry)
	}
	if entry.Status.Resumable() {
		t.Fatal("remote error should not be resumable")
	}
}

func TestSaveResultRoundTripsDiarization(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.RecordJob(t, store, "job-3", "b.wav")

	ctx := context.Background()
	result := transcript.Result{
		AudioDuration: 4.5,
		Text:          "hi there",
		Diarization:   json.RawMessage(`{"segments":[{"speaker_label":"A","start":0,"end":1000}]}`),
		Words:         []transcript.Word{{Text: "hi", Start: 0, End: 400}, {Text: "there", Start: 500, End: 900}},
	}
	if err := store.SaveResult(ctx, "job-3", result); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}
	if err := store.SetOutput(ctx, "job-3", "/tmp/out.pdf"); err != nil {
		t.Fatalf("SetOutput failed: %v", err)
	}

	entry, err := store.Get(ctx, "job-3")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry.Status != history.StatusCompleted || !entry.HasResult || entry.OutputPath != "/tmp/out.pdf" {
		t.Fatalf("unexpected entry: %#v", entry)
	}

	loaded, err := store.Result(ctx, "job-3")
	if err != nil {
		t.Fatalf("Result failed: %v", err)
	}
	segments := transcript.Assemble(loaded)
	if len(segments) != 1 || segments[0].Speaker != "A" || segments[0].Text != "hi there" {
		t.Fatalf("unexpected segments from stored result: %#v", segments)
	}
}

func TestResultWithoutPayloadFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.RecordJob(t, store, "job-4", "c.wav")

	if _, err := store.Result(context.Background(), "job-4"); err == nil {
		t.Fatal("expected error for job without result")
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	for _, id := range []string{"first", "second", "third"} {
		testsupport.RecordJob(t, store, id, id+".wav")
	}

	ctx := context.Background()
	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != "third" || all[2].ID != "first" {
		t.Fatalf("unexpected order: %v", ids(all))
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(limited))
	}

	latest, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest.ID != "third" {
		t.Fatalf("expected latest job third, got %q", latest.ID)
	}
}

func TestLatestOnEmptyHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.Latest(context.Background()); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.Record(context.Background(), "persisted", "", "d.wav", "url"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	if _, err := reopened.Get(context.Background(), "persisted"); err != nil {
		t.Fatalf("expected entry after reopen: %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	status, ok := history.ParseStatus("error")
	if !ok || status != history.StatusErrored {
		t.Fatalf("expected error status, got %q %v", status, ok)
	}
	if _, ok := history.ParseStatus("bogus"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
	if !history.StatusDetached.Resumable() || history.StatusCompleted.Resumable() {
		t.Fatal("unexpected resumable classification")
	}
}

func ids(entries []*history.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}
