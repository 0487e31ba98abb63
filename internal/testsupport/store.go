package testsupport

import (
	"context"
	"testing"

	"diarist/internal/config"
	"diarist/internal/history"
)

// MustOpenStore opens a history.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordJob inserts a submitted job for tests using the provided store.
func RecordJob(t testing.TB, store *history.Store, id, source string) *history.Entry {
	t.Helper()

	entry, err := store.Record(context.Background(), id, "req-"+id, source, "https://cdn.example/"+id)
	if err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return entry
}
