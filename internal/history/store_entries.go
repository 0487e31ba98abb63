package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"diarist/internal/transcript"
)

// ErrNotFound reports a job identifier absent from the history.
var ErrNotFound = errors.New("job not found")

const entryColumns = "id, request_id, source, audio_url, status, error_message, output_path, polls, result_json IS NOT NULL, created_at, updated_at"

// Record inserts a freshly submitted job.
func (s *Store) Record(ctx context.Context, id, requestID, source, audioURL string) (*Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("job id is required")
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.exec(
		ctx,
		`INSERT INTO jobs (id, request_id, source, audio_url, status, polls, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		id,
		nullableString(requestID),
		source,
		audioURL,
		StatusSubmitted,
		timestamp,
		timestamp,
	); err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return s.Get(ctx, id)
}

// UpdateStatus stores the latest known status of a job. A message is kept
// only for failure states; other states clear it.
func (s *Store) UpdateStatus(ctx context.Context, id string, status Status, message string, polls int) error {
	if status != StatusErrored && status != StatusFailed && status != StatusDetached {
		message = ""
	}
	res, err := s.exec(
		ctx,
		`UPDATE jobs SET status = ?, error_message = ?, polls = ?, updated_at = ? WHERE id = ?`,
		status,
		nullableString(message),
		polls,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	return requireAffected(res, id)
}

// SaveResult stores the completed analysis so documents can be re-rendered
// without contacting the service.
func (s *Store) SaveResult(ctx context.Context, id string, result transcript.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	res, err := s.exec(
		ctx,
		`UPDATE jobs SET status = ?, error_message = NULL, result_json = ?, updated_at = ? WHERE id = ?`,
		StatusCompleted,
		string(payload),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return requireAffected(res, id)
}

// Result loads the stored analysis of a completed job.
func (s *Store) Result(ctx context.Context, id string) (transcript.Result, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ensureContext(ctx), `SELECT result_json FROM jobs WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return transcript.Result{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return transcript.Result{}, fmt.Errorf("load result: %w", err)
	}
	if !raw.Valid || raw.String == "" {
		return transcript.Result{}, fmt.Errorf("job %s has no stored result", id)
	}
	var result transcript.Result
	if err := json.Unmarshal([]byte(raw.String), &result); err != nil {
		return transcript.Result{}, fmt.Errorf("decode stored result: %w", err)
	}
	return result, nil
}

// SetOutput records where the rendered document was written.
func (s *Store) SetOutput(ctx context.Context, id, path string) error {
	res, err := s.exec(
		ctx,
		`UPDATE jobs SET output_path = ?, updated_at = ? WHERE id = ?`,
		nullableString(path),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("set output: %w", err)
	}
	return requireAffected(res, id)
}

// Get returns a single job or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+entryColumns+` FROM jobs WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return entry, nil
}

// List returns jobs newest first. A limit <= 0 returns every job.
func (s *Store) List(ctx context.Context, limit int) ([]*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM jobs ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Latest returns the most recently submitted job, or ErrNotFound when the
// history is empty.
func (s *Store) Latest(ctx context.Context) (*Entry, error) {
	entries, err := s.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return entries[0], nil
}
