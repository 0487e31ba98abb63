package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		id           string
		requestID    sql.NullString
		source       string
		audioURL     string
		statusStr    string
		errorMessage sql.NullString
		outputPath   sql.NullString
		polls        sql.NullInt64
		hasResult    bool
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&requestID,
		&source,
		&audioURL,
		&statusStr,
		&errorMessage,
		&outputPath,
		&polls,
		&hasResult,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:           id,
		RequestID:    requestID.String,
		Source:       source,
		AudioURL:     audioURL,
		Status:       Status(statusStr),
		ErrorMessage: errorMessage.String,
		OutputPath:   outputPath.String,
		Polls:        int(polls.Int64),
		HasResult:    hasResult,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		entry.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		entry.UpdatedAt = updated
	}
	return entry, nil
}

func requireAffected(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
