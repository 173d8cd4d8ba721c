package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ArchiveEntry is a durably stored activity record.
type ArchiveEntry struct {
	ID           int64     `json:"id"`
	ActivityType string    `json:"activity_type"`
	Summary      string    `json:"summary"`
	Details      string    `json:"details,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ActivityArchive persists activity entries beyond the in-memory window.
type ActivityArchive struct {
	db *DB
}

// NewActivityArchive creates a new ActivityArchive
func NewActivityArchive(db *DB) *ActivityArchive {
	return &ActivityArchive{db: db}
}

// Record inserts a new archive entry
func (a *ActivityArchive) Record(ctx context.Context, entry *ArchiveEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var details any
	if entry.Details != "" {
		details = entry.Details
	}

	result, err := a.db.ExecContext(ctx, `
		INSERT INTO activity_archive (activity_type, summary, details, created_at)
		VALUES (?, ?, ?, ?)
	`, entry.ActivityType, entry.Summary, details, createdAt)
	if err != nil {
		return fmt.Errorf("failed to archive activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	entry.CreatedAt = createdAt

	return nil
}

// Recent returns archive entries, newest first, optionally filtered by type.
func (a *ActivityArchive) Recent(ctx context.Context, activityType string, limit int) ([]ArchiveEntry, error) {
	query := `
		SELECT id, activity_type, summary, details, created_at
		FROM activity_archive
	`
	var args []any
	if activityType != "" {
		query += " WHERE activity_type = ?"
		args = append(args, activityType)
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}
	defer rows.Close()

	var entries []ArchiveEntry
	for rows.Next() {
		var entry ArchiveEntry
		var details sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.ActivityType,
			&entry.Summary,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan archive entry: %w", err)
		}
		if details.Valid {
			entry.Details = details.String
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating archive rows: %w", err)
	}

	return entries, nil
}
