package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wolfaudio/studio-mcp/internal/domain/project"
	"github.com/wolfaudio/studio-mcp/internal/repository"
)

// ProjectRepository implements repository.ProjectRepository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Save inserts or replaces a project by name
func (r *ProjectRepository) Save(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (name, script, notes, created_at, last_modified, word_count, character_count, is_sample)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			script = excluded.script,
			notes = excluded.notes,
			last_modified = excluded.last_modified,
			word_count = excluded.word_count,
			character_count = excluded.character_count,
			is_sample = excluded.is_sample
	`

	var lastModified any
	if !proj.LastModified.IsZero() {
		lastModified = proj.LastModified
	}

	_, err := r.db.ExecContext(ctx, query,
		proj.Name,
		proj.Script,
		proj.Notes,
		proj.CreatedAt,
		lastModified,
		proj.WordCount,
		proj.CharacterCount,
		proj.IsSample,
	)

	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}

	return nil
}

// Get retrieves a project by name
func (r *ProjectRepository) Get(ctx context.Context, name string) (*project.Project, error) {
	query := `
		SELECT name, script, notes, created_at, last_modified, word_count, character_count, is_sample
		FROM projects
		WHERE name = ?
	`

	var proj project.Project
	var lastModified sql.NullTime
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&proj.Name,
		&proj.Script,
		&proj.Notes,
		&proj.CreatedAt,
		&lastModified,
		&proj.WordCount,
		&proj.CharacterCount,
		&proj.IsSample,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if lastModified.Valid {
		proj.LastModified = lastModified.Time
	}

	return &proj, nil
}

// Delete removes a project by name
func (r *ProjectRepository) Delete(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all project summaries, newest first
func (r *ProjectRepository) List(ctx context.Context) ([]project.Summary, error) {
	query := `
		SELECT name, word_count, character_count, is_sample, created_at, last_modified
		FROM projects
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []project.Summary
	for rows.Next() {
		var summary project.Summary
		var lastModified sql.NullTime
		err := rows.Scan(
			&summary.Name,
			&summary.WordCount,
			&summary.CharacterCount,
			&summary.IsSample,
			&summary.CreatedAt,
			&lastModified,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		if lastModified.Valid {
			summary.LastModified = lastModified.Time
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}
