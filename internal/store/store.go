// Package store handles SQLite persistence of normalized subjects.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stridelab/stridex/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound reports a subject id that is not in the database.
var ErrNotFound = fmt.Errorf("subject not found")

// Store wraps SQLite access for normalized subject documents.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS subjects (
			id TEXT PRIMARY KEY,
			sensors TEXT NOT NULL,
			days INTEGER NOT NULL,
			imported_at TEXT NOT NULL,
			doc TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_subjects_imported_at ON subjects(imported_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ImportSubjects upserts one ingestion batch. Existing subjects with
// the same id are overwritten; other subjects are left alone.
func (s *Store) ImportSubjects(ctx context.Context, subjects map[string]model.Subject) error {
	if len(subjects) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO subjects (id, sensors, days, imported_at, doc)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			sensors = excluded.sensors,
			days = excluded.days,
			imported_at = excluded.imported_at,
			doc = excluded.doc`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	now := time.Now().Format(time.RFC3339Nano)
	for id, subject := range subjects {
		doc, err := json.Marshal(subject)
		if err != nil {
			return fmt.Errorf("failed to encode subject %s: %w", id, err)
		}
		if _, err = stmt.ExecContext(ctx, id,
			strings.Join(subject.Sensors, ","), len(subject.Insole), now, string(doc)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ReplaceSubjects clears the table and installs the given collection in
// one transaction. A failed replace leaves prior contents untouched.
func (s *Store) ReplaceSubjects(ctx context.Context, subjects map[string]model.Subject) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM subjects`); err != nil {
		return err
	}
	now := time.Now().Format(time.RFC3339Nano)
	for id, subject := range subjects {
		doc, merr := json.Marshal(subject)
		if merr != nil {
			err = fmt.Errorf("failed to encode subject %s: %w", id, merr)
			return err
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO subjects (id, sensors, days, imported_at, doc) VALUES (?, ?, ?, ?, ?)`,
			id, strings.Join(subject.Sensors, ","), len(subject.Insole), now, string(doc)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListSubjects returns summaries of all stored subjects ordered by id.
func (s *Store) ListSubjects(ctx context.Context) ([]model.SubjectSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sensors, days FROM subjects ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var summaries []model.SubjectSummary
	for rows.Next() {
		var summary model.SubjectSummary
		var sensors string
		if err := rows.Scan(&summary.ID, &sensors, &summary.Days); err != nil {
			return nil, err
		}
		if sensors != "" {
			summary.Sensors = strings.Split(sensors, ",")
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// LoadSubject returns the normalized document of one subject.
func (s *Store) LoadSubject(ctx context.Context, id string) (model.Subject, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM subjects WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return model.Subject{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return model.Subject{}, err
	}
	var subject model.Subject
	if err := json.Unmarshal([]byte(doc), &subject); err != nil {
		return model.Subject{}, fmt.Errorf("failed to decode subject %s: %w", id, err)
	}
	return subject, nil
}

// LoadAll returns every stored subject keyed by id.
func (s *Store) LoadAll(ctx context.Context) (map[string]model.Subject, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, doc FROM subjects`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	subjects := map[string]model.Subject{}
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		var subject model.Subject
		if err := json.Unmarshal([]byte(doc), &subject); err != nil {
			return nil, fmt.Errorf("failed to decode subject %s: %w", id, err)
		}
		subjects[id] = subject
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return subjects, nil
}

// ClearAll removes every stored subject.
func (s *Store) ClearAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM subjects`)
	return err
}
