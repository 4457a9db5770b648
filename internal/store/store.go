// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store exports merge runs into a SQLite database. Every run gets
// its own id; merges never read earlier runs back.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubmerge/pkg/types"
)

// Store manages the run export database.
type Store struct {
	db *sql.DB
}

// Run describes one exported merge run.
type Run struct {
	ID                       string    `json:"id" yaml:"id"`
	CreatedAt                time.Time `json:"created_at" yaml:"created_at"`
	SourceA                  string    `json:"source_a" yaml:"source_a"`
	SourceB                  string    `json:"source_b" yaml:"source_b"`
	TotalAuthors             int       `json:"total_authors" yaml:"total_authors"`
	TotalPublications        int       `json:"total_publications" yaml:"total_publications"`
	TotalDepartments         int       `json:"total_departments" yaml:"total_departments"`
	AvgPublicationsPerAuthor float64   `json:"avg_publications_per_author" yaml:"avg_publications_per_author"`
}

// Open opens or creates the database at path, creating the parent
// directory and the schema when missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			source_a TEXT,
			source_b TEXT,
			total_authors INTEGER,
			total_publications INTEGER,
			total_departments INTEGER,
			avg_publications REAL
		)`,
		`CREATE TABLE IF NOT EXISTS authors (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			author TEXT NOT NULL,
			department TEXT,
			source_a_count INTEGER,
			source_b_count INTEGER,
			total_unique INTEGER,
			PRIMARY KEY (run_id, author)
		)`,
		`CREATE TABLE IF NOT EXISTS publications (
			run_id TEXT NOT NULL,
			author TEXT NOT NULL,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			PRIMARY KEY (run_id, author, position),
			FOREIGN KEY (run_id, author) REFERENCES authors(run_id, author) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS departments (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			department TEXT NOT NULL,
			authors INTEGER,
			publications INTEGER,
			avg_publications REAL,
			PRIMARY KEY (run_id, department)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_authors_department ON authors(run_id, department)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save writes a merge result and its statistics as a new run and returns
// the run id. sourceA and sourceB label the inputs.
func (s *Store) Save(ctx context.Context, sourceA, sourceB string, result *types.MergeResult, stats types.RunStats) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, source_a, source_b, total_authors, total_publications, total_departments, avg_publications)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339Nano), sourceA, sourceB,
		stats.TotalAuthors, stats.TotalPublications, stats.TotalDepartments, stats.AvgPublicationsPerAuthor,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	authorStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO authors (run_id, position, author, department, source_a_count, source_b_count, total_unique)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing author insert: %w", err)
	}
	defer authorStmt.Close()

	pubStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO publications (run_id, author, position, title) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing publication insert: %w", err)
	}
	defer pubStmt.Close()

	if result != nil {
		for i, author := range result.Order {
			rec := result.Records[author]
			if _, err := authorStmt.ExecContext(ctx,
				runID, i, rec.Author, rec.Department, rec.SourceACount, rec.SourceBCount, rec.TotalUnique,
			); err != nil {
				return "", fmt.Errorf("inserting author %s: %w", rec.Author, err)
			}
			for j, title := range rec.Publications {
				if _, err := pubStmt.ExecContext(ctx, runID, rec.Author, j+1, title); err != nil {
					return "", fmt.Errorf("inserting publication for %s: %w", rec.Author, err)
				}
			}
		}
	}

	deptStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO departments (run_id, department, authors, publications, avg_publications) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing department insert: %w", err)
	}
	defer deptStmt.Close()

	for _, ds := range stats.Departments {
		if _, err := deptStmt.ExecContext(ctx,
			runID, ds.Department, ds.Authors, ds.Publications, ds.AvgPublicationsPerAuthor,
		); err != nil {
			return "", fmt.Errorf("inserting department %s: %w", ds.Department, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs lists exported runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, created_at, source_a, source_b, total_authors, total_publications, total_departments, avg_publications
		FROM runs ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			created string
		)
		if err := rows.Scan(&r.ID, &created, &r.SourceA, &r.SourceB,
			&r.TotalAuthors, &r.TotalPublications, &r.TotalDepartments, &r.AvgPublicationsPerAuthor); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Records loads the merged author records of one run in their original
// order.
func (s *Store) Records(ctx context.Context, runID string) ([]types.MergedAuthorRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT author, department, source_a_count, source_b_count, total_unique
		 FROM authors WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying authors: %w", err)
	}

	var records []types.MergedAuthorRecord
	for rows.Next() {
		var rec types.MergedAuthorRecord
		if err := rows.Scan(&rec.Author, &rec.Department, &rec.SourceACount, &rec.SourceBCount, &rec.TotalUnique); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning author: %w", err)
		}
		records = append(records, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		pubs, err := s.publications(ctx, runID, records[i].Author)
		if err != nil {
			return nil, err
		}
		records[i].Publications = pubs
	}
	return records, nil
}

func (s *Store) publications(ctx context.Context, runID, author string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title FROM publications WHERE run_id = ? AND author = ? ORDER BY position`, runID, author)
	if err != nil {
		return nil, fmt.Errorf("querying publications: %w", err)
	}
	defer rows.Close()

	var pubs []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scanning publication: %w", err)
		}
		pubs = append(pubs, title)
	}
	return pubs, rows.Err()
}

// DepartmentStats loads the department summaries of one run.
func (s *Store) DepartmentStats(ctx context.Context, runID string) (map[string]types.DepartmentSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT department, authors, publications, avg_publications FROM departments WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying departments: %w", err)
	}
	defer rows.Close()

	out := make(map[string]types.DepartmentSummary)
	for rows.Next() {
		var ds types.DepartmentSummary
		if err := rows.Scan(&ds.Department, &ds.Authors, &ds.Publications, &ds.AvgPublicationsPerAuthor); err != nil {
			return nil, fmt.Errorf("scanning department: %w", err)
		}
		out[ds.Department] = ds
	}
	return out, rows.Err()
}
