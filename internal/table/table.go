// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table reads bibliographic exports into header + rows tables and
// writes result tables back out as CSV or XLSX workbooks.
package table

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Table is a named, ordered set of rows under one header row. Rows may be
// shorter than the header; missing cells read as "".
type Table struct {
	Name   string
	Header []string
	Rows   [][]string

	// Widths optionally sets column widths when written to a workbook.
	Widths []float64
}

// Cell returns the trimmed value at row, col, or "" when out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// fromRecords splits the first record off as the header.
func fromRecords(name string, records [][]string) *Table {
	t := &Table{Name: name}
	if len(records) == 0 {
		return t
	}
	t.Header = records[0]
	t.Rows = records[1:]
	return t
}

// ReadOptions controls how a file is read.
type ReadOptions struct {
	// Sheet selects an XLSX worksheet. Empty means the first sheet.
	Sheet string
}

// ReadFile reads a table, choosing the reader by file extension.
func ReadFile(path string, opts ReadOptions) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".csv":
		return readDelimitedFile(path, ',')
	case ".tsv", ".txt":
		return readDelimitedFile(path, '\t')
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, opts.Sheet)
	case ".parquet":
		return ReadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .csv, .tsv, .xlsx, .parquet)", ext)
	}
}

// Loader produces a table on demand.
type Loader interface {
	Load(ctx context.Context) (*Table, error)
}

// FileLoader loads a table from disk.
type FileLoader struct {
	Path string
	Opts ReadOptions
}

// Load reads the file unless ctx is already done.
func (l FileLoader) Load(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadFile(l.Path, l.Opts)
}

// Static is a Loader over an in-memory table. A nil table loads as nil.
type Static struct {
	Table *Table
}

// Load returns the wrapped table.
func (s Static) Load(context.Context) (*Table, error) {
	return s.Table, nil
}
