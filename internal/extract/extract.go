// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract builds a per-author publication set from one source
// export. Rows are processed strictly in input order so that the first
// spelling of a duplicated title is the one kept.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/pubmerge/internal/schema"
	"github.com/pdiddy/pubmerge/internal/table"
	"github.com/pdiddy/pubmerge/internal/title"
	"github.com/pdiddy/pubmerge/pkg/types"
)

// DefaultDelimiter separates authors inside one author cell.
const DefaultDelimiter = ";"

// AuthorKeyFunc turns one author token into the key authors are grouped and
// merged by. An empty key drops the token.
type AuthorKeyFunc func(token string) string

var authorIDSuffix = regexp.MustCompile(`\s*\(\d+\)\s*$`)

// DefaultAuthorKey trims the token and strips a trailing numeric author ID
// such as "(57203456789)". Matching is exact: "Doe, J." and "Jane Doe" are
// different authors.
func DefaultAuthorKey(token string) string {
	return strings.TrimSpace(authorIDSuffix.ReplaceAllString(strings.TrimSpace(token), ""))
}

// headerEchoes are author cell values left behind by concatenated exports
// that repeat their header row.
var headerEchoes = map[string]bool{
	"author":            true,
	"authors":           true,
	"author full names": true,
	"nan":               true,
}

// Options configures an extraction run.
type Options struct {
	// Source tags every entry (e.g. "scopus").
	Source string

	// Delimiter splits the author cell. Empty means DefaultDelimiter.
	Delimiter string

	// AuthorKey builds author keys. Nil means DefaultAuthorKey.
	AuthorKey AuthorKeyFunc

	// Rules overrides schema.DefaultRules when non-nil.
	Rules []schema.Rule
}

// Report describes what an extraction run did with its input.
type Report struct {
	Source       string            `json:"source" yaml:"source"`
	Rows         int               `json:"rows" yaml:"rows"`
	SkippedRows  int               `json:"skipped_rows" yaml:"skipped_rows"`
	SkippedNames int               `json:"skipped_names" yaml:"skipped_names"`
	Duplicates   int               `json:"duplicates" yaml:"duplicates"`
	Authors      int               `json:"authors" yaml:"authors"`
	Publications int               `json:"publications" yaml:"publications"`
	Columns      map[string]string `json:"columns" yaml:"columns"`
	Warnings     []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Unresolved is set when the author or title column could not be found.
	Unresolved error `json:"-" yaml:"-"`
}

// Extract reads every row of t and groups display titles by author,
// dropping titles whose normalized key the author already has in this
// source. An unresolved schema yields an empty set and a report carrying
// the *schema.UnresolvedError; it is not an error of the run.
func Extract(t *table.Table, opts Options) (*types.AuthorPublicationSet, Report) {
	if opts.Delimiter == "" {
		opts.Delimiter = DefaultDelimiter
	}
	if opts.AuthorKey == nil {
		opts.AuthorKey = DefaultAuthorKey
	}
	rules := opts.Rules
	if rules == nil {
		rules = schema.DefaultRules
	}

	set := types.NewAuthorPublicationSet(opts.Source)
	report := Report{Source: opts.Source, Columns: make(map[string]string)}
	if t == nil {
		report.Unresolved = &schema.UnresolvedError{Fields: []schema.Field{schema.FieldAuthor, schema.FieldTitle}}
		report.Warnings = append(report.Warnings, fmt.Sprintf("%s: no table", opts.Source))
		return set, report
	}

	sch := schema.ResolveWith(t.Header, rules)
	for _, f := range sch.Fields() {
		report.Columns[string(f)] = sch.Name(f)
	}
	if err := sch.Missing(); err != nil {
		report.Unresolved = err
		report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %v; source skipped", opts.Source, err))
		return set, report
	}

	seen := make(map[string]map[string]bool)
	for i := range t.Rows {
		report.Rows++
		row := rawRow(t, sch, i)
		if !addRow(set, seen, row, opts, &report) {
			report.SkippedRows++
		}
	}

	report.Authors = set.Len()
	for _, a := range set.Order {
		report.Publications += len(set.Authors[a].Publications)
	}
	return set, report
}

func rawRow(t *table.Table, sch schema.Schema, i int) types.RawRow {
	cell := func(f schema.Field) string {
		col, ok := sch.Index(f)
		if !ok {
			return ""
		}
		return t.Cell(i, col)
	}
	return types.RawRow{
		Authors:    cell(schema.FieldAuthor),
		Title:      cell(schema.FieldTitle),
		Year:       cell(schema.FieldYear),
		Venue:      cell(schema.FieldVenue),
		Department: cell(schema.FieldDepartment),
	}
}

// addRow reports whether the row contributed anything.
func addRow(set *types.AuthorPublicationSet, seen map[string]map[string]bool, row types.RawRow, opts Options, report *Report) bool {
	t := strings.TrimSpace(row.Title)
	if title.IsNoise(t) {
		return false
	}

	display := DisplayTitle(t, row.Year)
	key := title.Normalize(display)
	if key == "" {
		return false
	}

	cell := strings.TrimSpace(row.Authors)
	if cell == "" || headerEchoes[strings.ToLower(cell)] {
		return false
	}

	dept := strings.TrimSpace(row.Department)
	added := false
	for _, token := range strings.Split(cell, opts.Delimiter) {
		author := opts.AuthorKey(token)
		if author == "" {
			report.SkippedNames++
			continue
		}
		added = true

		keys, ok := seen[author]
		if !ok {
			keys = make(map[string]bool)
			seen[author] = keys
		}
		entry := set.Entry(author)
		if entry.Department == types.UnknownDepartment && dept != "" && dept != types.UnknownDepartment {
			entry.Department = dept
		}
		if keys[key] {
			report.Duplicates++
			continue
		}
		keys[key] = true
		entry.Publications = append(entry.Publications, display)
	}
	return added
}

// DisplayTitle renders a publication as "<title> (<year>)" when year is an
// unsigned integer literal, else as the bare title. The venue is never part
// of the display form.
func DisplayTitle(t, year string) string {
	year = strings.TrimSpace(year)
	if year == "" || strings.IndexFunc(year, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return t
	}
	n, err := strconv.Atoi(year)
	if err != nil {
		return t
	}
	return fmt.Sprintf("%s (%d)", t, n)
}
