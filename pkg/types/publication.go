// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubmerge pipeline:
// per-source author publication sets, merged author records, and the
// department statistics derived from them.
package types

// UnknownDepartment is the department hint used when a source carries no
// department for an author.
const UnknownDepartment = "Unknown"

// RawRow is one input record after schema resolution. It is consumed once
// per extraction pass.
type RawRow struct {
	// Authors is the author cell, possibly holding several authors
	// separated by a delimiter.
	Authors string

	// Title is the raw publication title.
	Title string

	// Year is the optional year cell.
	Year string

	// Venue is the optional journal or source title cell. It is never part
	// of the display form of a publication.
	Venue string

	// Department is the optional department cell.
	Department string
}

// AuthorPublications holds one author's publications within a single source.
type AuthorPublications struct {
	// Author is the cleaned author name (trimmed, ID suffix stripped).
	Author string `json:"author" yaml:"author"`

	// Publications lists display titles in first-seen order. Duplicates by
	// normalized title key are already removed.
	Publications []string `json:"publications" yaml:"publications"`

	// Department is the department hint; UnknownDepartment when absent.
	Department string `json:"department" yaml:"department"`

	// Source is the tag of the source the entry came from (e.g. "scopus").
	Source string `json:"source" yaml:"source"`
}

// AuthorPublicationSet maps authors to their publications for one source.
// Order records first appearance so downstream output is deterministic.
type AuthorPublicationSet struct {
	// Source is the source tag shared by every entry.
	Source string `json:"source" yaml:"source"`

	// Authors maps the author key to the author's publications.
	Authors map[string]*AuthorPublications `json:"authors" yaml:"authors"`

	// Order lists author keys in first-appearance order.
	Order []string `json:"order" yaml:"order"`
}

// NewAuthorPublicationSet returns an empty set for the given source tag.
func NewAuthorPublicationSet(source string) *AuthorPublicationSet {
	return &AuthorPublicationSet{
		Source:  source,
		Authors: make(map[string]*AuthorPublications),
	}
}

// Get returns the entry for author, or nil.
func (s *AuthorPublicationSet) Get(author string) *AuthorPublications {
	if s == nil {
		return nil
	}
	return s.Authors[author]
}

// Len returns the number of authors in the set.
func (s *AuthorPublicationSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Order)
}

// Entry returns the entry for author, creating it with an unknown
// department if it does not exist yet.
func (s *AuthorPublicationSet) Entry(author string) *AuthorPublications {
	if e, ok := s.Authors[author]; ok {
		return e
	}
	e := &AuthorPublications{
		Author:     author,
		Department: UnknownDepartment,
		Source:     s.Source,
	}
	s.Authors[author] = e
	s.Order = append(s.Order, author)
	return e
}

// MergedAuthorRecord is one author's reconciled publication list across
// both sources. TotalUnique <= SourceACount + SourceBCount always holds.
type MergedAuthorRecord struct {
	Author       string   `json:"author" yaml:"author"`
	Publications []string `json:"publications" yaml:"publications"`
	Department   string   `json:"department" yaml:"department"`

	// SourceACount and SourceBCount are the per-source list sizes before
	// cross-source dedup.
	SourceACount int `json:"source_a_count" yaml:"source_a_count"`
	SourceBCount int `json:"source_b_count" yaml:"source_b_count"`

	// TotalUnique is the size of the deduplicated concatenation.
	TotalUnique int `json:"total_unique" yaml:"total_unique"`
}

// MergeResult holds merged records in output order.
type MergeResult struct {
	Records map[string]*MergedAuthorRecord `json:"records" yaml:"records"`
	Order   []string                       `json:"order" yaml:"order"`

	// Dropped counts authors whose deduplicated list was empty.
	Dropped int `json:"dropped" yaml:"dropped"`

	// DuplicatesRemoved counts cross-source duplicates removed.
	DuplicatesRemoved int `json:"duplicates_removed" yaml:"duplicates_removed"`
}

// Len returns the number of merged authors.
func (r *MergeResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Order)
}

// Each calls fn for every record in output order.
func (r *MergeResult) Each(fn func(*MergedAuthorRecord)) {
	if r == nil {
		return
	}
	for _, author := range r.Order {
		fn(r.Records[author])
	}
}

// DepartmentSummary aggregates merged records for one department.
type DepartmentSummary struct {
	Department   string `json:"department" yaml:"department"`
	Authors      int    `json:"authors" yaml:"authors"`
	Publications int    `json:"publications" yaml:"publications"`

	// AvgPublicationsPerAuthor is Publications/Authors rounded to two
	// decimals, or 0 when Authors is 0.
	AvgPublicationsPerAuthor float64 `json:"avg_publications_per_author" yaml:"avg_publications_per_author"`
}

// RunStats holds the overall statistics of one merge run.
type RunStats struct {
	TotalAuthors             int                          `json:"total_authors" yaml:"total_authors"`
	TotalPublications        int                          `json:"total_publications" yaml:"total_publications"`
	TotalDepartments         int                          `json:"total_departments" yaml:"total_departments"`
	AvgPublicationsPerAuthor float64                      `json:"avg_publications_per_author" yaml:"avg_publications_per_author"`
	Departments              map[string]DepartmentSummary `json:"department_stats" yaml:"department_stats"`
}
