// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schema finds the author, title, year, venue and department
// columns of a bibliographic export whose headers vary between exports.
//
// Resolution is driven by a rule table. Each field has an ordered list of
// matchers; a column's rank for a field is the index of the first matcher
// it satisfies, the lowest rank wins, and ties go to the earlier column.
// Supporting a new export format means extending the table.
package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Field names a logical column of a source export.
type Field string

const (
	FieldAuthor     Field = "author"
	FieldTitle      Field = "title"
	FieldYear       Field = "year"
	FieldVenue      Field = "venue"
	FieldDepartment Field = "department"
)

// Matcher tests lower-cased, trimmed header text. A matcher with Equals
// set requires equality; otherwise the text must contain every AllOf
// keyword. NoneOf keywords disqualify the column in both cases.
type Matcher struct {
	Equals string
	AllOf  []string
	NoneOf []string
}

// Match reports whether header text satisfies the matcher.
func (m Matcher) Match(text string) bool {
	for _, kw := range m.NoneOf {
		if strings.Contains(text, kw) {
			return false
		}
	}
	if m.Equals != "" {
		return text == m.Equals
	}
	if len(m.AllOf) == 0 {
		return false
	}
	for _, kw := range m.AllOf {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}

// Rule resolves one field. Matchers are listed highest priority first.
type Rule struct {
	Field    Field
	Required bool
	Matchers []Matcher
}

// DefaultRules covers Scopus and Web of Science exports. An author column
// naming "full names" outranks any other author column.
var DefaultRules = []Rule{
	{
		Field:    FieldAuthor,
		Required: true,
		Matchers: []Matcher{
			{AllOf: []string{"author", "full names"}},
			{AllOf: []string{"author"}},
		},
	},
	{
		Field:    FieldTitle,
		Required: true,
		Matchers: []Matcher{
			{Equals: "title"},
			{AllOf: []string{"title"}, NoneOf: []string{"source"}},
		},
	},
	{
		Field: FieldYear,
		Matchers: []Matcher{
			{Equals: "year"},
			{AllOf: []string{"year"}},
		},
	},
	{
		Field: FieldVenue,
		Matchers: []Matcher{
			{AllOf: []string{"source title"}},
			{AllOf: []string{"journal"}},
			{AllOf: []string{"source"}},
		},
	},
	{
		Field: FieldDepartment,
		Matchers: []Matcher{
			{Equals: "department"},
			{AllOf: []string{"department"}},
		},
	},
}

// ErrUnresolved is wrapped by UnresolvedError.
var ErrUnresolved = errors.New("unresolved schema")

// UnresolvedError lists required fields no column matched.
type UnresolvedError struct {
	Fields []Field
}

func (e *UnresolvedError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("unresolved schema: no %s column", strings.Join(names, " or "))
}

func (e *UnresolvedError) Unwrap() error { return ErrUnresolved }

// Schema maps fields to column indexes of one header row.
type Schema struct {
	Header  []string
	columns map[Field]int
	rules   []Rule
}

// Resolve applies DefaultRules to header.
func Resolve(header []string) Schema {
	return ResolveWith(header, DefaultRules)
}

// ResolveWith applies rules to header.
func ResolveWith(header []string, rules []Rule) Schema {
	s := Schema{
		Header:  header,
		columns: make(map[Field]int),
		rules:   rules,
	}

	texts := make([]string, len(header))
	for i, h := range header {
		texts[i] = strings.ToLower(strings.TrimSpace(h))
	}

	for _, rule := range rules {
		best, bestRank := -1, len(rule.Matchers)
		for col, text := range texts {
			if text == "" {
				continue
			}
			for rank, m := range rule.Matchers {
				if rank >= bestRank {
					break
				}
				if m.Match(text) {
					best, bestRank = col, rank
					break
				}
			}
		}
		if best >= 0 {
			s.columns[rule.Field] = best
		}
	}
	return s
}

// Index returns the column index of f.
func (s Schema) Index(f Field) (int, bool) {
	i, ok := s.columns[f]
	return i, ok
}

// Name returns the header text of the column resolved for f, or "".
func (s Schema) Name(f Field) string {
	i, ok := s.columns[f]
	if !ok || i >= len(s.Header) {
		return ""
	}
	return s.Header[i]
}

// Missing returns an *UnresolvedError naming every required field without
// a column, or nil.
func (s Schema) Missing() error {
	var missing []Field
	for _, rule := range s.rules {
		if !rule.Required {
			continue
		}
		if _, ok := s.columns[rule.Field]; !ok {
			missing = append(missing, rule.Field)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &UnresolvedError{Fields: missing}
}

// Fields returns the resolved fields in rule order.
func (s Schema) Fields() []Field {
	var out []Field
	for _, rule := range s.rules {
		if _, ok := s.columns[rule.Field]; ok {
			out = append(out, rule.Field)
		}
	}
	return out
}
