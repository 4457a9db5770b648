// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package roster loads a faculty roster mapping author names to
// departments and uses it to fill departments the sources left unknown.
package roster

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmerge/internal/schema"
	"github.com/pdiddy/pubmerge/internal/table"
	"github.com/pdiddy/pubmerge/pkg/types"
)

const (
	fieldName       schema.Field = "name"
	fieldDepartment schema.Field = "department"
)

// Rules finds the name and department columns of a roster table.
var Rules = []schema.Rule{
	{
		Field:    fieldName,
		Required: true,
		Matchers: []schema.Matcher{
			{AllOf: []string{"faculty", "name"}},
			{Equals: "faculty"},
			{Equals: "name"},
		},
	},
	{
		Field:    fieldDepartment,
		Required: true,
		Matchers: []schema.Matcher{
			{AllOf: []string{"department", "name"}},
			{Equals: "department"},
			{Equals: "dept"},
		},
	},
}

// Member is one roster entry.
type Member struct {
	Name       string `yaml:"name"`
	Department string `yaml:"department"`
}

// File is the YAML roster format.
type File struct {
	Faculty []Member `yaml:"faculty"`
}

// Roster maps normalized author names to departments.
type Roster struct {
	departments map[string]string
}

// New builds a roster from members. Later entries do not override
// earlier ones; entries without a name or department are ignored.
func New(members []Member) Roster {
	r := Roster{departments: make(map[string]string, len(members))}
	for _, m := range members {
		key := nameKey(m.Name)
		dept := strings.TrimSpace(m.Department)
		if key == "" || skipName(key) || dept == "" || dept == types.UnknownDepartment {
			continue
		}
		if _, ok := r.departments[key]; !ok {
			r.departments[key] = dept
		}
	}
	return r
}

// Load reads a roster from a YAML file (.yaml, .yml) or from any table
// format table.ReadFile supports.
func Load(path string) (Roster, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Roster{}, fmt.Errorf("reading roster: %w", err)
		}
		var f File
		if err := yaml.Unmarshal(data, &f); err != nil {
			return Roster{}, fmt.Errorf("parsing roster: %w", err)
		}
		return New(f.Faculty), nil
	}

	t, err := table.ReadFile(path, table.ReadOptions{})
	if err != nil {
		return Roster{}, fmt.Errorf("reading roster: %w", err)
	}
	return FromTable(t)
}

// FromTable builds a roster from a table with a name and a department
// column.
func FromTable(t *table.Table) (Roster, error) {
	sch := schema.ResolveWith(t.Header, Rules)
	if err := sch.Missing(); err != nil {
		return Roster{}, fmt.Errorf("roster %s: %w", t.Name, err)
	}
	nameCol, _ := sch.Index(fieldName)
	deptCol, _ := sch.Index(fieldDepartment)

	members := make([]Member, 0, t.Len())
	for i := range t.Rows {
		members = append(members, Member{Name: t.Cell(i, nameCol), Department: t.Cell(i, deptCol)})
	}
	return New(members), nil
}

// Len returns the number of named members.
func (r Roster) Len() int {
	return len(r.departments)
}

// Department returns the department of author. Names match
// case-insensitively after trimming and whitespace collapsing.
func (r Roster) Department(author string) (string, bool) {
	dept, ok := r.departments[nameKey(author)]
	return dept, ok
}

// Apply sets the department of every record still unknown that the roster
// names, and returns how many records it changed.
func (r Roster) Apply(result *types.MergeResult) int {
	filled := 0
	result.Each(func(rec *types.MergedAuthorRecord) {
		if rec.Department != "" && rec.Department != types.UnknownDepartment {
			return
		}
		if dept, ok := r.Department(rec.Author); ok {
			rec.Department = dept
			filled++
		}
	})
	return filled
}

func nameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// skipName reports header rows repeated inside the data.
func skipName(key string) bool {
	switch key {
	case "faculty name", "name", "nan":
		return true
	}
	return false
}
