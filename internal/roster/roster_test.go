// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package roster

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmerge/internal/schema"
	"github.com/pdiddy/pubmerge/internal/table"
	"github.com/pdiddy/pubmerge/pkg/types"
)

func TestNew(t *testing.T) {
	r := New([]Member{
		{Name: "Jane  Doe", Department: "Physics"},
		{Name: "jane doe", Department: "Chemistry"},
		{Name: "Faculty Name", Department: "Department Name"},
		{Name: "nan", Department: "Biology"},
		{Name: "Richard Roe", Department: ""},
		{Name: "Ann Lee", Department: "Unknown"},
		{Name: "", Department: "Math"},
	})

	assert.Equal(t, 1, r.Len())
	dept, ok := r.Department(" JANE DOE ")
	assert.True(t, ok)
	assert.Equal(t, "Physics", dept)

	_, ok = r.Department("Richard Roe")
	assert.False(t, ok)
}

func TestFromTable(t *testing.T) {
	tests := []struct {
		name   string
		header []string
	}{
		{"faculty name", []string{"Faculty Name", "Department Name", "Google Scholar URL"}},
		{"short names", []string{"Name", "Dept"}},
		{"plain", []string{"faculty", "department"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := FromTable(&table.Table{
				Header: tt.header,
				Rows:   [][]string{{"Jane Doe", "Physics"}},
			})
			require.NoError(t, err)
			dept, ok := r.Department("jane doe")
			require.True(t, ok)
			assert.Equal(t, "Physics", dept)
		})
	}
}

func TestFromTableMissingColumns(t *testing.T) {
	_, err := FromTable(&table.Table{Name: "roster", Header: []string{"Faculty Name", "URL"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrUnresolved))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "roster.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(
		"faculty:\n  - name: Jane Doe\n    department: Physics\n  - name: Richard Roe\n    department: Chemistry\n"), 0o644))
	r, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	csvPath := filepath.Join(dir, "roster.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"Faculty Name,Department Name\nJane Doe,Physics\nFaculty Name,Department Name\n"), 0o644))
	r, err = Load(csvPath)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	badPath := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(badPath, []byte("faculty: [\n"), 0o644))
	_, err = Load(badPath)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	result := &types.MergeResult{
		Records: map[string]*types.MergedAuthorRecord{
			"Jane Doe":    {Author: "Jane Doe", Department: types.UnknownDepartment, TotalUnique: 1},
			"Richard Roe": {Author: "Richard Roe", Department: "Optics Lab", TotalUnique: 1},
			"Ann Lee":     {Author: "Ann Lee", Department: types.UnknownDepartment, TotalUnique: 1},
		},
		Order: []string{"Jane Doe", "Richard Roe", "Ann Lee"},
	}
	r := New([]Member{
		{Name: "jane doe", Department: "Physics"},
		{Name: "Richard Roe", Department: "Chemistry"},
	})

	assert.Equal(t, 1, r.Apply(result))
	assert.Equal(t, "Physics", result.Records["Jane Doe"].Department)
	assert.Equal(t, "Optics Lab", result.Records["Richard Roe"].Department, "source department wins")
	assert.Equal(t, types.UnknownDepartment, result.Records["Ann Lee"].Department)
}
