// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmerge/internal/report"
	"github.com/pdiddy/pubmerge/internal/table"
	"github.com/pdiddy/pubmerge/pkg/types"
)

func TestMergeAndRunsCommands(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "scopus.csv")
	b := filepath.Join(dir, "wos.csv")
	rosterPath := filepath.Join(dir, "faculty.csv")
	require.NoError(t, os.WriteFile(a, []byte(
		"Author full names,Title,Year\n"+
			"Jane Doe (57),1. Deep Learning Basics,2021\n"+
			"Jane Doe (57),Graph Theory,\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(
		"Author Full Names,Article Title\n"+
			"Jane Doe,deep learning basics (2021)\n"+
			"Jane Doe,—\n"+
			"Jane Doe,New ML Methods\n"), 0o644))
	require.NoError(t, os.WriteFile(rosterPath, []byte("Faculty Name,Department Name\njane doe,Physics\n"), 0o644))

	out := filepath.Join(dir, "merged.csv")
	summary := filepath.Join(dir, "summary.yaml")
	db := filepath.Join(dir, "runs.db")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"merge",
		"--source-a", a, "--source-b", b,
		"-o", out, "--roster", rosterPath,
		"--summary", summary, "--sqlite", db, "--json",
	})
	require.NoError(t, rootCmd.Execute())

	var stats types.RunStats
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalAuthors)
	assert.Equal(t, 3, stats.TotalPublications)
	assert.Equal(t, 3, stats.Departments["Physics"].Publications)

	results, err := table.ReadFile(out, table.ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe", "1. 1. Deep Learning Basics (2021)\n2. Graph Theory\n3. New ML Methods", "Physics", "3"}, results.Rows[0])

	_, err = os.Stat(report.DepartmentsPath(out))
	assert.NoError(t, err)

	sf, err := report.ReadSummaryFile(summary)
	require.NoError(t, err)
	require.Len(t, sf.Sources, 2)
	assert.Equal(t, "scopus", sf.Sources[0].Tag)
	assert.Equal(t, 1, sf.Merge.DuplicatesRemoved)
	assert.NotEmpty(t, sf.RunID)

	stdout.Reset()
	rootCmd.SetArgs([]string{"runs", "--db", db, "--json"})
	require.NoError(t, rootCmd.Execute())

	var runs []map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, sf.RunID, runs[0]["id"])

	stdout.Reset()
	rootCmd.SetArgs([]string{"runs", "show", sf.RunID, "--db", db, "--json"})
	require.NoError(t, rootCmd.Execute())

	var detail runDetail
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &detail))
	assert.Equal(t, sf.RunID, detail.ID)
	require.Len(t, detail.Records, 1)
	assert.Equal(t, "Jane Doe", detail.Records[0].Author)
	assert.Equal(t, 3, detail.Records[0].TotalUnique)
	assert.Equal(t, []string{"1. Deep Learning Basics (2021)", "Graph Theory", "New ML Methods"}, detail.Records[0].Publications)
	require.Len(t, detail.Departments, 1)
	assert.Equal(t, "Physics", detail.Departments[0].Department)
	assert.Equal(t, 3.0, detail.Departments[0].AvgPublicationsPerAuthor)

	rootCmd.SetArgs([]string{"runs", "show", "no-such-run", "--db", db})
	assert.Error(t, rootCmd.Execute())
}

func TestSourceInput(t *testing.T) {
	src := sourceInput(types.SourceConfig{Tag: "wos"})
	assert.Nil(t, src.Loader)

	src = sourceInput(types.SourceConfig{Tag: "wos", Path: "wos.xlsx", Sheet: "savedrecs"})
	assert.Equal(t, table.FileLoader{Path: "wos.xlsx", Opts: table.ReadOptions{Sheet: "savedrecs"}}, src.Loader)
}
