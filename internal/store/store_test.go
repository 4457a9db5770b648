// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmerge/pkg/types"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs", "pubmerge.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func sampleRun() (*types.MergeResult, types.RunStats) {
	result := &types.MergeResult{
		Records: map[string]*types.MergedAuthorRecord{
			"Jane Doe": {
				Author:       "Jane Doe",
				Publications: []string{"Deep Learning Basics (2021)", "Graph Theory", "New ML Methods"},
				Department:   "Physics",
				SourceACount: 2, SourceBCount: 2, TotalUnique: 3,
			},
			"Richard Roe": {
				Author:       "Richard Roe",
				Publications: []string{"Optics (2019)"},
				Department:   types.UnknownDepartment,
				SourceACount: 1, TotalUnique: 1,
			},
		},
		Order: []string{"Jane Doe", "Richard Roe"},
	}
	stats := types.RunStats{
		TotalAuthors:             2,
		TotalPublications:        4,
		TotalDepartments:         2,
		AvgPublicationsPerAuthor: 2,
		Departments: map[string]types.DepartmentSummary{
			"Physics":               {Department: "Physics", Authors: 1, Publications: 3, AvgPublicationsPerAuthor: 3},
			types.UnknownDepartment: {Department: types.UnknownDepartment, Authors: 1, Publications: 1, AvgPublicationsPerAuthor: 1},
		},
	}
	return result, stats
}

func TestOpenCreatesDatabase(t *testing.T) {
	s, path := testStore(t)

	_, err := os.Stat(path)
	require.NoError(t, err)

	var n int
	require.NoError(t, s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name IN ('runs','authors','publications','departments')`,
	).Scan(&n))
	assert.Equal(t, 4, n)
}

func TestOpenIsIdempotent(t *testing.T) {
	_, path := testStore(t)

	again, err := Open(path)
	require.NoError(t, err)
	assert.NoError(t, again.Close())
}

func TestSaveAndLoad(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()
	result, stats := sampleRun()

	runID, err := s.Save(ctx, "scopus.csv", "wos.xlsx", result, stats)
	require.NoError(t, err)
	assert.Len(t, runID, 36)

	runs, err := s.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, "scopus.csv", runs[0].SourceA)
	assert.Equal(t, 4, runs[0].TotalPublications)
	assert.Equal(t, 2.0, runs[0].AvgPublicationsPerAuthor)
	assert.False(t, runs[0].CreatedAt.IsZero())

	records, err := s.Records(ctx, runID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, *result.Records["Jane Doe"], records[0])
	assert.Equal(t, "Richard Roe", records[1].Author)

	depts, err := s.DepartmentStats(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, stats.Departments, depts)
}

func TestRunsLimit(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()
	result, stats := sampleRun()

	var ids []string
	for range 3 {
		id, err := s.Save(ctx, "a.csv", "b.csv", result, stats)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	all, err := s.Runs(ctx, 0)
	require.NoError(t, err)
	got := make([]string, len(all))
	for i, r := range all {
		got[i] = r.ID
	}
	assert.ElementsMatch(t, ids, got)

	limited, err := s.Runs(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestRecordsUnknownRun(t *testing.T) {
	s, _ := testStore(t)

	records, err := s.Records(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, records)
}
