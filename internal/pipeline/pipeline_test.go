// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/pubmerge/internal/report"
	"github.com/pdiddy/pubmerge/internal/roster"
	"github.com/pdiddy/pubmerge/internal/schema"
	"github.com/pdiddy/pubmerge/internal/table"
	"github.com/pdiddy/pubmerge/pkg/types"
)

func scopus() *table.Table {
	return &table.Table{
		Name:   "scopus",
		Header: []string{"Authors", "Author full names", "Title", "Year", "Source title"},
		Rows: [][]string{
			{"Doe J.", "Jane Doe (5720)", "Deep Learning Basics", "2021", "JMLR"},
			{"Doe J.", "Jane Doe (5720)", "Graph Theory", "", "Graphs"},
			{"Roe R.", "Richard Roe", "Optics", "2019", "Optica"},
		},
	}
}

func wos() *table.Table {
	return &table.Table{
		Name:   "wos",
		Header: []string{"Author Full Names", "Book Author Full Names", "Article Title", "Source Title", "Publication Year"},
		Rows: [][]string{
			{"Jane Doe", "", "deep learning basics", "JMLR", ""},
			{"Jane Doe", "", "— ", "", ""},
			{"Jane Doe", "", "New ML Methods", "", ""},
			{"Only B", "", "---", "", ""},
		},
	}
}

type failingLoader struct{ err error }

func (f failingLoader) Load(context.Context) (*table.Table, error) { return nil, f.err }

func TestRunMergesBothSources(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	res, err := Run(context.Background(), Input{
		SourceA: Source{Tag: "scopus", Loader: table.Static{Table: scopus()}},
		SourceB: Source{Tag: "wos", Loader: table.Static{Table: wos()}},
	}, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, []string{"Jane Doe", "Richard Roe"}, res.Merged.Order)
	jane := res.Merged.Records["Jane Doe"]
	assert.Equal(t, 3, jane.TotalUnique)
	assert.Equal(t, 2, jane.SourceACount)
	assert.Equal(t, 2, jane.SourceBCount)
	assert.Equal(t, "1. Deep Learning Basics (2021)\n2. Graph Theory\n3. New ML Methods",
		report.FormatPublications(jane.Publications))

	assert.Equal(t, 2, res.Stats.TotalAuthors)
	assert.Equal(t, 4, res.Stats.TotalPublications)
	assert.Equal(t, 1, res.Stats.TotalDepartments)
	assert.Equal(t, 2.0, res.Stats.AvgPublicationsPerAuthor)

	assert.Equal(t, "scopus", res.Reports[0].Source)
	assert.Equal(t, "wos", res.Reports[1].Source)
	assert.Equal(t, "Author full names", res.Reports[0].Columns["author"])
	assert.Equal(t, "Author Full Names", res.Reports[1].Columns["author"])
	assert.Empty(t, res.Warnings)
	assert.Equal(t, 2, logs.FilterMessage("source extracted").Len())
	assert.Equal(t, 1, logs.FilterMessage("sources merged").Len())
}

func TestRunUnresolvedSourceDegrades(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	broken := &table.Table{Header: []string{"Creator", "Heading"}, Rows: [][]string{{"Jane Doe", "Graph Theory"}}}

	res, err := Run(context.Background(), Input{
		SourceA: Source{Tag: "scopus", Loader: table.Static{Table: scopus()}},
		SourceB: Source{Tag: "wos", Loader: table.Static{Table: broken}},
	}, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Merged.Len())
	assert.Equal(t, 0, res.Merged.Records["Jane Doe"].SourceBCount)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "wos: unresolved schema")
	assert.True(t, errors.Is(res.Reports[1].Unresolved, schema.ErrUnresolved))
	assert.Equal(t, 1, logs.FilterMessage("source skipped").Len())
}

func TestRunMissingSource(t *testing.T) {
	tests := []struct {
		name   string
		loader table.Loader
	}{
		{"no loader", nil},
		{"nil table", table.Static{}},
		{"load error", failingLoader{err: errors.New("disk on fire")}},
		{"missing file", table.FileLoader{Path: filepath.Join(t.TempDir(), "missing.csv")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(context.Background(), Input{
				SourceA: Source{Tag: "scopus", Loader: table.Static{Table: scopus()}},
				SourceB: Source{Tag: "wos", Loader: tt.loader},
			}, nil)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrMissingSource)
			assert.Contains(t, err.Error(), "wos")
		})
	}
}

func TestRunEmptyMerge(t *testing.T) {
	noise := &table.Table{
		Header: []string{"Authors", "Title"},
		Rows:   [][]string{{"Jane Doe", "—"}, {"Richard Roe", "n/a"}},
	}
	empty := &table.Table{Header: []string{"Authors", "Title"}}

	_, err := Run(context.Background(), Input{
		SourceA: Source{Tag: "scopus", Loader: table.Static{Table: noise}},
		SourceB: Source{Tag: "wos", Loader: table.Static{Table: empty}},
	}, zap.NewNop())
	assert.ErrorIs(t, err, ErrEmptyMerge)
}

func TestRunAppliesRoster(t *testing.T) {
	r := roster.New([]roster.Member{{Name: "richard roe", Department: "Physics"}})

	res, err := Run(context.Background(), Input{
		SourceA: Source{Tag: "scopus", Loader: table.Static{Table: scopus()}},
		SourceB: Source{Tag: "wos", Loader: table.Static{Table: wos()}},
		Roster:  &r,
	}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 1, res.RosterFilled)
	assert.Equal(t, "Physics", res.Merged.Records["Richard Roe"].Department)
	assert.Equal(t, types.UnknownDepartment, res.Merged.Records["Jane Doe"].Department)
	assert.Equal(t, 2, res.Stats.TotalDepartments)
}

func TestRunFromFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "scopus.csv")
	b := filepath.Join(dir, "wos.tsv")
	require.NoError(t, os.WriteFile(a, []byte("Author full names,Title,Year\n\"Doe, Jane (1); Roe, R. (2)\",Graph Theory,2020\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("Author Full Names\tArticle Title\nDoe, Jane\tgraph theory (2020)\n"), 0o644))

	res, err := Run(context.Background(), Input{
		SourceA: Source{Tag: "scopus", Loader: table.FileLoader{Path: a}},
		SourceB: Source{Tag: "wos", Loader: table.FileLoader{Path: b}},
	}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"Doe, Jane", "Roe, R."}, res.Merged.Order)
	assert.Equal(t, []string{"Graph Theory (2020)"}, res.Merged.Records["Doe, Jane"].Publications)
	assert.Equal(t, 1, res.Merged.DuplicatesRemoved)
}
