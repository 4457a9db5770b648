// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one merge: load both sources, extract them
// concurrently, merge, fill departments from a roster, and summarize.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/pubmerge/internal/extract"
	"github.com/pdiddy/pubmerge/internal/merge"
	"github.com/pdiddy/pubmerge/internal/report"
	"github.com/pdiddy/pubmerge/internal/roster"
	"github.com/pdiddy/pubmerge/internal/schema"
	"github.com/pdiddy/pubmerge/internal/table"
	"github.com/pdiddy/pubmerge/pkg/types"
)

var (
	// ErrMissingSource means a source table is absent or unreadable. The
	// run stops before any processing.
	ErrMissingSource = errors.New("missing source input")

	// ErrEmptyMerge means no author kept a publication after merging.
	ErrEmptyMerge = errors.New("empty merge result")
)

// Source is one tagged input.
type Source struct {
	Tag    string
	Loader table.Loader
}

// Input configures a run. SourceA is the primary source: its spelling of a
// shared title and its department hint win.
type Input struct {
	SourceA Source
	SourceB Source

	Delimiter string
	AuthorKey extract.AuthorKeyFunc
	Rules     []schema.Rule

	// Roster optionally fills departments left unknown after merging.
	Roster *roster.Roster
}

// Result is the outcome of a successful run.
type Result struct {
	Merged *types.MergeResult
	Stats  types.RunStats

	// Reports holds the extraction reports of SourceA and SourceB.
	Reports [2]extract.Report

	// Warnings collects source-level problems that did not fail the run.
	Warnings []string

	// RosterFilled counts departments filled from the roster.
	RosterFilled int
}

// Run executes the merge. A missing source fails with ErrMissingSource; a
// source whose schema cannot be resolved only adds a warning. If nothing
// survives the merge the run fails with ErrEmptyMerge.
func Run(ctx context.Context, in Input, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	sources := [2]Source{in.SourceA, in.SourceB}

	var tables [2]*table.Table
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			t, err := load(gctx, src)
			if err != nil {
				return err
			}
			log.Debug("source loaded", zap.String("source", src.Tag), zap.Int("rows", t.Len()))
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var sets [2]*types.AuthorPublicationSet
	res := &Result{}
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sets[i], res.Reports[i] = extract.Extract(tables[i], extract.Options{
				Source:    src.Tag,
				Delimiter: in.Delimiter,
				AuthorKey: in.AuthorKey,
				Rules:     in.Rules,
			})
		}()
	}
	wg.Wait()

	for _, rep := range res.Reports {
		logReport(log, rep)
		res.Warnings = append(res.Warnings, rep.Warnings...)
	}

	merged := merge.Merge(sets[0], sets[1])
	log.Info("sources merged",
		zap.Int("authors", merged.Len()),
		zap.Int("dropped_authors", merged.Dropped),
		zap.Int("duplicates_removed", merged.DuplicatesRemoved))

	if merged.Len() == 0 {
		return nil, fmt.Errorf("%w: no author has a publication in %s or %s",
			ErrEmptyMerge, sources[0].Tag, sources[1].Tag)
	}

	if in.Roster != nil {
		res.RosterFilled = in.Roster.Apply(merged)
		log.Info("departments filled from roster", zap.Int("filled", res.RosterFilled))
	}

	res.Merged = merged
	res.Stats = report.Summarize(merged)
	return res, nil
}

func load(ctx context.Context, src Source) (*table.Table, error) {
	if src.Loader == nil {
		return nil, fmt.Errorf("%w: %s: no input configured", ErrMissingSource, src.Tag)
	}
	t, err := src.Loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMissingSource, src.Tag, err)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: %s: no table", ErrMissingSource, src.Tag)
	}
	return t, nil
}

func logReport(log *zap.Logger, rep extract.Report) {
	fields := []zap.Field{
		zap.String("source", rep.Source),
		zap.Int("rows", rep.Rows),
		zap.Int("skipped_rows", rep.SkippedRows),
		zap.Int("skipped_names", rep.SkippedNames),
		zap.Int("duplicates", rep.Duplicates),
		zap.Int("authors", rep.Authors),
		zap.Int("publications", rep.Publications),
	}
	for field, column := range rep.Columns {
		fields = append(fields, zap.String("column_"+field, column))
	}
	if rep.Unresolved != nil {
		log.Warn("source skipped", append(fields, zap.Error(rep.Unresolved))...)
		return
	}
	log.Info("source extracted", fields...)
}
