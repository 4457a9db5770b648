// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/pubmerge/internal/pipeline"
	"github.com/pdiddy/pubmerge/internal/report"
	"github.com/pdiddy/pubmerge/internal/roster"
	"github.com/pdiddy/pubmerge/internal/store"
	"github.com/pdiddy/pubmerge/internal/table"
	"github.com/pdiddy/pubmerge/pkg/types"
)

const defaultOutput = "merged_publications.xlsx"

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge two source exports into one publication list per author",
	Long: `Merge reads two bibliographic exports (.csv, .tsv, .xlsx, .parquet),
resolves their author and title columns, deduplicates each author's
titles within and across the sources, and writes a result table plus a
department summary.

Source A is the primary source: when both sources list the same title,
source A's spelling is kept, and its department wins. A source whose
columns cannot be resolved is skipped with a warning.`,
	Example: `  pubmerge merge --source-a scopus.csv --source-b wos.xlsx -o merged.xlsx
  pubmerge merge --source-a scopus.csv --source-b wos.tsv -o merged.csv --roster faculty.xlsx --json`,
	RunE: runMerge,
}

func init() {
	f := mergeCmd.Flags()
	f.String("source-a", "", "primary source export")
	f.String("source-b", "", "secondary source export")
	f.String("tag-a", "scopus", "tag identifying the primary source")
	f.String("tag-b", "wos", "tag identifying the secondary source")
	f.String("sheet-a", "", "worksheet of an .xlsx primary source (default: first sheet)")
	f.String("sheet-b", "", "worksheet of an .xlsx secondary source (default: first sheet)")
	f.StringP("output", "o", defaultOutput, "result file (.xlsx or .csv)")
	f.String("format", "", "output format: xlsx or csv (default: from output extension)")
	f.String("sqlite", "", "also export the run into this SQLite database")
	f.String("summary", "", "also write a YAML run summary to this file")
	f.String("roster", "", "faculty roster (.csv, .xlsx, .parquet, .yaml) used to fill unknown departments")
	f.String("delimiter", ";", "separator between authors in one author cell")
	f.Bool("json", false, "print statistics as JSON")

	bindings := map[string]string{
		"source_a.path":       "source-a",
		"source_b.path":       "source-b",
		"source_a.tag":        "tag-a",
		"source_b.tag":        "tag-b",
		"source_a.sheet":      "sheet-a",
		"source_b.sheet":      "sheet-b",
		"output.path":         "output",
		"output.format":       "format",
		"output.sqlite_path":  "sqlite",
		"output.summary_path": "summary",
		"roster_path":         "roster",
		"author_delimiter":    "delimiter",
	}
	for key, flag := range bindings {
		_ = viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(mergeCmd)
}

func mergeConfig() (types.MergeConfig, error) {
	var cfg types.MergeConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	cfg.Defaults()
	if cfg.Output.Path == "" {
		cfg.Output.Path = defaultOutput
	}
	return cfg, nil
}

func sourceInput(sc types.SourceConfig) pipeline.Source {
	src := pipeline.Source{Tag: sc.Tag}
	if sc.Path != "" {
		src.Loader = table.FileLoader{Path: sc.Path, Opts: table.ReadOptions{Sheet: sc.Sheet}}
	}
	return src
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := mergeConfig()
	if err != nil {
		return err
	}
	if _, err := report.ResolveFormat(cfg.Output); err != nil {
		return err
	}

	in := pipeline.Input{
		SourceA:   sourceInput(cfg.SourceA),
		SourceB:   sourceInput(cfg.SourceB),
		Delimiter: cfg.AuthorDelimiter,
	}
	if cfg.RosterPath != "" {
		r, err := roster.Load(cfg.RosterPath)
		if err != nil {
			return err
		}
		logger.Info("roster loaded", zap.String("path", cfg.RosterPath), zap.Int("members", r.Len()))
		in.Roster = &r
	}

	ctx := cmd.Context()
	res, err := pipeline.Run(ctx, in, logger)
	if err != nil {
		return err
	}

	files, err := report.WriteOutputs(cfg.Output, res.Merged, res.Stats)
	if err != nil {
		return err
	}
	for _, path := range files {
		logger.Info("output written", zap.String("path", path))
	}

	var runID string
	if cfg.Output.SQLitePath != "" {
		s, err := store.Open(cfg.Output.SQLitePath)
		if err != nil {
			return err
		}
		defer s.Close()
		runID, err = s.Save(ctx, cfg.SourceA.Path, cfg.SourceB.Path, res.Merged, res.Stats)
		if err != nil {
			return err
		}
		logger.Info("run exported", zap.String("db", cfg.Output.SQLitePath), zap.String("run_id", runID))
	}

	if cfg.Output.SummaryPath != "" {
		if err := report.WriteSummaryFile(cfg.Output.SummaryPath, summaryFile(cfg, res, runID)); err != nil {
			return err
		}
		logger.Info("summary written", zap.String("path", cfg.Output.SummaryPath))
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return report.FormatJSON(res.Stats, out)
	}
	report.FormatText(res.Stats, res.Warnings, out)
	return nil
}

func summaryFile(cfg types.MergeConfig, res *pipeline.Result, runID string) report.SummaryFile {
	paths := [2]string{cfg.SourceA.Path, cfg.SourceB.Path}
	sf := report.SummaryFile{
		RunID: runID,
		Merge: report.SummaryMerge{
			Authors:           res.Merged.Len(),
			DroppedAuthors:    res.Merged.Dropped,
			DuplicatesRemoved: res.Merged.DuplicatesRemoved,
		},
		Stats:    res.Stats,
		Warnings: res.Warnings,
	}
	for i, rep := range res.Reports {
		sf.Sources = append(sf.Sources, report.SummarySource{
			Tag:          rep.Source,
			Path:         paths[i],
			Rows:         rep.Rows,
			SkippedRows:  rep.SkippedRows,
			Duplicates:   rep.Duplicates,
			Authors:      rep.Authors,
			Publications: rep.Publications,
			Columns:      rep.Columns,
		})
	}
	return sf
}
