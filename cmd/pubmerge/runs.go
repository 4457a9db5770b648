// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmerge/internal/report"
	"github.com/pdiddy/pubmerge/internal/store"
	"github.com/pdiddy/pubmerge/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List merge runs exported to a SQLite database",
	RunE:  runRuns,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the merged authors and department summary of one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsCmd.Flags().String("db", "", "SQLite database written by merge --sqlite")
	runsCmd.Flags().Int("limit", 20, "maximum number of runs to list (0 for all)")
	runsCmd.Flags().Bool("json", false, "output runs as JSON")

	runsShowCmd.Flags().String("db", "", "SQLite database written by merge --sqlite")
	runsShowCmd.Flags().Bool("json", false, "output the run as JSON")

	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

// openRunStore opens the database named by --db, falling back to
// output.sqlite_path.
func openRunStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("output.sqlite_path")
	}
	if dbPath == "" {
		return nil, fmt.Errorf("no database: pass --db or set output.sqlite_path")
	}
	return store.Open(dbPath)
}

func runRuns(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openRunStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs found.")
		return nil
	}

	fmt.Fprintf(out, "%-36s  %-20s  %7s  %12s  %7s  %s\n",
		"Run", "Created", "Authors", "Publications", "Average", "Sources")
	fmt.Fprintln(out, strings.Repeat("-", 110))
	for _, r := range runs {
		fmt.Fprintf(out, "%-36s  %-20s  %7d  %12d  %7.2f  %s + %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.TotalAuthors, r.TotalPublications, r.AvgPublicationsPerAuthor,
			r.SourceA, r.SourceB)
	}
	return nil
}

// runDetail is the JSON shape of runs show.
type runDetail struct {
	ID          string                     `json:"id"`
	Records     []types.MergedAuthorRecord `json:"records"`
	Departments []types.DepartmentSummary  `json:"departments"`
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	s, err := openRunStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	id := args[0]
	records, err := s.Records(cmd.Context(), id)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("run %s: no records", id)
	}
	depts, err := s.DepartmentStats(cmd.Context(), id)
	if err != nil {
		return err
	}
	detail := runDetail{
		ID:          id,
		Records:     records,
		Departments: report.Departments(types.RunStats{Departments: depts}),
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	fmt.Fprintf(out, "%-30s  %-35s  %5s\n", "Author", "Department", "Total")
	fmt.Fprintln(out, strings.Repeat("-", 74))
	for _, rec := range detail.Records {
		fmt.Fprintf(out, "%-30s  %-35s  %5d\n", rec.Author, rec.Department, rec.TotalUnique)
		for _, line := range strings.Split(report.FormatPublications(rec.Publications), "\n") {
			fmt.Fprintf(out, "    %s\n", line)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%-35s  %7s  %12s  %8s\n", "Department", "Authors", "Publications", "Average")
	fmt.Fprintln(out, strings.Repeat("-", 68))
	for _, ds := range detail.Departments {
		fmt.Fprintf(out, "%-35s  %7d  %12d  %8.2f\n", ds.Department, ds.Authors, ds.Publications, ds.AvgPublicationsPerAuthor)
	}
	return nil
}
