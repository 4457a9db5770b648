// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report aggregates merged author records into department and
// overall statistics and renders them as output tables, text, and JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/pdiddy/pubmerge/internal/table"
	"github.com/pdiddy/pubmerge/pkg/types"
)

// Sheet names of the two output tables.
const (
	ResultSheet     = "Merged Publications"
	DepartmentSheet = "Department Summary"
)

// NoPublications is the Publications cell of an author with an empty list.
const NoPublications = "No publications found"

// Summarize aggregates the merged records per department and overall.
// Averages are rounded to two decimals, ties to even, and are 0 when there
// are no authors.
func Summarize(result *types.MergeResult) types.RunStats {
	stats := types.RunStats{Departments: make(map[string]types.DepartmentSummary)}

	result.Each(func(rec *types.MergedAuthorRecord) {
		dept := rec.Department
		if dept == "" {
			dept = types.UnknownDepartment
		}
		ds := stats.Departments[dept]
		ds.Department = dept
		ds.Authors++
		ds.Publications += rec.TotalUnique
		stats.Departments[dept] = ds

		stats.TotalAuthors++
		stats.TotalPublications += rec.TotalUnique
	})

	for name, ds := range stats.Departments {
		ds.AvgPublicationsPerAuthor = average(ds.Publications, ds.Authors)
		stats.Departments[name] = ds
	}
	stats.TotalDepartments = len(stats.Departments)
	stats.AvgPublicationsPerAuthor = average(stats.TotalPublications, stats.TotalAuthors)
	return stats
}

func average(pubs, authors int) float64 {
	if authors == 0 {
		return 0
	}
	return round2(float64(pubs) / float64(authors))
}

func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// FormatPublications renders a publication list as "1. <title>\n2. <title>".
func FormatPublications(pubs []string) string {
	if len(pubs) == 0 {
		return NoPublications
	}
	var b strings.Builder
	for i, p := range pubs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, p)
	}
	return b.String()
}

// ResultTable builds the per-author output table in merge order.
func ResultTable(result *types.MergeResult) *table.Table {
	t := &table.Table{
		Name:   ResultSheet,
		Header: []string{"Author", "Publications", "Department", "Total_Publications"},
		Widths: []float64{30, 120, 35, 18},
	}
	result.Each(func(rec *types.MergedAuthorRecord) {
		t.Rows = append(t.Rows, []string{
			rec.Author,
			FormatPublications(rec.Publications),
			rec.Department,
			strconv.Itoa(rec.TotalUnique),
		})
	})
	return t
}

// Departments returns the department summaries sorted by name.
func Departments(stats types.RunStats) []types.DepartmentSummary {
	out := make([]types.DepartmentSummary, 0, len(stats.Departments))
	for _, ds := range stats.Departments {
		out = append(out, ds)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

// DepartmentTable builds the per-department output table.
func DepartmentTable(stats types.RunStats) *table.Table {
	t := &table.Table{
		Name:   DepartmentSheet,
		Header: []string{"Department", "Authors", "Total_Publications", "Avg_Publications_Per_Author"},
		Widths: []float64{35, 12, 20, 28},
	}
	for _, ds := range Departments(stats) {
		t.Rows = append(t.Rows, []string{
			ds.Department,
			strconv.Itoa(ds.Authors),
			strconv.Itoa(ds.Publications),
			strconv.FormatFloat(ds.AvgPublicationsPerAuthor, 'f', 2, 64),
		})
	}
	return t
}

// FormatText writes a human-readable statistics summary to w. Warnings are
// listed after the totals.
func FormatText(stats types.RunStats, warnings []string, w io.Writer) {
	heading := color.New(color.Bold)
	warn := color.New(color.FgYellow)

	heading.Fprintln(w, "Merge summary")
	fmt.Fprintf(w, "  Authors:            %d\n", stats.TotalAuthors)
	fmt.Fprintf(w, "  Publications:       %d\n", stats.TotalPublications)
	fmt.Fprintf(w, "  Departments:        %d\n", stats.TotalDepartments)
	fmt.Fprintf(w, "  Avg per author:     %.2f\n", stats.AvgPublicationsPerAuthor)

	if len(stats.Departments) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%-35s  %7s  %12s  %8s\n", "Department", "Authors", "Publications", "Average")
		fmt.Fprintln(w, strings.Repeat("-", 68))
		for _, ds := range Departments(stats) {
			fmt.Fprintf(w, "%-35s  %7d  %12d  %8.2f\n",
				truncate(ds.Department, 35), ds.Authors, ds.Publications, ds.AvgPublicationsPerAuthor)
		}
	}

	if len(warnings) > 0 {
		fmt.Fprintln(w)
		for _, msg := range warnings {
			warn.Fprintf(w, "warning: %s\n", msg)
		}
	}
}

// FormatJSON writes the statistics as indented JSON to w.
func FormatJSON(stats types.RunStats, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}

// truncate shortens s to at most max runes.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}
