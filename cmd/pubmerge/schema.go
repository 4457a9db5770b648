// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmerge/internal/schema"
	"github.com/pdiddy/pubmerge/internal/table"
)

var schemaCmd = &cobra.Command{
	Use:   "schema <file>",
	Short: "Show which columns of an export are recognized",
	Long: `Schema reads the header row of a source export and prints the column
resolved for each field (author, title, year, venue, department). An export
without an author or a title column would be skipped by merge.`,
	Args: cobra.ExactArgs(1),
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().String("sheet", "", "worksheet of an .xlsx export (default: first sheet)")
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	sheet, _ := cmd.Flags().GetString("sheet")
	t, err := table.ReadFile(args[0], table.ReadOptions{Sheet: sheet})
	if err != nil {
		return err
	}

	sch := schema.Resolve(t.Header)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%-12s  %-6s  %s\n", "Field", "Column", "Header")
	fmt.Fprintln(out, strings.Repeat("-", 50))
	for _, rule := range schema.DefaultRules {
		col, ok := sch.Index(rule.Field)
		if !ok {
			fmt.Fprintf(out, "%-12s  %-6s  %s\n", rule.Field, "-", "(unresolved)")
			continue
		}
		fmt.Fprintf(out, "%-12s  %-6d  %s\n", rule.Field, col+1, sch.Name(rule.Field))
	}
	fmt.Fprintf(out, "\n%d rows\n", t.Len())

	if err := sch.Missing(); err != nil {
		color.New(color.FgYellow).Fprintf(out, "warning: %v; merge would skip this source\n", err)
	}
	return nil
}
