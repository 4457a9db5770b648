// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/pubmerge/internal/table"
	"github.com/pdiddy/pubmerge/pkg/types"
)

// ResolveFormat returns the configured format, or the one implied by the
// output path extension when unset.
func ResolveFormat(out types.OutputConfig) (types.OutputFormat, error) {
	format := types.OutputFormat(strings.ToLower(string(out.Format)))
	if format == "" {
		switch strings.ToLower(filepath.Ext(out.Path)) {
		case ".csv":
			format = types.OutputCSV
		default:
			format = types.OutputXLSX
		}
	}
	switch format {
	case types.OutputXLSX, types.OutputCSV:
		return format, nil
	}
	return "", fmt.Errorf("unsupported output format %q (supported: xlsx, csv)", out.Format)
}

// DepartmentsPath returns the CSV path of the department table written
// next to the result table at path.
func DepartmentsPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-departments" + ext
}

// WriteOutputs writes the result and department tables and returns the
// files written. XLSX output holds both tables as sheets of one workbook;
// CSV output writes two files.
func WriteOutputs(out types.OutputConfig, result *types.MergeResult, stats types.RunStats) ([]string, error) {
	if out.Path == "" {
		return nil, fmt.Errorf("no output path configured")
	}
	format, err := ResolveFormat(out)
	if err != nil {
		return nil, err
	}

	results := ResultTable(result)
	departments := DepartmentTable(stats)

	if format == types.OutputCSV {
		deptPath := DepartmentsPath(out.Path)
		if err := table.WriteCSVFile(out.Path, results); err != nil {
			return nil, err
		}
		if err := table.WriteCSVFile(deptPath, departments); err != nil {
			return nil, err
		}
		return []string{out.Path, deptPath}, nil
	}

	if err := table.WriteXLSX(out.Path, results, departments); err != nil {
		return nil, err
	}
	return []string{out.Path}, nil
}
