// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmerge/pkg/types"
)

// SummaryFile is the on-disk record of one merge run: which sources went
// in, what each extraction did, and the resulting statistics.
type SummaryFile struct {
	RunID     string          `yaml:"run_id,omitempty"`
	Sources   []SummarySource `yaml:"sources"`
	Merge     SummaryMerge    `yaml:"merge"`
	Stats     types.RunStats  `yaml:"stats"`
	Warnings  []string        `yaml:"warnings,omitempty"`
	Timestamp time.Time       `yaml:"timestamp"`
}

// SummarySource stores the extraction counts of one source.
type SummarySource struct {
	Tag          string            `yaml:"tag"`
	Path         string            `yaml:"path,omitempty"`
	Rows         int               `yaml:"rows"`
	SkippedRows  int               `yaml:"skipped_rows"`
	Duplicates   int               `yaml:"duplicates"`
	Authors      int               `yaml:"authors"`
	Publications int               `yaml:"publications"`
	Columns      map[string]string `yaml:"columns,omitempty"`
}

// SummaryMerge stores the cross-source merge counts.
type SummaryMerge struct {
	Authors           int `yaml:"authors"`
	DroppedAuthors    int `yaml:"dropped_authors"`
	DuplicatesRemoved int `yaml:"duplicates_removed"`
}

// WriteSummaryFile saves a run summary to a YAML file. A zero Timestamp is
// set to the current time.
func WriteSummaryFile(path string, sf SummaryFile) error {
	if sf.Timestamp.IsZero() {
		sf.Timestamp = time.Now().UTC()
	}
	data, err := yaml.Marshal(&sf)
	if err != nil {
		return fmt.Errorf("marshaling summary file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSummaryFile loads a previously written run summary.
func ReadSummaryFile(path string) (*SummaryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading summary file: %w", err)
	}
	var sf SummaryFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing summary file: %w", err)
	}
	return &sf, nil
}
