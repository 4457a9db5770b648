package types

// SourceConfig describes one bibliographic source export.
type SourceConfig struct {
	// Path is the export file (.csv, .tsv, .xlsx, .parquet).
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Tag identifies the source in records and logs (e.g. "scopus").
	Tag string `json:"tag" yaml:"tag" mapstructure:"tag"`

	// Sheet selects the worksheet of an .xlsx export (default: first sheet).
	Sheet string `json:"sheet,omitempty" yaml:"sheet,omitempty" mapstructure:"sheet"`
}

// OutputFormat selects the result table format.
type OutputFormat string

const (
	OutputXLSX OutputFormat = "xlsx"
	OutputCSV  OutputFormat = "csv"
)

// OutputConfig holds settings for the merge outputs.
type OutputConfig struct {
	// Path is the result file. For CSV a second file with a
	// "-departments" suffix holds the department table.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Format overrides the format inferred from the Path extension.
	Format OutputFormat `json:"format,omitempty" yaml:"format,omitempty" mapstructure:"format"`

	// SQLitePath, when set, exports the run into a SQLite database.
	SQLitePath string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty" mapstructure:"sqlite_path"`

	// SummaryPath, when set, writes a YAML run summary.
	SummaryPath string `json:"summary_path,omitempty" yaml:"summary_path,omitempty" mapstructure:"summary_path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// MergeConfig groups the settings for one merge run.
type MergeConfig struct {
	SourceA SourceConfig `json:"source_a" yaml:"source_a" mapstructure:"source_a"`
	SourceB SourceConfig `json:"source_b" yaml:"source_b" mapstructure:"source_b"`
	Output  OutputConfig `json:"output" yaml:"output" mapstructure:"output"`
	Log     LogConfig    `json:"log" yaml:"log" mapstructure:"log"`

	// AuthorDelimiter separates authors inside one cell (default ";").
	AuthorDelimiter string `json:"author_delimiter" yaml:"author_delimiter" mapstructure:"author_delimiter"`

	// RosterPath is an optional faculty roster used to fill unknown departments.
	RosterPath string `json:"roster_path,omitempty" yaml:"roster_path,omitempty" mapstructure:"roster_path"`
}

// Defaults fills unset fields with their default values.
func (c *MergeConfig) Defaults() {
	if c.SourceA.Tag == "" {
		c.SourceA.Tag = "scopus"
	}
	if c.SourceB.Tag == "" {
		c.SourceB.Tag = "wos"
	}
	if c.AuthorDelimiter == "" {
		c.AuthorDelimiter = ";"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
