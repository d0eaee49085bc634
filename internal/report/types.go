package report

// Report is the top-level output of a batch run.
type Report struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	Format      string           `json:"format"`  // format token as requested
	Quality     int              `json:"quality"` // as requested; png ignores it
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Entries     map[string]Entry `json:"entries"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures run parameters for diagnostics.
type BuildInfo struct {
	Workers  int    `json:"workers"`
	Encoders string `json:"encoders,omitempty"`
}

// Entry describes one source image and its compressed output.
type Entry struct {
	Source SourceInfo `json:"source"`
	Output Output     `json:"output"`
}

// SourceInfo holds metadata about the input file.
type SourceInfo struct {
	Path   string `json:"path"` // relative to the input dir
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"` // detected from content
	Size   int64  `json:"size"`
}

// Output is the encoded result written to disk.
type Output struct {
	Format string `json:"format"` // container actually produced: "jpeg" or "png"
	Size   int64  `json:"size"`
	Hash   string `json:"hash"` // first 16 hex chars of xxhash64
	Path   string `json:"path"` // relative to the report
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalEntries     int   `json:"total_entries"`
	Failed           int   `json:"failed,omitempty"`
	SkippedRegress   int   `json:"skipped_regress,omitempty"` // outputs not smaller than their source
}

// SupportedVersion is the current schema version.
const SupportedVersion = 1

// FileName is the report written next to batch outputs.
const FileName = "imgcompress.report.json"
