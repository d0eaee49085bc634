package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// New creates an empty report with defaults.
func New(profileName, format string, quality int) *Report {
	return &Report{
		Version:     SupportedVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		Format:      format,
		Quality:     quality,
		Entries:     make(map[string]Entry),
	}
}

// ComputeStats recalculates entry totals. Failed and SkippedRegress are
// tracked by the caller and left untouched.
func (r *Report) ComputeStats() {
	r.Stats.TotalEntries = len(r.Entries)
	r.Stats.TotalInputBytes = 0
	r.Stats.TotalOutputBytes = 0
	for _, e := range r.Entries {
		r.Stats.TotalInputBytes += e.Source.Size
		r.Stats.TotalOutputBytes += e.Output.Size
	}
}

// WriteJSON serializes the report to path.
func WriteJSON(r *Report, path string) error {
	r.ComputeStats()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a report written by WriteJSON. Unknown fields are ignored.
func ReadJSON(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &r, nil
}
