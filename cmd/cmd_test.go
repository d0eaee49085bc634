package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/imgcompress/internal/encoder"
	"github.com/AnyUserName/imgcompress/internal/hasher"
	"github.com/AnyUserName/imgcompress/internal/report"
	"github.com/spf13/cobra"
)

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		in     string
		target encoder.Target
		want   string
	}{
		{"photo.png", encoder.TargetJPEG, "photo.min.jpg"},
		{"dir/photo.jpeg", encoder.TargetPNG, filepath.Join("dir", "photo.min.png")},
		{"noext", encoder.TargetFallback, "noext.min.jpg"},
	}
	for _, tt := range tests {
		got := defaultOutputPath(tt.in, tt.target)
		if filepath.Clean(got) != filepath.Clean(tt.want) {
			t.Errorf("defaultOutputPath(%q, %v) = %q, want %q", tt.in, tt.target, got, tt.want)
		}
	}
}

func settingsCmd() *cobra.Command {
	c := &cobra.Command{Use: "t"}
	c.Flags().String("format", "", "")
	c.Flags().Int("quality", 0, "")
	return c
}

func TestResolveSettings(t *testing.T) {
	c := settingsCmd()
	prof, err := resolveSettings(c, "small", "png", 10)
	if err != nil {
		t.Fatal(err)
	}
	if prof.Format != "jpeg" || prof.Quality != 60 {
		t.Errorf("unchanged flags should keep profile values, got %+v", prof)
	}

	c = settingsCmd()
	if err := c.Flags().Set("format", "png"); err != nil {
		t.Fatal(err)
	}
	if err := c.Flags().Set("quality", "33"); err != nil {
		t.Fatal(err)
	}
	prof, err = resolveSettings(c, "small", "png", 33)
	if err != nil {
		t.Fatal(err)
	}
	if prof.Format != "png" || prof.Quality != 33 {
		t.Errorf("explicit flags should override profile, got %+v", prof)
	}

	c = settingsCmd()
	if err := c.Flags().Set("quality", "300"); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveSettings(c, "balanced", "", 300); err == nil {
		t.Error("expected out of range quality to be rejected")
	}
}

func TestFormatBytes(t *testing.T) {
	for in, want := range map[int64]string{
		512:     "512 B",
		2048:    "2.0 KB",
		3 << 20: "3.0 MB",
	} {
		if got := formatBytes(in); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncKey(t *testing.T) {
	if got := truncKey("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	got := truncKey("a/very/long/nested/key", 10)
	if len(got) != 10 || !strings.HasPrefix(got, "...") {
		t.Errorf("got %q", got)
	}
}

func writeReportFixture(t *testing.T, dir string) *report.Report {
	t.Helper()
	data := []byte("compressed bytes")
	if err := os.WriteFile(filepath.Join(dir, "a.0011.jpg"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	r := report.New("balanced", "jpeg", 80)
	r.Entries["a"] = report.Entry{
		Source: report.SourceInfo{Path: "a.png", Width: 4, Height: 4, Format: "png", Size: 100},
		Output: report.Output{
			Format: "jpeg",
			Size:   int64(len(data)),
			Hash:   hasher.ContentHash(data, 16),
			Path:   "a.0011.jpg",
		},
	}
	r.ComputeStats()
	return r
}

func TestValidateReport_OK(t *testing.T) {
	dir := t.TempDir()
	r := writeReportFixture(t, dir)
	if errs := validateReport(r, dir); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestValidateReport_Problems(t *testing.T) {
	dir := t.TempDir()
	r := writeReportFixture(t, dir)

	e := r.Entries["a"]
	e.Output.Hash = "0000000000000000"
	r.Entries["a"] = e
	r.Entries["b"] = report.Entry{
		Source: report.SourceInfo{Path: "b.png", Width: 0, Height: 4},
		Output: report.Output{Format: "webp", Hash: "ff", Path: "missing.jpg"},
	}
	r.Version = 9

	errs := validateReport(r, dir)
	joined := strings.Join(errs, "\n")
	for _, want := range []string{
		"unsupported report version",
		"hash mismatch",
		"invalid source dimensions",
		`unexpected output format "webp"`,
		"file not found",
		"stats.total_entries mismatch",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in:\n%s", want, joined)
		}
	}
}
