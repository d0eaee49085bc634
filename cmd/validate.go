package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/imgcompress/internal/hasher"
	"github.com/AnyUserName/imgcompress/internal/report"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <report_path>",
	Short: "Validate a batch report and check its outputs on disk",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	reportPath := args[0]

	r, err := report.ReadJSON(reportPath)
	if err != nil {
		return err
	}

	errs := validateReport(r, filepath.Dir(reportPath))
	if len(errs) == 0 {
		fmt.Println("  ✓ Report is valid")
		fmt.Printf("  ✓ %d outputs present, sizes and hashes match\n", r.Stats.TotalEntries)
		return nil
	}

	fmt.Printf("  ✗ Report has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func validateReport(r *report.Report, baseDir string) []string {
	var errs []string

	if r.Version != report.SupportedVersion {
		errs = append(errs, fmt.Sprintf("unsupported report version: %d", r.Version))
	}

	keys := make([]string, 0, len(r.Entries))
	for k := range r.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seenPaths := map[string]bool{}
	for _, key := range keys {
		e := r.Entries[key]

		if e.Source.Width <= 0 || e.Source.Height <= 0 {
			errs = append(errs, fmt.Sprintf("entry %q: invalid source dimensions %dx%d",
				key, e.Source.Width, e.Source.Height))
		}
		if e.Output.Format != "jpeg" && e.Output.Format != "png" {
			errs = append(errs, fmt.Sprintf("entry %q: unexpected output format %q", key, e.Output.Format))
		}
		if e.Output.Hash == "" {
			errs = append(errs, fmt.Sprintf("entry %q: missing hash", key))
		}
		if e.Output.Path == "" {
			errs = append(errs, fmt.Sprintf("entry %q: missing path", key))
			continue
		}
		if seenPaths[e.Output.Path] {
			errs = append(errs, fmt.Sprintf("entry %q: duplicate path %q", key, e.Output.Path))
		}
		seenPaths[e.Output.Path] = true

		f, err := os.Open(filepath.Join(baseDir, e.Output.Path))
		if err != nil {
			errs = append(errs, fmt.Sprintf("entry %q: file not found: %s", key, e.Output.Path))
			continue
		}
		info, statErr := f.Stat()
		sum, hashErr := hasher.ContentHashReader(f, len(e.Output.Hash))
		f.Close()

		switch {
		case statErr != nil || hashErr != nil:
			errs = append(errs, fmt.Sprintf("entry %q: cannot read %s", key, e.Output.Path))
		case info.Size() != e.Output.Size:
			errs = append(errs, fmt.Sprintf("entry %q: size mismatch: report=%d, disk=%d",
				key, e.Output.Size, info.Size()))
		case e.Output.Hash != "" && sum != e.Output.Hash:
			errs = append(errs, fmt.Sprintf("entry %q: hash mismatch: report=%s, disk=%s",
				key, e.Output.Hash, sum))
		}
	}

	if r.Stats.TotalEntries != len(r.Entries) {
		errs = append(errs, fmt.Sprintf("stats.total_entries mismatch: %d != %d", r.Stats.TotalEntries, len(r.Entries)))
	}

	return errs
}
