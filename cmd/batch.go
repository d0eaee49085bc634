package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/AnyUserName/imgcompress/internal/pipeline"
	"github.com/AnyUserName/imgcompress/internal/report"
	"github.com/spf13/cobra"
)

var (
	batchOutDir    string
	batchProfile   string
	batchFormat    string
	batchQuality   int
	batchWorkers   int
	batchNoRegress bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Compress every image in a directory and write a report",
	Long: `Scans input directory for images (png, jpg, jpeg, webp, gif, bmp, tiff),
compresses each one independently and writes content-addressed outputs
plus imgcompress.report.json.

Output filenames: <key>.<hash>.<ext>`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "./imgcompress_out", "output directory")
	batchCmd.Flags().StringVarP(&batchProfile, "profile", "p", "balanced", "preset supplying format and quality")
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", "jpeg", "output format token (overrides profile)")
	batchCmd.Flags().IntVarP(&batchQuality, "quality", "q", 80, "quality 1-100 (overrides profile)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	batchCmd.Flags().BoolVar(&batchNoRegress, "no-regress-size", true, "skip outputs not smaller than the source file")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	start := time.Now()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(batchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	prof, err := resolveSettings(cmd, batchProfile, batchFormat, batchQuality)
	if err != nil {
		return err
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (format=%q, quality=%d)", prof.Name, prof.Format, prof.Quality)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		InputDir:      absInput,
		OutputDir:     absOutput,
		Profile:       prof.Name,
		Format:        prof.Format,
		Quality:       uint8(prof.Quality),
		Workers:       batchWorkers,
		Verbose:       verbose,
		NoRegressSize: batchNoRegress,
	})

	r, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	reportPath := filepath.Join(absOutput, report.FileName)
	if err := report.WriteJSON(r, reportPath); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	printBatchReport(r, time.Since(start))
	return nil
}

func printBatchReport(r *report.Report, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("  imgcompress batch complete")
	fmt.Println()

	s := r.Stats
	ratio := float64(0)
	if s.TotalInputBytes > 0 {
		ratio = float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
	}

	fmt.Printf("  Images:      %d\n", s.TotalEntries)
	fmt.Printf("  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Printf("  Ratio:       %.1f%% of original\n", ratio)
	if s.SkippedRegress > 0 {
		fmt.Printf("  Skipped:     %d (not smaller than original)\n", s.SkippedRegress)
	}
	if s.Failed > 0 {
		fmt.Printf("  Failed:      %d\n", s.Failed)
	}
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if r.BuildInfo != nil {
		fmt.Printf("  Workers:     %d\n", r.BuildInfo.Workers)
	}
	fmt.Println()

	if len(r.Entries) > 0 {
		type entrySize struct {
			key        string
			inputSize  int64
			outputSize int64
		}
		var items []entrySize
		for key, e := range r.Entries {
			items = append(items, entrySize{key, e.Source.Size, e.Output.Size})
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].inputSize > items[j].inputSize
		})
		n := len(items)
		if n > 10 {
			n = 10
		}
		fmt.Printf("  Top %d heaviest (original → compressed):\n", n)
		for _, it := range items[:n] {
			saved := float64(0)
			if it.inputSize > 0 {
				saved = (1 - float64(it.outputSize)/float64(it.inputSize)) * 100
			}
			fmt.Printf("    %-40s %8s → %8s  (−%.0f%%)\n",
				truncKey(it.key, 40),
				formatBytes(it.inputSize),
				formatBytes(it.outputSize),
				saved,
			)
		}
		fmt.Println()
	}

	data, _ := json.Marshal(r)
	fmt.Printf("  Report:      %s (%s)\n", report.FileName, formatBytes(int64(len(data))))
	fmt.Println()
}
