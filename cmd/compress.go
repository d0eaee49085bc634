package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AnyUserName/imgcompress/internal/compress"
	"github.com/AnyUserName/imgcompress/internal/encoder"
	"github.com/AnyUserName/imgcompress/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	compressOut     string
	compressFormat  string
	compressQuality int
	compressProfile string
)

var compressCmd = &cobra.Command{
	Use:   "compress <input>",
	Short: "Compress a single image",
	Long: `Decodes <input> and writes it re-encoded. Without --out the result goes
next to the input as <name>.min.<ext>; "-" writes to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompress,
}

func init() {
	compressCmd.Flags().StringVarP(&compressOut, "out", "o", "", `output file ("-" for stdout)`)
	compressCmd.Flags().StringVarP(&compressFormat, "format", "f", "jpeg", "output format token (jpeg, jpg, png)")
	compressCmd.Flags().IntVarP(&compressQuality, "quality", "q", 80, "quality 1-100 (ignored for png)")
	compressCmd.Flags().StringVarP(&compressProfile, "profile", "p", "balanced", "preset supplying format and quality")
	rootCmd.AddCommand(compressCmd)
}

func runCompress(cmd *cobra.Command, args []string) error {
	input := args[0]

	prof, err := resolveSettings(cmd, compressProfile, compressFormat, compressQuality)
	if err != nil {
		return err
	}
	target := encoder.ParseTarget(prof.Format)
	if target == encoder.TargetFallback {
		logVerbose("unrecognized format %q, encoding as jpeg", prof.Format)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	start := time.Now()
	out, err := compress.CompressImage(data, uint8(prof.Quality), prof.Format)
	metrics.Observe(prof.Format, err, time.Since(start), len(data), len(out))
	if err != nil {
		return err
	}
	logVerbose("%s: %s -> %s (%s, q=%d) in %s", input, formatBytes(int64(len(data))),
		formatBytes(int64(len(out))), target.Format(), prof.Quality, time.Since(start).Round(time.Millisecond))

	if compressOut == "-" {
		_, err := os.Stdout.Write(out)
		return err
	}

	outPath := compressOut
	if outPath == "" {
		outPath = defaultOutputPath(input, target)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	saved := float64(0)
	if len(data) > 0 {
		saved = (1 - float64(len(out))/float64(len(data))) * 100
	}
	fmt.Printf("  %s  %8s → %8s  (%.0f%% saved)\n", outPath,
		formatBytes(int64(len(data))), formatBytes(int64(len(out))), saved)
	return nil
}

// defaultOutputPath returns <dir>/<name>.min.<ext> for the input.
func defaultOutputPath(input string, target encoder.Target) string {
	ext := "jpg"
	if target == encoder.TargetPNG {
		ext = "png"
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ".min." + ext
}
