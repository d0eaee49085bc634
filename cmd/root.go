package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/AnyUserName/imgcompress/internal/diag"
	"github.com/AnyUserName/imgcompress/internal/profile"
	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "imgcompress",
	Short: "Re-encode images as JPEG or PNG",
	Long: `imgcompress decodes an image (JPEG, PNG, GIF, BMP, TIFF, WebP; detected
from content) and re-encodes it as JPEG or PNG with a quality hint.

Format tokens: "jpeg"/"jpg" and "png". Any other token encodes JPEG.`,
	Version:       version,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		diag.Install(os.Stderr)
		if configPath == "" {
			return nil
		}
		loaded, err := profile.Load(configPath)
		if err != nil {
			return err
		}
		logVerbose("loaded %d profiles from %s", len(loaded), configPath)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML file with extra profiles")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"imgcompress %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[imgcompress] "+format+"\n", args...)
	}
}

// resolveSettings merges a profile with explicit --format / --quality flags.
func resolveSettings(cmd *cobra.Command, profileName, format string, quality int) (profile.Profile, error) {
	prof := profile.Get(profileName)
	if cmd.Flags().Changed("format") {
		prof.Format = format
	}
	if cmd.Flags().Changed("quality") {
		prof.Quality = quality
	}
	if prof.Quality < 0 || prof.Quality > 255 {
		return prof, fmt.Errorf("quality %d out of range 0-255", prof.Quality)
	}
	return prof, nil
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
