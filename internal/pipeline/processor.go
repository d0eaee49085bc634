package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AnyUserName/imgcompress/internal/compress"
	"github.com/AnyUserName/imgcompress/internal/encoder"
	"github.com/AnyUserName/imgcompress/internal/hasher"
	"github.com/AnyUserName/imgcompress/internal/metrics"
	"github.com/AnyUserName/imgcompress/internal/report"
)

// processResult holds the result of compressing a single source image.
type processResult struct {
	key     string
	entry   report.Entry
	err     error
	skipped bool // output not smaller than source (--no-regress-size)
}

// processImage reads, compresses and writes one source image.
func (p *Pipeline) processImage(src Source) processResult {
	result := processResult{key: src.Key}

	data, err := os.ReadFile(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("read %s: %w", src.RelPath, err)
		return result
	}

	start := time.Now()
	out, err := p.compressor.CompressImage(data, p.cfg.Quality, p.cfg.Format)
	metrics.Observe(p.cfg.Format, err, time.Since(start), len(data), len(out))
	if err != nil {
		result.err = fmt.Errorf("%s: %w", src.RelPath, err)
		return result
	}

	info, err := compress.Probe(data)
	if err != nil {
		result.err = fmt.Errorf("%s: %w", src.RelPath, err)
		return result
	}

	if p.cfg.NoRegressSize && int64(len(out)) >= src.Size {
		p.logf("skip: %s: compressed %d >= original %d bytes", src.Key, len(out), src.Size)
		result.skipped = true
		return result
	}

	target := encoder.ParseTarget(p.cfg.Format)
	enc, err := p.registry.For(target)
	if err != nil {
		result.err = fmt.Errorf("%s: %w", src.RelPath, err)
		return result
	}

	contentHash := hasher.ContentHash(out, 16)

	// key.hash.ext, content-addressed.
	keyDir := filepath.Dir(src.Key)
	fileName := fmt.Sprintf("%s.%s.%s", filepath.Base(src.Key), contentHash[:8], enc.Extension())
	relPath := filepath.ToSlash(filepath.Join(keyDir, fileName))

	outPath := filepath.Join(p.cfg.OutputDir, relPath)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		result.err = fmt.Errorf("create dir for %s: %w", relPath, err)
		return result
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		result.err = fmt.Errorf("write %s: %w", relPath, err)
		return result
	}

	result.entry = report.Entry{
		Source: report.SourceInfo{
			Path:   src.RelPath,
			Width:  info.Width,
			Height: info.Height,
			Format: info.Format,
			Size:   src.Size,
		},
		Output: report.Output{
			Format: target.Format(),
			Size:   int64(len(out)),
			Hash:   contentHash,
			Path:   relPath,
		},
	}
	return result
}
