package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/AnyUserName/imgcompress/internal/compress"
	"github.com/AnyUserName/imgcompress/internal/encoder"
	"github.com/AnyUserName/imgcompress/internal/report"
)

// Config holds all parameters for a batch run.
type Config struct {
	InputDir      string
	OutputDir     string
	Profile       string // recorded in the report
	Format        string // format token handed to every compress call
	Quality       uint8
	Workers       int
	Verbose       bool
	NoRegressSize bool // skip outputs not smaller than their source
}

// Pipeline compresses every image under a directory.
type Pipeline struct {
	cfg        Config
	registry   *encoder.Registry
	compressor *compress.Compressor
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	reg := encoder.NewRegistry()
	return &Pipeline{
		cfg:        cfg,
		registry:   reg,
		compressor: compress.New(reg),
	}
}

// Run executes the batch and returns the report.
func (p *Pipeline) Run() (*report.Report, error) {
	p.logf("%s", p.registry.String())

	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}
	p.logf("found %d images", len(sources))

	// Each file is an independent compress call; nothing is shared but
	// the read-only registry.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			p.logf("processing: %s", s.Key)
			results[idx] = p.processImage(s)
			if results[idx].err == nil && !results[idx].skipped {
				p.logf("done: %s (%d -> %d bytes)", s.Key,
					results[idx].entry.Source.Size, results[idx].entry.Output.Size)
			}
		}(i, src)
	}
	wg.Wait()

	r := report.New(p.cfg.Profile, p.cfg.Format, int(p.cfg.Quality))

	var errs []error
	for _, res := range results {
		switch {
		case res.err != nil:
			errs = append(errs, res.err)
		case res.skipped:
			r.Stats.SkippedRegress++
		default:
			if _, dup := r.Entries[res.key]; dup {
				errs = append(errs, fmt.Errorf("%s: duplicate key %q", res.entry.Source.Path, res.key))
				continue
			}
			r.Entries[res.key] = res.entry
		}
	}

	// Partial failures are reported but do not fail the batch.
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[imgcompress] error: %v\n", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to compress", len(errs))
		}
		fmt.Fprintf(os.Stderr, "[imgcompress] warning: %d of %d images had errors\n",
			len(errs), len(sources))
	}

	r.Stats.Failed = len(errs)
	r.BuildInfo = &report.BuildInfo{
		Workers:  p.cfg.Workers,
		Encoders: p.registry.String(),
	}
	r.ComputeStats()
	return r, nil
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[imgcompress] "+format+"\n", args...)
	}
}
