package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/imgcompress/internal/hasher"
	"github.com/AnyUserName/imgcompress/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x ^ y) % 256),
				A: 255,
			})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), gradient(4, 4))
	writePNG(t, filepath.Join(dir, "sub", "b.JPG"), gradient(4, 4))
	writePNG(t, filepath.Join(dir, ".hidden", "c.png"), gradient(4, 4))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	sources, err := ScanImages(dir)
	if err != nil {
		t.Fatal(err)
	}
	keys := map[string]bool{}
	for _, s := range sources {
		keys[s.Key] = true
	}
	if len(sources) != 2 || !keys["a"] || !keys["sub/b"] {
		t.Errorf("got keys %v", keys)
	}
}

func TestRun(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writePNG(t, filepath.Join(in, "banner.png"), gradient(200, 100))
	writePNG(t, filepath.Join(in, "cards", "card.png"), gradient(60, 40))
	if err := os.WriteFile(filepath.Join(in, "broken.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := New(Config{InputDir: in, OutputDir: out, Profile: "balanced", Format: "jpg", Quality: 70, Workers: 2})
	r, err := p.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(r.Entries) != 2 {
		t.Fatalf("entries: got %d", len(r.Entries))
	}
	if r.Stats.Failed != 1 {
		t.Errorf("failed: got %d", r.Stats.Failed)
	}

	e, ok := r.Entries["cards/card"]
	if !ok {
		t.Fatal("cards/card missing")
	}
	if e.Source.Width != 60 || e.Source.Height != 40 || e.Source.Format != "png" {
		t.Errorf("source: got %+v", e.Source)
	}
	if e.Output.Format != "jpeg" || !strings.HasSuffix(e.Output.Path, ".jpg") {
		t.Errorf("output: got %+v", e.Output)
	}
	if !strings.HasPrefix(e.Output.Path, "cards/card.") {
		t.Errorf("output path: %q", e.Output.Path)
	}

	data, err := os.ReadFile(filepath.Join(out, e.Output.Path))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if int64(len(data)) != e.Output.Size {
		t.Errorf("size: disk %d, report %d", len(data), e.Output.Size)
	}
	if hasher.ContentHash(data, 16) != e.Output.Hash {
		t.Error("hash mismatch")
	}
	if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("output not jpeg: %v", err)
	}
}

func TestRun_PNGTarget(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writePNG(t, filepath.Join(in, "logo.png"), gradient(30, 30))

	r, err := New(Config{InputDir: in, OutputDir: out, Format: "png", Quality: 10}).Run()
	if err != nil {
		t.Fatal(err)
	}
	e := r.Entries["logo"]
	if e.Output.Format != "png" || !strings.HasSuffix(e.Output.Path, ".png") {
		t.Errorf("output: got %+v", e.Output)
	}
}

func TestRun_NoRegressSize(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	// A flat PNG is tiny; JPEG headers alone outweigh it.
	writePNG(t, filepath.Join(in, "flat.png"), image.NewGray(image.Rect(0, 0, 8, 8)))

	r, err := New(Config{InputDir: in, OutputDir: out, Format: "jpeg", Quality: 100, NoRegressSize: true}).Run()
	if err != nil {
		t.Fatal(err)
	}
	if r.Stats.SkippedRegress != 1 {
		t.Errorf("skipped: got %d", r.Stats.SkippedRegress)
	}
	if len(r.Entries) != 0 {
		t.Errorf("entries: got %d", len(r.Entries))
	}
	if r.Stats.Failed != 0 {
		t.Errorf("failed: got %d", r.Stats.Failed)
	}
}

func TestRun_Errors(t *testing.T) {
	empty := t.TempDir()
	if _, err := New(Config{InputDir: empty, OutputDir: t.TempDir()}).Run(); err == nil {
		t.Error("expected error for empty dir")
	}

	bad := t.TempDir()
	if err := os.WriteFile(filepath.Join(bad, "x.png"), []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := New(Config{InputDir: bad, OutputDir: t.TempDir()}).Run()
	if err == nil || !strings.Contains(err.Error(), "all 1 images failed") {
		t.Errorf("got %v", err)
	}
}

func writeJPEG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanImages_SameStem(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "photo.png"), gradient(4, 4))
	writeJPEG(t, filepath.Join(dir, "photo.jpg"), gradient(4, 4))
	writePNG(t, filepath.Join(dir, "solo.png"), gradient(4, 4))

	sources, err := ScanImages(dir)
	if err != nil {
		t.Fatal(err)
	}
	keys := map[string]bool{}
	for _, s := range sources {
		keys[s.Key] = true
	}
	if len(keys) != 3 || !keys["photo.png"] || !keys["photo.jpg"] || !keys["solo"] {
		t.Errorf("got keys %v", keys)
	}
}

func TestRun_SameStemDifferentExt(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writePNG(t, filepath.Join(in, "photo.png"), gradient(64, 48))
	writeJPEG(t, filepath.Join(in, "photo.jpg"), gradient(80, 40))

	r, err := New(Config{InputDir: in, OutputDir: out, Format: "jpeg", Quality: 50}).Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Entries) != 2 || r.Stats.TotalEntries != 2 {
		t.Fatalf("entries: got %d (stats %d)", len(r.Entries), r.Stats.TotalEntries)
	}
	if r.Stats.Failed != 0 || r.Stats.SkippedRegress != 0 {
		t.Errorf("stats: got %+v", r.Stats)
	}

	fromPNG, fromJPG := r.Entries["photo.png"], r.Entries["photo.jpg"]
	if fromPNG.Source.Width != 64 || fromJPG.Source.Width != 80 {
		t.Errorf("sources mixed up: png=%+v jpg=%+v", fromPNG.Source, fromJPG.Source)
	}
	if fromPNG.Output.Path == fromJPG.Output.Path {
		t.Fatalf("outputs share path %q", fromPNG.Output.Path)
	}
	for _, e := range []string{fromPNG.Output.Path, fromJPG.Output.Path} {
		if _, err := os.Stat(filepath.Join(out, e)); err != nil {
			t.Errorf("output %s: %v", e, err)
		}
	}
}

func TestRun_CountsDecodeFailures(t *testing.T) {
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "ok.png"), gradient(20, 20))
	if err := os.WriteFile(filepath.Join(in, "broken.jpg"), []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}

	decodeErrors := metrics.CompressionsTotal.WithLabelValues("jpeg", metrics.StatusDecodeError)
	before := testutil.ToFloat64(decodeErrors)

	r, err := New(Config{InputDir: in, OutputDir: t.TempDir(), Format: "jpg", Quality: 70}).Run()
	if err != nil {
		t.Fatal(err)
	}
	if r.Stats.Failed != 1 {
		t.Errorf("failed: got %d", r.Stats.Failed)
	}
	if got := testutil.ToFloat64(decodeErrors) - before; got != 1 {
		t.Errorf("decode_error count: got %v, want 1", got)
	}
}
