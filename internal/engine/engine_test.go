package engine

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/blobscan/internal/config"
	"github.com/ivlev/blobscan/internal/mask"
	"github.com/ivlev/blobscan/internal/raster"
	"github.com/ivlev/blobscan/internal/report"
)

// memSource serves pre-built grids, one per page.
type memSource struct {
	grids []*raster.Grid
}

func (s *memSource) PageCount() int { return len(s.grids) }

func (s *memSource) Page(index int) (*raster.Grid, error) {
	return s.grids[index].Clone(), nil
}

func (s *memSource) Close() error { return nil }

// blockGrid is a white page with a 2x2 black block at (1,1).
func blockGrid() *raster.Grid {
	g := raster.NewGrid(5, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			g.SetRGB(x, y, raster.White)
		}
	}
	for y := 1; y <= 2; y++ {
		for x := 1; x <= 2; x++ {
			g.SetRGB(x, y, raster.Black)
		}
	}
	return g
}

func TestNewMaskSourceThresholdDefault(t *testing.T) {
	cfg := &config.Config{}
	cfg.Normalize()
	m, err := NewMaskSource(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.(*mask.ThresholdSource); !ok {
		t.Errorf("expected ThresholdSource, got %T", m)
	}
}

func TestNewMaskSourceColor(t *testing.T) {
	cfg := &config.Config{TargetColor: "#ff0000", MaxDistance: 10}
	cfg.Normalize()
	m, err := NewMaskSource(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cs, ok := m.(*mask.ColorSource)
	if !ok {
		t.Fatalf("expected ColorSource, got %T", m)
	}
	if cs.Target != (raster.RGB{R: 255}) {
		t.Errorf("wrong target color: %+v", cs.Target)
	}
}

func TestNewMaskSourceBadInputs(t *testing.T) {
	cfg := &config.Config{TargetColor: "#zzz"}
	cfg.Normalize()
	if _, err := NewMaskSource(cfg); err == nil {
		t.Error("expected error for bad hex color")
	}

	cfg = &config.Config{Direction: "sideways"}
	if _, err := NewMaskSource(cfg); err == nil {
		t.Error("expected error for bad direction")
	}
}

func TestDetectFindsBlock(t *testing.T) {
	cfg := &config.Config{Percentile: 0.1}
	p, err := NewProject(cfg, &memSource{grids: []*raster.Grid{blockGrid()}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, blobs, err := p.Detect(blockGrid())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blobs) != 1 {
		t.Fatalf("expected 1 blob, got %d", len(blobs))
	}
	if blobs[0].Area != 4 {
		t.Errorf("expected area 4, got %d", blobs[0].Area)
	}
}

func TestRunWritesOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "result.png")
	cfg := &config.Config{
		InputPath:  "mem",
		OutputPath: out,
		Percentile: 0.1,
		Mode:       "outline",
	}
	p, err := NewProject(cfg, &memSource{grids: []*raster.Grid{blockGrid()}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not valid png: %v", err)
	}
	if img.Bounds().Dx() != 5 || img.Bounds().Dy() != 5 {
		t.Errorf("wrong output dimensions: %v", img.Bounds())
	}
}

func TestRunMultiPageNaming(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		InputPath:  "mem",
		OutputPath: filepath.Join(dir, "out.png"),
		Percentile: 0.1,
		Mode:       "fill",
		Workers:    2,
	}
	src := &memSource{grids: []*raster.Grid{blockGrid(), blockGrid(), blockGrid()}}
	p, err := NewProject(cfg, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, name := range []string{"out_p1.png", "out_p2.png", "out_p3.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing page output %s: %v", name, err)
		}
	}
}

func TestRunReportMode(t *testing.T) {
	out := filepath.Join(t.TempDir(), "blobs.json")
	cfg := &config.Config{
		InputPath:  "mem",
		OutputPath: out,
		Percentile: 0.1,
		Mode:       "report",
	}
	p, err := NewProject(cfg, &memSource{grids: []*raster.Grid{blockGrid()}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	r, err := report.ReadFile(out)
	if err != nil {
		t.Fatalf("report unreadable: %v", err)
	}
	if r.Count != 1 {
		t.Errorf("expected 1 blob in report, got %d", r.Count)
	}
	if r.Width != 5 || r.Height != 5 {
		t.Errorf("wrong page dimensions in report: %dx%d", r.Width, r.Height)
	}
}

func TestPageOutputPath(t *testing.T) {
	tests := []struct {
		base  string
		index int
		count int
		want  string
	}{
		{"out.png", 0, 1, "out.png"},
		{"out.png", 0, 3, "out_p1.png"},
		{"out.png", 2, 3, "out_p3.png"},
		{"report.json", 1, 2, "report_p2.json"},
		{"noext", 0, 2, "noext_p1"},
	}
	for _, tt := range tests {
		if got := pageOutputPath(tt.base, tt.index, tt.count); got != tt.want {
			t.Errorf("pageOutputPath(%q, %d, %d) = %q, want %q",
				tt.base, tt.index, tt.count, got, tt.want)
		}
	}
}

func TestHistogramFirstPage(t *testing.T) {
	cfg := &config.Config{Percentile: 0.1}
	p, err := NewProject(cfg, &memSource{grids: []*raster.Grid{blockGrid()}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h, err := p.Histogram()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Total != 25 {
		t.Errorf("expected 25 pixels, got %d", h.Total)
	}
	if h.Counts[0] != 4 || h.Counts[255] != 21 {
		t.Errorf("wrong distribution: black=%d white=%d", h.Counts[0], h.Counts[255])
	}
}
