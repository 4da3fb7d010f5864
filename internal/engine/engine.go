// Package engine orchestrates the detection pipeline: pages come from a
// source, go through masking and labeling, and end up as rendered images or
// JSON reports.
package engine

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ivlev/blobscan/internal/config"
	"github.com/ivlev/blobscan/internal/histogram"
	"github.com/ivlev/blobscan/internal/label"
	"github.com/ivlev/blobscan/internal/mask"
	"github.com/ivlev/blobscan/internal/raster"
	"github.com/ivlev/blobscan/internal/render"
	"github.com/ivlev/blobscan/internal/report"
	"github.com/ivlev/blobscan/internal/sink"
	"github.com/ivlev/blobscan/internal/source"
	"github.com/ivlev/blobscan/internal/system"
)

// Project binds a configured run to its input source.
type Project struct {
	Config *config.Config
	Source source.Source
	Masker mask.Source
}

// NewProject wires a run together. The mask source is derived from the
// configuration unless one is injected explicitly.
func NewProject(cfg *config.Config, src source.Source) (*Project, error) {
	cfg.Normalize()
	masker, err := NewMaskSource(cfg)
	if err != nil {
		return nil, err
	}
	return &Project{Config: cfg, Source: src, Masker: masker}, nil
}

// NewMaskSource builds the pixel selector the configuration asks for:
// a color-proximity mask when a target color is set, otherwise a dynamic
// luminance threshold.
func NewMaskSource(cfg *config.Config) (mask.Source, error) {
	if cfg.TargetColor != "" {
		target, err := raster.ParseHex(cfg.TargetColor)
		if err != nil {
			return nil, err
		}
		return &mask.ColorSource{Target: target, MaxDistance: cfg.MaxDistance}, nil
	}

	dir, err := mask.ParseDirection(cfg.Direction)
	if err != nil {
		return nil, err
	}
	return &mask.ThresholdSource{
		Percentile: cfg.Percentile,
		Direction:  dir,
		Workers:    cfg.Workers,
	}, nil
}

// PageResult carries one processed page.
type PageResult struct {
	Index  int
	Blobs  []label.Blob
	Output string
	Err    error
}

// Run processes every page of the source through the full pipeline and
// writes one output per page. It fails if any page could not be processed.
func (p *Project) Run() error {
	startTime := time.Now()

	pageCount := p.Source.PageCount()
	if pageCount == 0 {
		return fmt.Errorf("source contains no pages")
	}

	mode, err := render.ParseMode(p.Config.Mode)
	if err != nil {
		return err
	}
	params, err := p.renderParams()
	if err != nil {
		return err
	}
	opts := p.labelOptions()

	fmt.Printf("[*] Source: %s | Pages: %d | Mode: %s\n",
		p.Config.InputPath, pageCount, p.Config.Mode)

	jobs := make(chan int, pageCount)
	results := make([]PageResult, pageCount)

	workers := p.Config.Workers
	if workers > pageCount {
		workers = pageCount
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res := p.processPage(i, pageCount, mode, params, opts)
				if res.Err != nil {
					log.Printf("[!] Page %d failed: %v", i, res.Err)
				} else {
					fmt.Printf("[>] Ready: %d/%d (%d blobs)\n", i+1, pageCount, len(res.Blobs))
				}
				results[i] = res
			}
		}()
	}

	for i := 0; i < pageCount; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	totalBlobs := 0
	for i, res := range results {
		if res.Err != nil {
			return fmt.Errorf("page %d was not processed: %w", i, res.Err)
		}
		totalBlobs += len(res.Blobs)
	}

	fmt.Printf("[+++] Done: %d pages, %d blobs -> %s\n",
		pageCount, totalBlobs, p.Config.OutputPath)

	if p.Config.ShowStats {
		p.printStats(startTime, pageCount, totalBlobs)
	}
	return nil
}

// Detect runs the mask and labeling passes over a single grid. Exposed for
// callers that drive pages themselves.
func (p *Project) Detect(g *raster.Grid) (*label.Grid, []label.Blob, error) {
	if err := g.Validate(); err != nil {
		return nil, nil, err
	}
	m, err := p.Masker.Mask(g)
	if err != nil {
		return nil, nil, err
	}
	return label.Components(m, g, p.labelOptions())
}

func (p *Project) processPage(index, pageCount int, mode render.Mode, params render.Params, opts label.Options) PageResult {
	res := PageResult{Index: index}

	g, err := p.Source.Page(index)
	if err != nil {
		res.Err = err
		return res
	}

	m, err := p.Masker.Mask(g)
	if err != nil {
		res.Err = err
		return res
	}
	lg, blobs, err := label.Components(m, g, opts)
	if err != nil {
		res.Err = err
		return res
	}
	res.Blobs = blobs

	res.Output = pageOutputPath(p.Config.OutputPath, index, pageCount)

	if mode == render.Report {
		res.Err = report.WriteFile(res.Output, report.Build(g.W, g.H, blobs))
		return res
	}

	out, err := render.Image(g, lg, blobs, mode, params)
	if err != nil {
		res.Err = err
		return res
	}
	if err := sink.WriteFile(res.Output, out); err != nil {
		res.Err = err
		return res
	}
	if p.Config.Preview {
		res.Err = sink.Preview(out)
	}
	// Rendered grids come from the shared pool; recycle them once encoded.
	system.PutGrid(out)
	return res
}

func (p *Project) labelOptions() label.Options {
	opts := label.DefaultOptions()
	if p.Config.Conn8 {
		opts.Connectivity = label.Conn8
	}
	opts.MinArea = p.Config.MinArea
	return opts
}

func (p *Project) renderParams() (render.Params, error) {
	params := render.Params{OutlineColor: raster.Green}
	var err error
	if params.Background, err = render.ParseBackground(p.Config.Background); err != nil {
		return params, err
	}
	if p.Config.OutlineHex != "" {
		if params.OutlineColor, err = raster.ParseHex(p.Config.OutlineHex); err != nil {
			return params, err
		}
	}
	if p.Config.FillHex != "" {
		fill, err := raster.ParseHex(p.Config.FillHex)
		if err != nil {
			return params, err
		}
		params.FillColor = &fill
	}
	return params, nil
}

// pageOutputPath derives the per-page file name. Single-page runs keep the
// configured path as is, multi-page runs get a _pN suffix before the
// extension.
func pageOutputPath(base string, index, pageCount int) string {
	if pageCount <= 1 {
		return base
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s_p%d%s", stem, index+1, ext)
}

// Histogram builds the luminance distribution of the first page. Used by the
// histogram subcommand to chart thresholds.
func (p *Project) Histogram() (*histogram.Histogram, error) {
	g, err := p.Source.Page(0)
	if err != nil {
		return nil, err
	}
	if p.Config.Workers > 1 {
		return histogram.BuildParallel(g, p.Config.Workers), nil
	}
	return histogram.Build(g), nil
}

func (p *Project) printStats(startTime time.Time, pageCount, totalBlobs int) {
	totalTime := time.Since(startTime)
	pps := float64(pageCount) / totalTime.Seconds()

	fmt.Printf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Total Time: %.2fs\n"+
			"Pages: %d | Blobs: %d\n"+
			"Pages/sec: %.2f\n"+
			"Workers: %d\n"+
			"----------------------------\n",
		totalTime.Seconds(), pageCount, totalBlobs, pps, p.Config.Workers,
	)
	system.PrintStats()

	logEntry := fmt.Sprintf("[%s] Input: %s | Pages: %d | Blobs: %d | Total: %.2fs | Pages/sec: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		filepath.Base(p.Config.InputPath),
		pageCount,
		totalBlobs,
		totalTime.Seconds(),
		pps,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Failed to write benchmark.log: %v\n", err)
	}
}
