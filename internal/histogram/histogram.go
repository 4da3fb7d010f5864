// Package histogram builds luminance distributions and derives dynamic
// threshold cutoffs from them.
package histogram

import (
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/blobscan/internal/raster"
)

// Sentinel errors for threshold derivation.
var (
	// ErrInvalidPercentile indicates a percentile outside [0, 1].
	ErrInvalidPercentile = errors.New("histogram: percentile must be in [0, 1]")
	// ErrEmptyHistogram indicates a histogram with zero total pixels.
	ErrEmptyHistogram = errors.New("histogram: total pixel count is zero")
)

// Histogram is a 256-bucket luminance distribution.
// Invariant: the bucket counts sum to Total.
type Histogram struct {
	Counts [256]uint32
	Total  uint32
}

// Build accumulates the luminance histogram of a grid in one pass.
func Build(g *raster.Grid) *Histogram {
	h := &Histogram{}
	for i := 0; i < len(g.Pix); i += 4 {
		l := raster.Luminance(g.Pix[i], g.Pix[i+1], g.Pix[i+2])
		h.Counts[l]++
	}
	h.Total = uint32(g.W * g.H)
	return h
}

// BuildParallel shards the grid by row ranges, accumulates a partial histogram
// per shard, and sums the partials. The reduction is associative and
// commutative, so the result is identical to Build.
func BuildParallel(g *raster.Grid, workers int) *Histogram {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > g.H {
		workers = g.H
	}
	if workers <= 1 {
		return Build(g)
	}

	partials := make([]*Histogram, workers)
	rowsPerShard := (g.H + workers - 1) / workers

	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		eg.Go(func() error {
			p := &Histogram{}
			yStart := w * rowsPerShard
			yEnd := yStart + rowsPerShard
			if yEnd > g.H {
				yEnd = g.H
			}
			for i := yStart * g.W * 4; i < yEnd*g.W*4; i += 4 {
				l := raster.Luminance(g.Pix[i], g.Pix[i+1], g.Pix[i+2])
				p.Counts[l]++
			}
			partials[w] = p
			return nil
		})
	}
	// Shard workers never fail; errgroup keeps the fan-out/join shape uniform
	// with the rest of the engine.
	_ = eg.Wait()

	h := &Histogram{Total: uint32(g.W * g.H)}
	for _, p := range partials {
		if p == nil {
			continue
		}
		for i, c := range p.Counts {
			h.Counts[i] += c
		}
	}
	return h
}

// Cutoff returns the smallest luminance value at which the cumulative count
// reaches or exceeds percentile*Total (the "lower" interpolation rule).
// With percentile 0 this is the minimum luminance present; with 1 the maximum.
func (h *Histogram) Cutoff(percentile float64) (uint8, error) {
	if percentile < 0 || percentile > 1 {
		return 0, ErrInvalidPercentile
	}
	if h.Total == 0 {
		return 0, ErrEmptyHistogram
	}

	target := percentile * float64(h.Total)
	running := uint32(0)
	for level := 0; level < 256; level++ {
		running += h.Counts[level]
		if h.Counts[level] > 0 && float64(running) >= target {
			return uint8(level), nil
		}
	}
	// Unreachable while the sum invariant holds; return the top bucket.
	return 255, nil
}

// Min returns the lowest luminance value present, or 0 for an empty histogram.
func (h *Histogram) Min() uint8 {
	for level := 0; level < 256; level++ {
		if h.Counts[level] > 0 {
			return uint8(level)
		}
	}
	return 0
}

// Max returns the highest luminance value present, or 0 for an empty histogram.
func (h *Histogram) Max() uint8 {
	for level := 255; level >= 0; level-- {
		if h.Counts[level] > 0 {
			return uint8(level)
		}
	}
	return 0
}
