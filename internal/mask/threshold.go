package mask

import (
	"github.com/ivlev/blobscan/internal/histogram"
	"github.com/ivlev/blobscan/internal/raster"
)

// Direction selects which side of the luminance cutoff counts as foreground.
type Direction int

const (
	// Below marks pixels with luminance <= cutoff as foreground (dark blobs).
	Below Direction = iota
	// Above marks pixels with luminance >= cutoff as foreground (bright blobs).
	Above
)

// ParseDirection maps the CLI spelling to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "below", "dark", "":
		return Below, nil
	case "above", "bright":
		return Above, nil
	default:
		return 0, ErrInvalidDirection
	}
}

// ThresholdSource derives a foreground mask from the grid's luminance
// distribution: the cutoff is the Percentile-th percentile of the histogram
// under the "lower" interpolation rule.
type ThresholdSource struct {
	Percentile float64
	Direction  Direction
	Workers    int // histogram build parallelism; <= 1 means sequential
}

// Mask builds the histogram, derives the cutoff, and marks every pixel on the
// configured side of it. Parameter validation happens before any pixel work.
func (s *ThresholdSource) Mask(g *raster.Grid) (*Mask, error) {
	if s.Direction != Below && s.Direction != Above {
		return nil, ErrInvalidDirection
	}
	if s.Percentile < 0 || s.Percentile > 1 {
		return nil, histogram.ErrInvalidPercentile
	}

	var h *histogram.Histogram
	if s.Workers > 1 {
		h = histogram.BuildParallel(g, s.Workers)
	} else {
		h = histogram.Build(g)
	}

	cutoff, err := h.Cutoff(s.Percentile)
	if err != nil {
		return nil, err
	}

	m := NewMask(g.W, g.H)
	for i, j := 0, 0; i < len(g.Pix); i, j = i+4, j+1 {
		l := raster.Luminance(g.Pix[i], g.Pix[i+1], g.Pix[i+2])
		if s.Direction == Below {
			m.Bits[j] = l <= cutoff
		} else {
			m.Bits[j] = l >= cutoff
		}
	}
	return m, nil
}
