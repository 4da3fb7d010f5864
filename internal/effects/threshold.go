package effects

import (
	"errors"

	"github.com/ivlev/blobscan/internal/histogram"
	"github.com/ivlev/blobscan/internal/raster"
)

// ErrInvalidBand is returned when the tone band percentiles are out of order
// or outside [0, 1].
var ErrInvalidBand = errors.New("tone band percentiles must satisfy 0 <= lower <= upper <= 1")

// ThresholdTone renders a three-tone visualization of the luminance
// distribution: pixels at or below the lower percentile cutoff take the dark
// tone, pixels at or above the upper cutoff take the bright tone, the band in
// between takes the mid tone. Useful for eyeballing where a percentile
// threshold lands.
type ThresholdTone struct {
	Lower float64
	Upper float64

	// Tone overrides; nil selects black, mid gray and white.
	Dark   *raster.RGB
	Mid    *raster.RGB
	Bright *raster.RGB
}

// toneCutoffs validates the band and derives the dark and bright luminance
// cutoffs. A degenerate band collapses onto the dark cutoff.
func toneCutoffs(h *histogram.Histogram, lower, upper float64) (uint8, uint8, error) {
	if lower < 0 || upper > 1 || lower > upper {
		return 0, 0, ErrInvalidBand
	}
	dark, err := h.Cutoff(lower)
	if err != nil {
		return 0, 0, err
	}
	bright, err := h.Cutoff(upper)
	if err != nil {
		return 0, 0, err
	}
	if bright < dark {
		bright = dark
	}
	return dark, bright, nil
}

func toneOr(c *raster.RGB, fallback raster.RGB) raster.RGB {
	if c != nil {
		return *c
	}
	return fallback
}

func (e ThresholdTone) Apply(g *raster.Grid) (*raster.Grid, error) {
	dark, bright, err := toneCutoffs(histogram.Build(g), e.Lower, e.Upper)
	if err != nil {
		return nil, err
	}

	darkTone := toneOr(e.Dark, raster.Black)
	midTone := toneOr(e.Mid, raster.Gray)
	brightTone := toneOr(e.Bright, raster.White)

	out := raster.NewGrid(g.W, g.H)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			l := g.Luminance(x, y)
			switch {
			case l <= dark:
				out.SetRGB(x, y, darkTone)
			case l >= bright:
				out.SetRGB(x, y, brightTone)
			default:
				out.SetRGB(x, y, midTone)
			}
		}
	}
	return out, nil
}
