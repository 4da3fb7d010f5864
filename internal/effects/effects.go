// Package effects implements cosmetic pixel filters. Each filter transforms a
// grid into a new grid and takes no part in blob detection.
package effects

import (
	"github.com/ivlev/blobscan/internal/raster"
)

// Effect transforms a pixel grid. Implementations never mutate the input.
type Effect interface {
	Apply(g *raster.Grid) (*raster.Grid, error)
}

// Grayscale replaces every pixel's channels with its luminance.
type Grayscale struct{}

func (Grayscale) Apply(g *raster.Grid) (*raster.Grid, error) {
	out := g.Clone()
	for i := 0; i < len(out.Pix); i += 4 {
		l := raster.Luminance(out.Pix[i], out.Pix[i+1], out.Pix[i+2])
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = l, l, l
	}
	return out, nil
}

// Invert flips every color channel. Alpha is preserved.
type Invert struct{}

func (Invert) Apply(g *raster.Grid) (*raster.Grid, error) {
	out := g.Clone()
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = 255 - out.Pix[i]
		out.Pix[i+1] = 255 - out.Pix[i+1]
		out.Pix[i+2] = 255 - out.Pix[i+2]
	}
	return out, nil
}

// Sepia applies the standard sepia tone matrix.
type Sepia struct{}

func (Sepia) Apply(g *raster.Grid) (*raster.Grid, error) {
	out := g.Clone()
	for i := 0; i < len(out.Pix); i += 4 {
		r := float64(out.Pix[i])
		gr := float64(out.Pix[i+1])
		b := float64(out.Pix[i+2])
		out.Pix[i] = clamp8(0.393*r + 0.769*gr + 0.189*b)
		out.Pix[i+1] = clamp8(0.349*r + 0.686*gr + 0.168*b)
		out.Pix[i+2] = clamp8(0.272*r + 0.534*gr + 0.131*b)
	}
	return out, nil
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
