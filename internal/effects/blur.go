package effects

import (
	"errors"
	"math"

	"github.com/ivlev/blobscan/internal/raster"
)

// ErrInvalidSigma is returned for a non-positive blur radius.
var ErrInvalidSigma = errors.New("blur sigma must be positive")

// GaussianBlur smooths the grid with a separable Gaussian kernel. The kernel
// radius is 3*sigma, which covers 99.7% of the distribution.
type GaussianBlur struct {
	Sigma float64
}

func (e GaussianBlur) Apply(g *raster.Grid) (*raster.Grid, error) {
	if e.Sigma <= 0 {
		return nil, ErrInvalidSigma
	}

	kernel := gaussianKernel(e.Sigma)
	tmp := convolveH(g, kernel)
	return convolveV(tmp, kernel), nil
}

func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	k := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		k[i+radius] = v
		sum += v
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

func convolveH(g *raster.Grid, kernel []float64) *raster.Grid {
	out := raster.NewGrid(g.W, g.H)
	radius := len(kernel) / 2
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			var r, gr, b, a float64
			for i, w := range kernel {
				sx := x + i - radius
				// Clamp to edge so borders keep full kernel weight.
				if sx < 0 {
					sx = 0
				} else if sx >= g.W {
					sx = g.W - 1
				}
				off := (y*g.W + sx) * 4
				r += w * float64(g.Pix[off])
				gr += w * float64(g.Pix[off+1])
				b += w * float64(g.Pix[off+2])
				a += w * float64(g.Pix[off+3])
			}
			off := (y*g.W + x) * 4
			out.Pix[off] = clamp8(r)
			out.Pix[off+1] = clamp8(gr)
			out.Pix[off+2] = clamp8(b)
			out.Pix[off+3] = clamp8(a)
		}
	}
	return out
}

func convolveV(g *raster.Grid, kernel []float64) *raster.Grid {
	out := raster.NewGrid(g.W, g.H)
	radius := len(kernel) / 2
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			var r, gr, b, a float64
			for i, w := range kernel {
				sy := y + i - radius
				if sy < 0 {
					sy = 0
				} else if sy >= g.H {
					sy = g.H - 1
				}
				off := (sy*g.W + x) * 4
				r += w * float64(g.Pix[off])
				gr += w * float64(g.Pix[off+1])
				b += w * float64(g.Pix[off+2])
				a += w * float64(g.Pix[off+3])
			}
			off := (y*g.W + x) * 4
			out.Pix[off] = clamp8(r)
			out.Pix[off+1] = clamp8(gr)
			out.Pix[off+2] = clamp8(b)
			out.Pix[off+3] = clamp8(a)
		}
	}
	return out
}
