package effects

import (
	"math"

	"github.com/ivlev/blobscan/internal/raster"
)

// EdgeHighlight runs a Sobel operator over the luminance channel and paints
// pixels whose gradient magnitude exceeds Threshold in white on black.
type EdgeHighlight struct {
	Threshold float64
}

// DefaultEdgeThreshold is a moderate sensitivity that works well for scans
// and rendered documents.
const DefaultEdgeThreshold = 30.0

var sobelX = [3][3]float64{
	{-1, 0, 1},
	{-2, 0, 2},
	{-1, 0, 1},
}

var sobelY = [3][3]float64{
	{-1, -2, -1},
	{0, 0, 0},
	{1, 2, 1},
}

func (e EdgeHighlight) Apply(g *raster.Grid) (*raster.Grid, error) {
	threshold := e.Threshold
	if threshold <= 0 {
		threshold = DefaultEdgeThreshold
	}

	// Luminance plane first so the convolution reads one byte per pixel.
	lum := make([]uint8, g.W*g.H)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			lum[y*g.W+x] = g.Luminance(x, y)
		}
	}

	out := raster.NewGrid(g.W, g.H)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 255
	}

	for y := 1; y < g.H-1; y++ {
		for x := 1; x < g.W-1; x++ {
			var sumX, sumY float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					p := float64(lum[(y+ky)*g.W+(x+kx)])
					sumX += p * sobelX[ky+1][kx+1]
					sumY += p * sobelY[ky+1][kx+1]
				}
			}
			if math.Sqrt(sumX*sumX+sumY*sumY) > threshold {
				out.SetRGB(x, y, raster.White)
			}
		}
	}

	return out, nil
}
