package render

import "github.com/ivlev/blobscan/internal/raster"

// PaletteColor returns the deterministic rainbow color for a blob id.
// The same id always maps to the same color across runs.
func PaletteColor(id int) raster.RGB {
	i := id - 1
	return raster.RGB{
		R: uint8((i*100 + 50) % 255),
		G: uint8((i*50 + 100) % 255),
		B: uint8((i*20 + 150) % 255),
	}
}

// HeatColor maps a blob area to a cool-to-hot ramp against the maximum area:
// blue through red up to t=0.8, then red to white.
func HeatColor(area, maxArea int) raster.RGB {
	if maxArea <= 0 {
		return raster.RGB{B: 255}
	}
	t := float64(area) / float64(maxArea)
	if t < 0.8 {
		ratio := t / 0.8
		return raster.RGB{
			R: uint8(255 * ratio),
			B: uint8(255 * (1 - ratio)),
		}
	}
	ratio := (t - 0.8) / 0.2
	v := uint8(255 * ratio)
	return raster.RGB{R: 255, G: v, B: v}
}
