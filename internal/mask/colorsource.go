package mask

import (
	"github.com/ivlev/blobscan/internal/raster"
)

// ColorSource marks pixels within MaxDistance of Target (Euclidean distance in
// RGB space) as foreground. Each pixel is independent; alpha is ignored.
type ColorSource struct {
	Target      raster.RGB
	MaxDistance float64
}

// Mask scans the grid once and applies the distance test per pixel.
func (s *ColorSource) Mask(g *raster.Grid) (*Mask, error) {
	if s.MaxDistance < 0 {
		return nil, ErrInvalidDistance
	}

	// Compare squared distances to keep the inner loop free of sqrt.
	maxSq := s.MaxDistance * s.MaxDistance
	m := NewMask(g.W, g.H)
	for i, j := 0, 0; i < len(g.Pix); i, j = i+4, j+1 {
		dr := int(g.Pix[i]) - int(s.Target.R)
		dg := int(g.Pix[i+1]) - int(s.Target.G)
		db := int(g.Pix[i+2]) - int(s.Target.B)
		m.Bits[j] = float64(dr*dr+dg*dg+db*db) <= maxSq
	}
	return m, nil
}
