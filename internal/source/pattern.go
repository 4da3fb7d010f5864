package source

import (
	"github.com/skip2/go-qrcode"

	"github.com/ivlev/blobscan/internal/raster"
)

// PatternSource synthesizes a QR code grid from text. Handy for generating
// deterministic test inputs with known blob structure without any files.
type PatternSource struct {
	grid *raster.Grid
}

// NewPatternSource encodes text as a QR code image.
func NewPatternSource(text string) (*PatternSource, error) {
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return &PatternSource{grid: raster.FromImage(q.Image(256))}, nil
}

func (s *PatternSource) PageCount() int { return 1 }

func (s *PatternSource) Page(index int) (*raster.Grid, error) {
	return s.grid.Clone(), nil
}

func (s *PatternSource) Close() error { return nil }
