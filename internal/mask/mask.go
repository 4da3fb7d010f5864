// Package mask turns pixel grids into boolean foreground masks.
//
// A mask source decides, per pixel, whether it belongs to the foreground that
// the component labeler should partition. Sources are interchangeable: the
// labeler accepts any mask of matching dimensions, regardless of the criterion
// that produced it.
package mask

import (
	"errors"

	"github.com/ivlev/blobscan/internal/raster"
)

// Sentinel errors for mask construction.
var (
	// ErrInvalidDistance indicates a negative color distance.
	ErrInvalidDistance = errors.New("mask: max color distance must be non-negative")
	// ErrInvalidDirection indicates an unknown threshold direction.
	ErrInvalidDirection = errors.New("mask: direction must be \"below\" or \"above\"")
)

// Mask is a boolean grid with the same dimensions as its source pixel grid.
// True marks a foreground cell.
type Mask struct {
	W, H int
	Bits []bool // row-major, len == W*H
}

// NewMask allocates an all-background mask.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, Bits: make([]bool, w*h)}
}

// At reports whether the cell at (x, y) is foreground.
func (m *Mask) At(x, y int) bool {
	return m.Bits[y*m.W+x]
}

// Set marks the cell at (x, y).
func (m *Mask) Set(x, y int, v bool) {
	m.Bits[y*m.W+x] = v
}

// Count returns the number of foreground cells.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Source produces a foreground mask from a pixel grid.
type Source interface {
	Mask(g *raster.Grid) (*Mask, error)
}
