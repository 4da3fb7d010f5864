// Package raster provides the pixel buffer the analysis pipeline works on.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Grid is a rectangular RGBA pixel buffer in row-major order.
// The analysis passes treat it as read-only; transformations allocate a new Grid.
type Grid struct {
	W, H int
	Pix  []uint8 // len == W*H*4, channel order R,G,B,A
}

// NewGrid allocates an all-transparent grid of the given dimensions.
func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, Pix: make([]uint8, w*h*4)}
}

// FromImage copies an image.Image into a Grid. RGBA and NRGBA images are
// copied row by row from the backing array; anything else goes through the
// generic At path.
func FromImage(img image.Image) *Grid {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	g := NewGrid(w, h)

	switch src := img.(type) {
	case *image.RGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w*4]
			copy(g.Pix[y*w*4:], row)
		}
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w*4]
			copy(g.Pix[y*w*4:], row)
		}
	default:
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, gr, bl, a := img.At(x, y).RGBA()
				g.Pix[i] = uint8(r >> 8)
				g.Pix[i+1] = uint8(gr >> 8)
				g.Pix[i+2] = uint8(bl >> 8)
				g.Pix[i+3] = uint8(a >> 8)
				i += 4
			}
		}
	}
	return g
}

// ToImage converts the grid back to a standard *image.RGBA.
func (g *Grid) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	if img.Stride == g.W*4 {
		copy(img.Pix, g.Pix)
		return img
	}
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Transparent}, image.Point{}, draw.Src)
	for y := 0; y < g.H; y++ {
		copy(img.Pix[y*img.Stride:], g.Pix[y*g.W*4:(y+1)*g.W*4])
	}
	return img
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{W: g.W, H: g.H, Pix: make([]uint8, len(g.Pix))}
	copy(c.Pix, g.Pix)
	return c
}

// At returns the RGBA channels at (x, y).
func (g *Grid) At(x, y int) (r, gr, b, a uint8) {
	i := (y*g.W + x) * 4
	return g.Pix[i], g.Pix[i+1], g.Pix[i+2], g.Pix[i+3]
}

// Set writes the RGBA channels at (x, y).
func (g *Grid) Set(x, y int, r, gr, b, a uint8) {
	i := (y*g.W + x) * 4
	g.Pix[i] = r
	g.Pix[i+1] = gr
	g.Pix[i+2] = b
	g.Pix[i+3] = a
}

// SetRGB writes the color channels at (x, y) with full opacity.
func (g *Grid) SetRGB(x, y int, c RGB) {
	g.Set(x, y, c.R, c.G, c.B, 255)
}

// InBounds reports whether (x, y) lies within the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// Luminance returns the perceptual luminance of the pixel at (x, y),
// rounded to the nearest integer in [0, 255]. Alpha is ignored.
func (g *Grid) Luminance(x, y int) uint8 {
	i := (y*g.W + x) * 4
	return Luminance(g.Pix[i], g.Pix[i+1], g.Pix[i+2])
}

// Luminance computes round(0.299R + 0.587G + 0.114B).
func Luminance(r, g, b uint8) uint8 {
	l := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	return uint8(math.Round(l))
}

// Validate checks the buffer invariant (len == W*H*4, dimensions >= 1).
func (g *Grid) Validate() error {
	if g.W < 1 || g.H < 1 {
		return fmt.Errorf("raster: grid dimensions must be at least 1x1, got %dx%d", g.W, g.H)
	}
	if len(g.Pix) != g.W*g.H*4 {
		return fmt.Errorf("raster: pixel buffer length %d does not match %dx%dx4", len(g.Pix), g.W, g.H)
	}
	return nil
}
