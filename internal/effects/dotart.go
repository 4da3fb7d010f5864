package effects

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ivlev/blobscan/internal/histogram"
	"github.com/ivlev/blobscan/internal/raster"
)

// Dotart defaults.
const (
	DefaultDotScale = 16
	DefaultDotLower = 0.75
	DefaultDotUpper = 0.90
)

// Dotart renders the image as a halftone dot pattern: the grid is downscaled
// so every Scale x Scale cell becomes one sample, the samples are split into
// three tones against the percentile band, and each non-dark cell becomes a
// filled dot at the cell center. Mid-tone dots are drawn translucent.
type Dotart struct {
	Scale int
	Lower float64
	Upper float64

	DotColor   *raster.RGB // nil preserves the downscaled cell color
	Background raster.RGB
}

// Dot is one planned halftone mark in output pixel coordinates.
type Dot struct {
	X      int        `json:"x"`
	Y      int        `json:"y"`
	Radius int        `json:"radius"`
	Color  string     `json:"color"`
	rgb    raster.RGB // drawing color, pre-parse of Color
	alpha  uint8
}

func (e Dotart) Apply(g *raster.Grid) (*raster.Grid, error) {
	dots, err := e.plan(g)
	if err != nil {
		return nil, err
	}

	out := raster.NewGrid(g.W, g.H)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			out.SetRGB(x, y, e.Background)
		}
	}
	for _, d := range dots {
		drawDot(out, d)
	}
	return out, nil
}

// WriteJSON emits the dot plan instead of rasterizing it, so callers can
// re-render the pattern at any resolution.
func (e Dotart) WriteJSON(w io.Writer, g *raster.Grid) error {
	dots, err := e.plan(g)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Background string `json:"bg"`
		Points     []Dot  `json:"points"`
	}{
		Background: e.Background.Hex(),
		Points:     dots,
	})
}

// plan downscales the grid and turns every cell above the dark cutoff into
// a dot. Dots never overlap: the radius is at most a quarter of the cell.
func (e Dotart) plan(g *raster.Grid) ([]Dot, error) {
	scale := e.Scale
	if scale < 1 {
		scale = 1
	}
	sw, sh := g.W/scale, g.H/scale
	if sw < 1 {
		sw = 1
	}
	if sh < 1 {
		sh = 1
	}

	small, err := Resize{
		Target: fmt.Sprintf("%dx%d", sw, sh),
		Scaler: "catmullrom",
	}.Apply(g)
	if err != nil {
		return nil, err
	}

	dark, bright, err := toneCutoffs(histogram.Build(small), e.Lower, e.Upper)
	if err != nil {
		return nil, err
	}

	radius := scale / 4
	if radius < 1 {
		radius = 1
	}

	var dots []Dot
	for y := 0; y < small.H; y++ {
		for x := 0; x < small.W; x++ {
			l := small.Luminance(x, y)
			if l <= dark {
				continue
			}
			alpha := uint8(127)
			if l >= bright {
				alpha = 255
			}

			c := e.DotColor
			if c == nil {
				r, gr, b, _ := small.At(x, y)
				c = &raster.RGB{R: r, G: gr, B: b}
			}
			dots = append(dots, Dot{
				X:      x*scale + scale/2,
				Y:      y*scale + scale/2,
				Radius: radius,
				Color:  c.Hex(),
				rgb:    *c,
				alpha:  alpha,
			})
		}
	}
	return dots, nil
}

// drawDot blends a filled circle over the background. The grid is opaque, so
// plain source-over blending per channel suffices.
func drawDot(g *raster.Grid, d Dot) {
	a := int(d.alpha)
	for dy := -d.Radius; dy <= d.Radius; dy++ {
		for dx := -d.Radius; dx <= d.Radius; dx++ {
			if dx*dx+dy*dy > d.Radius*d.Radius {
				continue
			}
			x, y := d.X+dx, d.Y+dy
			if !g.InBounds(x, y) {
				continue
			}
			i := (y*g.W + x) * 4
			g.Pix[i] = blend(d.rgb.R, g.Pix[i], a)
			g.Pix[i+1] = blend(d.rgb.G, g.Pix[i+1], a)
			g.Pix[i+2] = blend(d.rgb.B, g.Pix[i+2], a)
		}
	}
}

func blend(fg, bg uint8, alpha int) uint8 {
	return uint8((int(fg)*alpha + int(bg)*(255-alpha)) / 255)
}
