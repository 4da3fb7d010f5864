package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/ivlev/blobscan/internal/effects"
	"github.com/ivlev/blobscan/internal/raster"
)

// previewWidth caps the terminal rendering at a typical window width.
const previewWidth = 100

// Preview prints a downscaled approximation of the grid to stdout using
// truecolor half-block characters. It is a no-op when stdout is not a
// terminal, so piping output stays clean.
func Preview(g *raster.Grid) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return nil
	}
	return WritePreview(os.Stdout, g)
}

// WritePreview renders the half-block preview to an arbitrary writer.
func WritePreview(w io.Writer, g *raster.Grid) error {
	if g.W > previewWidth {
		scaled, err := effects.Resize{
			Target: fmt.Sprintf("%dxauto", previewWidth),
			Scaler: "bilinear",
		}.Apply(g)
		if err != nil {
			return err
		}
		g = scaled
	}

	// Each text row covers two pixel rows: upper pixel as foreground over
	// the lower pixel as background, with the upper-half-block glyph.
	for y := 0; y < g.H; y += 2 {
		for x := 0; x < g.W; x++ {
			tr, tg, tb, _ := g.At(x, y)
			br, bg, bb := uint8(0), uint8(0), uint8(0)
			if y+1 < g.H {
				br, bg, bb, _ = g.At(x, y+1)
			}
			if _, err := fmt.Fprintf(w, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				tr, tg, tb, br, bg, bb); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(w, "\x1b[0m\n"); err != nil {
			return err
		}
	}
	return nil
}
