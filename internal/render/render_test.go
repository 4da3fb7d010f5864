package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ivlev/blobscan/internal/label"
	"github.com/ivlev/blobscan/internal/mask"
	"github.com/ivlev/blobscan/internal/raster"
	"github.com/ivlev/blobscan/internal/system"
)

// detect is a small helper running the real labeler so render tests exercise
// genuine label grids.
func detect(t *testing.T, g *raster.Grid, rows ...string) (*label.Grid, []label.Blob) {
	t.Helper()
	m := mask.NewMask(g.W, g.H)
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			if row[x] == '#' {
				m.Set(x, y, true)
			}
		}
	}
	lg, blobs, err := label.Components(m, g, label.DefaultOptions())
	require.NoError(t, err)
	return lg, blobs
}

func uniformGrid(w, h int, c raster.RGB) *raster.Grid {
	g := raster.NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.SetRGB(x, y, c)
		}
	}
	return g
}

func TestOutlineDrawsBorderOnly(t *testing.T) {
	bg := raster.RGB{R: 9, G: 9, B: 9}
	g := uniformGrid(6, 6, bg)
	lg, blobs := detect(t, g,
		"......",
		".###..",
		".###..",
		".###..",
		"......",
	)

	out, err := Image(g, lg, blobs, Outline, Params{OutlineColor: raster.Green})
	require.NoError(t, err)
	require.Equal(t, g.W, out.W)
	require.Equal(t, g.H, out.H)

	// Border of bbox (1,1)-(3,3) painted, center and exterior untouched.
	r, gr, b, _ := out.At(1, 1)
	require.Equal(t, raster.Green, raster.RGB{R: r, G: gr, B: b})
	r, gr, b, _ = out.At(2, 2)
	require.Equal(t, bg, raster.RGB{R: r, G: gr, B: b})
	r, gr, b, _ = out.At(5, 5)
	require.Equal(t, bg, raster.RGB{R: r, G: gr, B: b})

	// Source grid not mutated.
	r, gr, b, _ = g.At(1, 1)
	require.Equal(t, bg, raster.RGB{R: r, G: gr, B: b})
}

func TestFillFixedColor(t *testing.T) {
	bg := raster.RGB{R: 7, G: 7, B: 7}
	g := uniformGrid(4, 3, bg)
	lg, blobs := detect(t, g,
		"##..",
		"....",
		"...#",
	)

	fill := raster.RGB{R: 1, G: 2, B: 3}
	out, err := Image(g, lg, blobs, Fill, Params{FillColor: &fill})
	require.NoError(t, err)

	r, gr, b, _ := out.At(0, 0)
	require.Equal(t, fill, raster.RGB{R: r, G: gr, B: b})
	r, gr, b, _ = out.At(3, 2)
	require.Equal(t, fill, raster.RGB{R: r, G: gr, B: b})
	r, gr, b, _ = out.At(2, 1)
	require.Equal(t, bg, raster.RGB{R: r, G: gr, B: b}, "background passes through")
}

func TestFillPaletteIsPerBlobDeterministic(t *testing.T) {
	g := uniformGrid(5, 1, raster.Black)
	lg, blobs := detect(t, g, "#.#.#")
	require.Len(t, blobs, 3)

	out, err := Image(g, lg, blobs, Fill, Params{})
	require.NoError(t, err)

	seen := map[raster.RGB]bool{}
	for _, b := range blobs {
		r, gr, bl, _ := out.At(b.MinX, 0)
		c := raster.RGB{R: r, G: gr, B: bl}
		require.Equal(t, PaletteColor(b.ID), c)
		seen[c] = true
	}
	require.Len(t, seen, 3, "palette colors differ per id")
}

func TestFillBlackBackground(t *testing.T) {
	g := uniformGrid(3, 1, raster.White)
	lg, blobs := detect(t, g, "#..")

	out, err := Image(g, lg, blobs, Fill, Params{Background: BlackBackground})
	require.NoError(t, err)
	r, gr, b, a := out.At(2, 0)
	require.Equal(t, raster.Black, raster.RGB{R: r, G: gr, B: b})
	require.Equal(t, uint8(255), a)

	out, err = Image(g, lg, blobs, Fill, Params{Background: TransparentBackground})
	require.NoError(t, err)
	_, _, _, a = out.At(2, 0)
	require.Zero(t, a)
}

func TestHeatmapNormalizesAgainstMaxArea(t *testing.T) {
	g := uniformGrid(7, 1, raster.Black)
	// Blob of area 4 and blob of area 1.
	lg, blobs := detect(t, g, "####.#.")
	require.Len(t, blobs, 2)

	out, err := Image(g, lg, blobs, Heatmap, Params{})
	require.NoError(t, err)

	// Max-area blob sits at t=1.0: pure white end of the ramp.
	r, gr, b, _ := out.At(0, 0)
	require.Equal(t, raster.White, raster.RGB{R: r, G: gr, B: b})

	// The small blob (t=0.25) stays on the blue-to-red leg.
	r, gr, b, _ = out.At(5, 0)
	require.Equal(t, HeatColor(1, 4), raster.RGB{R: r, G: gr, B: b})
	require.Zero(t, gr)
	require.Greater(t, b, r)
}

func TestHeatColorRamp(t *testing.T) {
	require.Equal(t, raster.RGB{B: 255}, HeatColor(0, 10))
	require.Equal(t, raster.RGB{R: 255, G: 255, B: 255}, HeatColor(10, 10))
	mid := HeatColor(4, 10) // t = 0.4, halfway along the blue-red leg
	require.Equal(t, raster.RGB{R: 127, B: 127}, mid)
}

func TestImageRecyclesPooledGridsCleanly(t *testing.T) {
	g := uniformGrid(4, 4, raster.RGB{R: 11, G: 22, B: 33})
	lg, blobs := detect(t, g, "....")

	// Dirty a pooled grid of the same dimensions, then render with a
	// transparent background and no blobs: every byte must come back zero.
	dirty := system.GetGrid(4, 4)
	for i := range dirty.Pix {
		dirty.Pix[i] = 0xAB
	}
	system.PutGrid(dirty)

	out, err := Image(g, lg, blobs, Fill, Params{Background: TransparentBackground})
	require.NoError(t, err)
	for i, b := range out.Pix {
		require.Zerof(t, b, "stale pool byte at offset %d", i)
	}
	system.PutGrid(out)

	// Outline after recycling must be an exact copy of the source plus the
	// border, with no residue from the previous render.
	lg2, blobs2 := detect(t, g, "....", ".##.")
	out2, err := Image(g, lg2, blobs2, Outline, Params{OutlineColor: raster.Magenta})
	require.NoError(t, err)
	r, gr, b, a := out2.At(0, 0)
	require.Equal(t, raster.RGB{R: 11, G: 22, B: 33}, raster.RGB{R: r, G: gr, B: b})
	require.Equal(t, uint8(255), a)
	r, gr, b, _ = out2.At(1, 1)
	require.Equal(t, raster.Magenta, raster.RGB{R: r, G: gr, B: b})
	system.PutGrid(out2)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"outline", Outline, false},
		{"", Outline, false},
		{"fill", Fill, false},
		{"heatmap", Heatmap, false},
		{"report", Report, false},
		{"sparkle", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			require.ErrorIs(t, err, ErrInvalidMode)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestImageRejectsReportMode(t *testing.T) {
	g := uniformGrid(1, 1, raster.Black)
	lg, blobs := detect(t, g, ".")
	_, err := Image(g, lg, blobs, Report, Params{})
	require.ErrorIs(t, err, ErrInvalidMode)
}

func TestWriteSVG(t *testing.T) {
	g := uniformGrid(8, 8, raster.Black)
	_, blobs := detect(t, g,
		"##......",
		"##......",
	)

	var buf bytes.Buffer
	WriteSVG(&buf, 8, 8, blobs)
	out := buf.String()

	require.True(t, strings.Contains(out, "<svg"))
	require.True(t, strings.Contains(out, "<rect"))
	require.True(t, strings.Contains(out, PaletteColor(1).Hex()))
}
