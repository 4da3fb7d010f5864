package histogram

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ivlev/blobscan/internal/raster"
)

func grayGrid(t *testing.T, w, h int, fill func(x, y int) uint8) *raster.Grid {
	t.Helper()
	g := raster.NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := fill(x, y)
			g.Set(x, y, v, v, v, 255)
		}
	}
	return g
}

func TestBuildCountsEveryPixel(t *testing.T) {
	g := grayGrid(t, 10, 10, func(x, y int) uint8 {
		if y < 5 {
			return 0
		}
		return 255
	})

	h := Build(g)
	require.Equal(t, uint32(100), h.Total)
	require.Equal(t, uint32(50), h.Counts[0])
	require.Equal(t, uint32(50), h.Counts[255])

	sum := uint32(0)
	for _, c := range h.Counts {
		sum += c
	}
	require.Equal(t, h.Total, sum, "bucket counts must sum to total")
}

func TestBuildSinglePixel(t *testing.T) {
	g := grayGrid(t, 1, 1, func(x, y int) uint8 { return 42 })
	h := Build(g)
	require.Equal(t, uint32(1), h.Total)
	require.Equal(t, uint32(1), h.Counts[42])
}

func TestBuildParallelMatchesSequential(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	g := raster.NewGrid(64, 37)
	for i := 0; i < len(g.Pix); i += 4 {
		g.Pix[i] = uint8(r.Intn(256))
		g.Pix[i+1] = uint8(r.Intn(256))
		g.Pix[i+2] = uint8(r.Intn(256))
		g.Pix[i+3] = 255
	}

	seq := Build(g)
	for _, workers := range []int{1, 2, 3, 8, 64} {
		par := BuildParallel(g, workers)
		require.Equal(t, seq.Counts, par.Counts, "workers=%d", workers)
		require.Equal(t, seq.Total, par.Total)
	}
}

func TestCutoffLowerRule(t *testing.T) {
	// Two luminance values, 0 (count 50) and 255 (count 50): the running count
	// reaches 50/100 = 0.5 already at bucket 0.
	h := &Histogram{Total: 100}
	h.Counts[0] = 50
	h.Counts[255] = 50

	cut, err := h.Cutoff(0.5)
	require.NoError(t, err)
	require.Equal(t, uint8(0), cut)

	cut, err = h.Cutoff(0.51)
	require.NoError(t, err)
	require.Equal(t, uint8(255), cut)
}

func TestCutoffExtremes(t *testing.T) {
	h := &Histogram{Total: 30}
	h.Counts[10] = 10
	h.Counts[100] = 10
	h.Counts[200] = 10

	cut, err := h.Cutoff(0)
	require.NoError(t, err)
	require.Equal(t, uint8(10), cut, "P=0 is the minimum luminance present")

	cut, err = h.Cutoff(1)
	require.NoError(t, err)
	require.Equal(t, uint8(200), cut, "P=1 is the maximum luminance present")
}

func TestCutoffInvalidParameters(t *testing.T) {
	h := &Histogram{Total: 1}
	h.Counts[0] = 1

	_, err := h.Cutoff(-0.01)
	require.ErrorIs(t, err, ErrInvalidPercentile)

	_, err = h.Cutoff(1.01)
	require.ErrorIs(t, err, ErrInvalidPercentile)

	empty := &Histogram{}
	_, err = empty.Cutoff(0.5)
	require.ErrorIs(t, err, ErrEmptyHistogram)
}

func TestCutoffDeterministic(t *testing.T) {
	g := grayGrid(t, 16, 16, func(x, y int) uint8 { return uint8((x * y) % 256) })
	h := Build(g)

	first, err := h.Cutoff(0.37)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := h.Cutoff(0.37)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestMinMax(t *testing.T) {
	h := &Histogram{Total: 2}
	h.Counts[7] = 1
	h.Counts[240] = 1
	require.Equal(t, uint8(7), h.Min())
	require.Equal(t, uint8(240), h.Max())
}
