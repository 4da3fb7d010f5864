// Package label partitions foreground masks into connected components and
// accumulates per-blob statistics.
//
// The labeler is the classic two-pass algorithm: a raster scan assigns
// provisional labels and records equivalences in a union-find forest, then a
// second fused pass resolves every cell to its canonical component while
// accumulating area, bounding box, centroid sums and channel sums. No
// per-pixel membership lists are kept; accumulator memory is O(blob count).
//
// Output is deterministic: blob ids are dense, start at 1, and follow
// first-discovery order of the resolved components in raster scan order,
// independent of union-find internals.
package label

import (
	"errors"
	"math"

	"github.com/ivlev/blobscan/internal/mask"
	"github.com/ivlev/blobscan/internal/raster"
)

// Sentinel errors for labeling parameters.
var (
	// ErrInvalidConnectivity indicates a connectivity other than 4 or 8.
	ErrInvalidConnectivity = errors.New("label: connectivity must be 4 or 8")
	// ErrInvalidMinArea indicates a negative minimum area.
	ErrInvalidMinArea = errors.New("label: minimum area must be non-negative")
	// ErrDimensionMismatch indicates mask and grid dimensions differ.
	ErrDimensionMismatch = errors.New("label: mask and grid dimensions differ")
)

// Connectivity selects the neighborhood used during the raster scan.
type Connectivity int

const (
	// Conn4 connects orthogonal neighbors only.
	Conn4 Connectivity = 4
	// Conn8 additionally connects diagonal neighbors.
	Conn8 Connectivity = 8
)

// Options configures a labeling run.
type Options struct {
	Connectivity Connectivity
	MinArea      int // blobs below this area are dropped; 0 or 1 keeps everything
}

// DefaultOptions returns 4-connectivity with no area filtering.
func DefaultOptions() Options {
	return Options{Connectivity: Conn4, MinArea: 1}
}

// Grid assigns each cell a blob id. Zero is background; positive ids match
// the returned blobs.
type Grid struct {
	W, H   int
	Labels []int32 // row-major, len == W*H
}

// At returns the blob id at (x, y), 0 for background.
func (g *Grid) At(x, y int) int32 {
	return g.Labels[y*g.W+x]
}

// Blob is one connected foreground region with its aggregate statistics.
type Blob struct {
	ID   int
	Area int

	// Bounding box, inclusive on all sides.
	MinX, MinY, MaxX, MaxY int

	// Centroid in pixel coordinates.
	CentroidX, CentroidY float64

	// Mean color over member pixels; alpha is always 255.
	Color raster.RGB
}

// accumulator collects running statistics for one canonical component.
type accumulator struct {
	area                   int64
	sumX, sumY             int64
	minX, minY, maxX, maxY int
	sumR, sumG, sumB       uint64
}

// Components labels the foreground of m into maximal connected regions and
// returns the label grid plus the ordered blob list. The pixel grid supplies
// the channel data for each blob's mean color and must match the mask
// dimensions. An all-background mask yields zero blobs and no error.
func Components(m *mask.Mask, g *raster.Grid, opts Options) (*Grid, []Blob, error) {
	if opts.Connectivity != Conn4 && opts.Connectivity != Conn8 {
		return nil, nil, ErrInvalidConnectivity
	}
	if opts.MinArea < 0 {
		return nil, nil, ErrInvalidMinArea
	}
	if m.W != g.W || m.H != g.H {
		return nil, nil, ErrDimensionMismatch
	}

	w, h := m.W, m.H
	out := &Grid{W: w, H: h, Labels: make([]int32, w*h)}

	// Pass 1: provisional labels. Cells store label+1 so the zero value stays
	// "unlabeled" throughout.
	dsu := newDisjointSet(64)
	var neighbors [4]int32

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if !m.Bits[idx] {
				continue
			}

			n := 0
			if x > 0 && out.Labels[idx-1] != 0 {
				neighbors[n] = out.Labels[idx-1] - 1
				n++
			}
			if y > 0 {
				if out.Labels[idx-w] != 0 {
					neighbors[n] = out.Labels[idx-w] - 1
					n++
				}
				if opts.Connectivity == Conn8 {
					if x > 0 && out.Labels[idx-w-1] != 0 {
						neighbors[n] = out.Labels[idx-w-1] - 1
						n++
					}
					if x < w-1 && out.Labels[idx-w+1] != 0 {
						neighbors[n] = out.Labels[idx-w+1] - 1
						n++
					}
				}
			}

			if n == 0 {
				out.Labels[idx] = dsu.add() + 1
				continue
			}

			min := neighbors[0]
			for i := 1; i < n; i++ {
				if neighbors[i] < min {
					min = neighbors[i]
				}
			}
			out.Labels[idx] = min + 1
			for i := 0; i < n; i++ {
				if neighbors[i] != min {
					dsu.union(min, neighbors[i])
				}
			}
		}
	}

	// Pass 2: resolve every provisional label to its canonical root, assign
	// dense ids in first-discovery order, and accumulate statistics in the
	// same sweep.
	dense := make(map[int32]int32) // canonical root -> dense id (1-based)
	var accs []*accumulator

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if out.Labels[idx] == 0 {
				continue
			}
			root := dsu.find(out.Labels[idx] - 1)
			id, ok := dense[root]
			if !ok {
				id = int32(len(accs) + 1)
				dense[root] = id
				accs = append(accs, &accumulator{
					minX: x, minY: y, maxX: x, maxY: y,
				})
			}
			out.Labels[idx] = id

			a := accs[id-1]
			a.area++
			a.sumX += int64(x)
			a.sumY += int64(y)
			if x < a.minX {
				a.minX = x
			}
			if x > a.maxX {
				a.maxX = x
			}
			if y < a.minY {
				a.minY = y
			}
			if y > a.maxY {
				a.maxY = y
			}
			pi := idx * 4
			a.sumR += uint64(g.Pix[pi])
			a.sumG += uint64(g.Pix[pi+1])
			a.sumB += uint64(g.Pix[pi+2])
		}
	}

	// Finalize, dropping blobs under the area floor. Surviving blobs are
	// renumbered densely in the same discovery order.
	minArea := opts.MinArea
	if minArea < 1 {
		minArea = 1
	}

	blobs := make([]Blob, 0, len(accs))
	remap := make([]int32, len(accs)+1) // old dense id -> final id, 0 drops
	for i, a := range accs {
		if int(a.area) < minArea {
			continue
		}
		id := len(blobs) + 1
		remap[i+1] = int32(id)
		blobs = append(blobs, Blob{
			ID:        id,
			Area:      int(a.area),
			MinX:      a.minX,
			MinY:      a.minY,
			MaxX:      a.maxX,
			MaxY:      a.maxY,
			CentroidX: float64(a.sumX) / float64(a.area),
			CentroidY: float64(a.sumY) / float64(a.area),
			Color: raster.RGB{
				R: uint8(math.Round(float64(a.sumR) / float64(a.area))),
				G: uint8(math.Round(float64(a.sumG) / float64(a.area))),
				B: uint8(math.Round(float64(a.sumB) / float64(a.area))),
			},
		})
	}

	if len(blobs) != len(accs) {
		for i, l := range out.Labels {
			if l != 0 {
				out.Labels[i] = remap[l]
			}
		}
	}

	return out, blobs, nil
}
