// Package report serializes blob detection results into a structured,
// field-labeled record format and derives aggregate statistics.
package report

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ivlev/blobscan/internal/label"
	"github.com/ivlev/blobscan/internal/raster"
)

// Report is the serializable result of one detection run. Blob order matches
// the labeler's ordered output.
type Report struct {
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Count   int          `json:"count"`
	Blobs   []BlobRecord `json:"blobs"`
	Summary *Summary     `json:"summary,omitempty"`
}

// BlobRecord carries one blob's fields exactly as the labeler produced them.
type BlobRecord struct {
	ID       int         `json:"id"`
	Area     int         `json:"area"`
	BBox     BBox        `json:"bbox"`
	Centroid Point       `json:"centroid"`
	Color    ColorRecord `json:"color"`
}

// BBox is an inclusive bounding box.
type BBox struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

// Point is a real-valued coordinate pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ColorRecord is an 8-bit RGB triple.
type ColorRecord struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Summary aggregates blob areas across the whole run.
type Summary struct {
	TotalArea  int     `json:"total_area"`
	MaxArea    int     `json:"max_area"`
	MeanArea   float64 `json:"mean_area"`
	MedianArea float64 `json:"median_area"`
	StdDevArea float64 `json:"stddev_area"`
}

// Build converts an ordered blob list into a Report, including the aggregate
// summary when at least one blob is present.
func Build(width, height int, blobs []label.Blob) *Report {
	r := &Report{
		Width:  width,
		Height: height,
		Count:  len(blobs),
		Blobs:  make([]BlobRecord, len(blobs)),
	}
	for i, b := range blobs {
		r.Blobs[i] = BlobRecord{
			ID:   b.ID,
			Area: b.Area,
			BBox: BBox{MinX: b.MinX, MinY: b.MinY, MaxX: b.MaxX, MaxY: b.MaxY},
			Centroid: Point{
				X: b.CentroidX,
				Y: b.CentroidY,
			},
			Color: ColorRecord{R: b.Color.R, G: b.Color.G, B: b.Color.B},
		}
	}
	if len(blobs) > 0 {
		r.Summary = summarize(blobs)
	}
	return r
}

// ToBlobs converts the report back into labeler blobs. Together with Build
// this makes the serialization round-trip lossless.
func (r *Report) ToBlobs() []label.Blob {
	out := make([]label.Blob, len(r.Blobs))
	for i, rec := range r.Blobs {
		out[i] = label.Blob{
			ID:        rec.ID,
			Area:      rec.Area,
			MinX:      rec.BBox.MinX,
			MinY:      rec.BBox.MinY,
			MaxX:      rec.BBox.MaxX,
			MaxY:      rec.BBox.MaxY,
			CentroidX: rec.Centroid.X,
			CentroidY: rec.Centroid.Y,
			Color:     raster.RGB{R: rec.Color.R, G: rec.Color.G, B: rec.Color.B},
		}
	}
	return out
}

func summarize(blobs []label.Blob) *Summary {
	areas := make([]float64, len(blobs))
	total, max := 0, 0
	for i, b := range blobs {
		areas[i] = float64(b.Area)
		total += b.Area
		if b.Area > max {
			max = b.Area
		}
	}
	sort.Float64s(areas)

	// StdDev needs at least two samples; a single blob has zero spread.
	stddev := 0.0
	if len(areas) > 1 {
		stddev = stat.StdDev(areas, nil)
	}

	return &Summary{
		TotalArea:  total,
		MaxArea:    max,
		MeanArea:   stat.Mean(areas, nil),
		MedianArea: stat.Quantile(0.5, stat.Empirical, areas, nil),
		StdDevArea: stddev,
	}
}
