package effects

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/ivlev/blobscan/internal/raster"
)

// Resize errors.
var (
	ErrInvalidResizeTarget = errors.New("invalid resize target")
	ErrInvalidScaler       = errors.New("unknown resize scaler")
)

// Resize rescales the grid. Target accepts a percentage ("50%") or explicit
// dimensions ("800x600"), where either side may be "auto" to preserve the
// aspect ratio.
type Resize struct {
	Target string
	Scaler string
}

func (e Resize) Apply(g *raster.Grid) (*raster.Grid, error) {
	w, h, err := parseResizeTarget(e.Target, g.W, g.H)
	if err != nil {
		return nil, err
	}
	scaler, err := parseScaler(e.Scaler)
	if err != nil {
		return nil, err
	}

	src := g.ToImage()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return raster.FromImage(dst), nil
}

func parseScaler(name string) (xdraw.Scaler, error) {
	switch strings.ToLower(name) {
	case "nearest":
		return xdraw.NearestNeighbor, nil
	case "bilinear", "":
		return xdraw.ApproxBiLinear, nil
	case "exact-bilinear":
		return xdraw.BiLinear, nil
	case "catmullrom":
		return xdraw.CatmullRom, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidScaler, name)
	}
}

func parseResizeTarget(target string, srcW, srcH int) (int, int, error) {
	target = strings.TrimSpace(strings.ToLower(target))
	if target == "" {
		return 0, 0, fmt.Errorf("%w: empty", ErrInvalidResizeTarget)
	}

	if strings.HasSuffix(target, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(target, "%"), 64)
		if err != nil || pct <= 0 {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidResizeTarget, target)
		}
		w := int(math.Round(float64(srcW) * pct / 100))
		h := int(math.Round(float64(srcH) * pct / 100))
		return atLeastOne(w), atLeastOne(h), nil
	}

	parts := strings.Split(target, "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidResizeTarget, target)
	}
	w, err := parseSide(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidResizeTarget, target)
	}
	h, err := parseSide(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidResizeTarget, target)
	}

	switch {
	case w == 0 && h == 0:
		return 0, 0, fmt.Errorf("%w: both sides auto", ErrInvalidResizeTarget)
	case w == 0:
		w = int(math.Round(float64(h) * float64(srcW) / float64(srcH)))
	case h == 0:
		h = int(math.Round(float64(w) * float64(srcH) / float64(srcW)))
	}
	return atLeastOne(w), atLeastOne(h), nil
}

// parseSide returns 0 for the "auto" placeholder.
func parseSide(s string) (int, error) {
	if s == "auto" || s == "_" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("bad dimension %q", s)
	}
	return v, nil
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
