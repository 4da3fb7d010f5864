// Package sink writes pixel grids to image files and terminals.
package sink

import (
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/ivlev/blobscan/internal/raster"
)

// DefaultJPEGQuality matches the encoder default.
const DefaultJPEGQuality = 90

// Encode writes the grid in the named format ("png", "jpeg", "bmp", "tiff").
func Encode(w io.Writer, g *raster.Grid, format string) error {
	img := g.ToImage()
	switch strings.ToLower(format) {
	case "png", "":
		return png.Encode(w, img)
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: DefaultJPEGQuality})
	case "bmp":
		return bmp.Encode(w, img)
	case "tif", "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteFile saves the grid to path, picking the format from the extension.
func WriteFile(path string, g *raster.Grid) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		format = "png"
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, g, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
