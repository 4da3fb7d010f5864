package raster

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGB is an 8-bit color triple. Alpha does not participate in any of the
// analysis passes, so it is carried separately where needed.
type RGB struct {
	R, G, B uint8
}

// Common overlay colors.
var (
	Black   = RGB{0, 0, 0}
	White   = RGB{255, 255, 255}
	Gray    = RGB{127, 127, 127}
	Green   = RGB{0, 255, 0}
	Magenta = RGB{255, 0, 255}
)

// Distance returns the Euclidean distance between two colors in RGB space.
func (c RGB) Distance(o RGB) float64 {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return math.Sqrt(float64(dr*dr + dg*dg + db*db))
}

// Hex formats the color as a 6-digit lowercase hex string with leading #.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses "#RRGGBB" or "RRGGBB" (case-insensitive).
func ParseHex(s string) (RGB, error) {
	hex := strings.ToLower(strings.TrimPrefix(s, "#"))
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("raster: invalid color format, expected '#RRGGBB' or 'RRGGBB', got %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("raster: invalid color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
