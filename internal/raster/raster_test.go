package raster

import (
	"image"
	"image/color"
	"testing"
)

func TestFromImageRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetRGBA(2, 1, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	g := FromImage(img)
	if g.W != 3 || g.H != 2 {
		t.Fatalf("Expected 3x2 grid, got %dx%d", g.W, g.H)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	r, gr, b, a := g.At(0, 0)
	if r != 10 || gr != 20 || b != 30 || a != 255 {
		t.Errorf("Pixel (0,0) = %d,%d,%d,%d", r, gr, b, a)
	}
	r, gr, b, _ = g.At(2, 1)
	if r != 200 || gr != 100 || b != 50 {
		t.Errorf("Pixel (2,1) = %d,%d,%d", r, gr, b)
	}
}

func TestFromImageOffsetBounds(t *testing.T) {
	// Sub-images carry non-zero Min; the grid must still be origin-based.
	img := image.NewGray(image.Rect(5, 5, 8, 7))
	img.SetGray(5, 5, color.Gray{Y: 77})

	g := FromImage(img)
	if g.W != 3 || g.H != 2 {
		t.Fatalf("Expected 3x2 grid, got %dx%d", g.W, g.H)
	}
	r, _, _, _ := g.At(0, 0)
	if r != 77 {
		t.Errorf("Expected translated pixel value 77, got %d", r)
	}
}

func TestRoundTripToImage(t *testing.T) {
	g := NewGrid(4, 4)
	g.Set(1, 2, 9, 8, 7, 255)

	img := g.ToImage()
	back := FromImage(img)

	for i := range g.Pix {
		if g.Pix[i] != back.Pix[i] {
			t.Fatalf("Round trip mismatch at byte %d: %d != %d", i, g.Pix[i], back.Pix[i])
		}
	}
}

func TestLuminance(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    uint8
	}{
		{0, 0, 0, 0},
		{255, 255, 255, 255},
		{255, 0, 0, 76},  // 0.299*255 = 76.245
		{0, 255, 0, 150}, // 0.587*255 = 149.685
		{0, 0, 255, 29},  // 0.114*255 = 29.07
		{100, 100, 100, 100},
	}

	for _, tt := range tests {
		if got := Luminance(tt.r, tt.g, tt.b); got != tt.want {
			t.Errorf("Luminance(%d,%d,%d) = %d, want %d", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    RGB
		wantErr bool
	}{
		{"#ff0000", RGB{255, 0, 0}, false},
		{"00FF7f", RGB{0, 255, 127}, false},
		{"#123456", RGB{0x12, 0x34, 0x56}, false},
		{"#fff", RGB{}, true},
		{"zzzzzz", RGB{}, true},
		{"", RGB{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	c := RGB{R: 171, G: 205, B: 239}
	parsed, err := ParseHex(c.Hex())
	if err != nil {
		t.Fatalf("ParseHex failed: %v", err)
	}
	if parsed != c {
		t.Errorf("Round trip changed color: %v -> %v", c, parsed)
	}
}

func TestDistance(t *testing.T) {
	if d := (RGB{0, 0, 0}).Distance(RGB{0, 0, 0}); d != 0 {
		t.Errorf("Distance to self = %f", d)
	}
	// 3-4-0 triangle scaled
	if d := (RGB{3, 4, 0}).Distance(RGB{0, 0, 0}); d != 5 {
		t.Errorf("Distance = %f, want 5", d)
	}
}
