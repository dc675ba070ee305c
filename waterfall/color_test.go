package waterfall

import (
	"image/color"
	"math"
	"testing"
)

func TestColorMapMonotonic(t *testing.T) {
	prev := ColorMap(-50)
	for db := -50.0; db <= 0; db += 0.25 {
		c := ColorMap(db)
		if c.R < prev.R || c.G != c.R || c.B != 100 {
			t.Fatalf("ColorMap(%f) = %v after %v", db, c, prev)
		}
		prev = c
	}
}

func TestColorMapClamps(t *testing.T) {
	low := color.RGBA{0, 0, 100, 255}
	high := color.RGBA{255, 255, 100, 255}
	tests := []struct {
		db       float64
		expected color.RGBA
	}{
		{-50, low},
		{-80, low},
		{math.Inf(-1), low},
		{math.NaN(), low},
		{0, high},
		{12, high},
		{math.Inf(1), high},
		{-25, color.RGBA{128, 128, 100, 255}},
	}
	for _, tt := range tests {
		if c := ColorMap(tt.db); c != tt.expected {
			t.Errorf("ColorMap(%f) = %v, expected %v", tt.db, c, tt.expected)
		}
	}
}
