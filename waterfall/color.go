package waterfall

import (
	"image/color"
	"math"
)

// Power range the color map spans, in dB.
const (
	FloorDB   = -50.0
	CeilingDB = 0.0
)

const blue = 100

// ColorMap maps power to a dark-blue..yellow ramp; values outside
// [FloorDB, CeilingDB] saturate.
func ColorMap(db float64) color.RGBA {
	i := Intensity(db)
	return color.RGBA{R: i, G: i, B: blue, A: 0xff}
}

// Intensity is the 8-bit level ColorMap uses for the red and green channels.
func Intensity(db float64) uint8 {
	if math.IsNaN(db) {
		return 0
	}
	v := math.Round((db - FloorDB) * 255 / (CeilingDB - FloorDB))
	if v < 0 {
		return 0
	} else if v > 255 {
		return 255
	}
	return uint8(v)
}
