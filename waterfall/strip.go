package waterfall

import (
	"errors"
	"image/color"

	"github.com/chzchzchz/gnuwaterfall/radio"
)

var ErrEmptySpectrum = errors.New("empty spectrum")

// Quad is one flat-shaded bin of a strip in data space: X in MHz, Y in seconds.
type Quad struct {
	X0, X1 float64
	Y0, Y1 float64
	Color  color.RGBA
}

// Geometry is everything a renderer needs to build one strip.
type Geometry struct {
	Quads []Quad
}

// Bounds returns the data-space rectangle the strip covers.
func (g Geometry) Bounds() (xMin, xMax, yMin, yMax float64) {
	if len(g.Quads) == 0 {
		return 0, 0, 0, 0
	}
	first, last := g.Quads[0], g.Quads[len(g.Quads)-1]
	return first.X0, last.X1, first.Y0, first.Y1
}

// Strip is a rendering resource holding one row of the waterfall.
type Strip interface {
	// Release frees the resource; it is called exactly once.
	Release()
}

// Allocator creates strips; it is implemented by the renderer.
type Allocator interface {
	NewStrip(g Geometry) (Strip, error)
}

// BuildGeometry lays out one quad per bin spanning [f_i, f_{i+1}] by
// [now-dt, now]. The last bin reuses the width of the one before it.
func BuildGeometry(now, dt float64, s radio.Spectrum) (Geometry, error) {
	if len(s) == 0 {
		return Geometry{}, ErrEmptySpectrum
	}
	quads := make([]Quad, len(s))
	for i, b := range s {
		x0 := b.Freq / 1e6
		var x1 float64
		switch {
		case i+1 < len(s):
			x1 = s[i+1].Freq / 1e6
		case i > 0:
			x1 = x0 + (b.Freq-s[i-1].Freq)/1e6
		default:
			x1 = x0
		}
		quads[i] = Quad{X0: x0, X1: x1, Y0: now - dt, Y1: now, Color: ColorMap(b.Power)}
	}
	return Geometry{Quads: quads}, nil
}
