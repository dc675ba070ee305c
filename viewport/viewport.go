// Package viewport maps the waterfall's data space (frequency in MHz by
// elapsed seconds) onto the display and implements pan and zoom.
package viewport

import (
	"fmt"
	"math"

	"github.com/chzchzchz/gnuwaterfall/radio"
)

type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// MinSpan is the narrowest range zooming can reach. It also keeps the
// single-segment sample rate above the rtl2832's unusable 300k-900k gap.
const MinSpan = 1e6

const panFraction = 0.1

// Model owns the requested sweep bounds and the current projection.
type Model struct {
	lower, upper float64

	width, height int
	proj          Projection
}

func New(lower, upper float64, width, height int) (*Model, error) {
	if _, err := radio.NewFrequencyRange(lower, upper); err != nil {
		return nil, err
	}
	m := &Model{lower: lower, upper: upper}
	m.clamp()
	m.Resize(width, height)
	return m, nil
}

// Bounds is the frequency range the next sweep should cover.
func (m *Model) Bounds() radio.FrequencyRange {
	return radio.FrequencyRange{Lower: m.lower, Upper: m.upper}
}

// Pan moves (Left/Right) or zooms (Up narrows, Down widens) by a tenth of the span.
func (m *Model) Pan(d Direction) {
	delta := m.upper - m.lower
	step := delta * panFraction
	switch d {
	case Left:
		m.lower, m.upper = m.lower-step, m.upper-step
	case Right:
		m.lower, m.upper = m.lower+step, m.upper+step
	case Up:
		m.lower, m.upper = m.lower+step, m.upper-step
	case Down:
		m.lower, m.upper = m.lower-step, m.upper+step
	}
	m.clamp()
}

// clamp pins each bound to the tunable range independently, then restores
// a MinSpan window around the center if that left the range too narrow.
func (m *Model) clamp() {
	m.lower = math.Max(m.lower, radio.MinTunableHz)
	m.upper = math.Min(m.upper, radio.MaxTunableHz)
	if m.upper-m.lower >= MinSpan {
		return
	}
	c := (m.lower + m.upper) / 2
	lo, hi := c-MinSpan/2, c+MinSpan/2
	if lo < radio.MinTunableHz {
		lo, hi = radio.MinTunableHz, radio.MinTunableHz+MinSpan
	} else if hi > radio.MaxTunableHz {
		lo, hi = radio.MaxTunableHz-MinSpan, radio.MaxTunableHz
	}
	m.lower, m.upper = lo, hi
}

func (m *Model) Resize(width, height int) {
	m.width, m.height = width, height
	m.proj.Width, m.proj.Height = width, height
}

func (m *Model) Size() (int, int) { return m.width, m.height }

// Project fixes the data rectangle shown on the display for this tick.
func (m *Model) Project(xMin, xMax, yMin, yMax float64) Projection {
	m.proj = Projection{
		Data:   Rect{XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax},
		Width:  m.width,
		Height: m.height,
	}
	return m.proj
}

func (m *Model) Projection() Projection { return m.proj }

// OverlayPosition is where, in screen pixels, a label anchored at a data
// point belongs. Labels are drawn at that pixel at a fixed pixel size so the
// non-uniform data scaling never stretches them.
func (m *Model) OverlayPosition(dataX, dataY float64) (float64, float64) {
	return m.proj.ToScreen(dataX, dataY)
}
